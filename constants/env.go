package constants

const (
	EnvLogLevel = "FILE_INGEST_LOG_LEVEL"
)
