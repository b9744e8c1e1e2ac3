package constants

import "time"

const (
	// DefaultBufferSize is the number of records held before a batch is flushed to the sink
	DefaultBufferSize = 100

	// DefaultDelimiter, DefaultQuoteChar are used for delimited files when the table does not set them
	DefaultDelimiter = ","
	DefaultQuoteChar = `"`

	// ListLogInterval is the number of listed keys between match-ratio log lines
	ListLogInterval = 30000

	// SampleRate, SampleMaxRecords and SampleMaxFiles bound schema discovery
	SampleRate       = 5
	SampleMaxRecords = 1000
	SampleMaxFiles   = 5

	ToolName = "file-ingest"
)

// DefaultModifiedSince is the bookmark used for a table which has never been synced
var DefaultModifiedSince = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
