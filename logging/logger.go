package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/turbot/tailpipe-file-ingest/constants"
)

// keys whose values must never reach the log
var redactedKeys = map[string]struct{}{
	"secret_key":    {},
	"session_token": {},
	"access_key":    {},
	"external_id":   {},
}

func Initialize(name string) {
	slog.SetDefault(NewLogger(name, os.Stderr))
}

// NewLogger returns a JSON logger writing to w which redacts credential values
func NewLogger(name string, w io.Writer) *slog.Logger {
	level := getLogLevel()
	if level == constants.LogLevelOff {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	}

	handlerOptions := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if _, ok := redactedKeys[strings.ToLower(a.Key)]; ok {
				return slog.String(a.Key, "<redacted>")
			}
			return a
		},
	}
	return slog.New(slog.NewJSONHandler(w, handlerOptions)).With("source", name)
}

func getLogLevel() slog.Leveler {
	levelEnv := os.Getenv(constants.EnvLogLevel)

	switch strings.ToLower(levelEnv) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "off":
		return constants.LogLevelOff
	default:
		return slog.LevelInfo
	}
}
