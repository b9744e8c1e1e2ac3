package constants

import "log/slog"

// LogLevelOff is above every real level so nothing is written
const LogLevelOff = slog.Level(100)
