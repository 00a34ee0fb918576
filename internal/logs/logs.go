// Package logs builds the process-wide structured logger.
package logs

import (
	"log/slog"
	"os"
	"strings"
)

// GetLoggerFromString returns a slog logger at the given level.
// Unknown or empty strings fall back to INFO.
func GetLoggerFromString(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
