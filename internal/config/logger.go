// internal/config/logger.go
package config

import (
	"io"
	"log/slog"
)

// NewLogger builds the process logger described by l.
// Assumes l has been normalized.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch l.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}

	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
