package logger

import (
	"io"
	"log/slog"
)

// NewTestHandler discards all output. Tests that need a logger in context
// use this so assertions never depend on log text.
func NewTestHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
}
