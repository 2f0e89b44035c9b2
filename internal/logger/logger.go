package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a JSON logger on stdout with level from string. Services use it.
func New(level string) *slog.Logger {
	return NewJSON(os.Stdout, level)
}

// NewJSON returns a JSON logger writing to w.
func NewJSON(w io.Writer, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// NewConsole returns a human-readable logger writing to w. The CLI logs to
// stderr this way so stdout only carries results.
func NewConsole(w io.Writer, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
