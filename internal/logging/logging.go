package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New initializes a slog logger writing to stdout and sets it as the default.
// format is "json" for production or "text" (the default) for development.
func New(format, level string) *slog.Logger {
	logger := slog.New(NewHandler(os.Stdout, format, level))
	slog.SetDefault(logger)
	return logger
}

// NewHandler builds the handler New installs, writing to w.
func NewHandler(w io.Writer, format, level string) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	opts.AddSource = true
	return slog.NewTextHandler(w, opts)
}

// ParseLevel maps a level name to a slog level, falling back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
