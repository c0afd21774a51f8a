package logging

import (
	"io"
	"log/slog"
	"os"
)

// New builds the process logger and installs it as the slog default.
// Unknown formats fall back to json and unknown levels to info.
func New(logFormat, logLevel string) *slog.Logger {
	logger := slog.New(newHandler(os.Stdout, logFormat, ParseLevel(logLevel)))

	slog.SetDefault(logger)

	return logger
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(logLevel string) slog.Level {
	switch logLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}

func newHandler(w io.Writer, logFormat string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	if logFormat == "text" {
		return slog.NewTextHandler(w, opts)
	}

	return slog.NewJSONHandler(w, opts)
}
