// Package logging builds the leveled slog.Logger used across outpost.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "debug", "info", "warn", "error" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled text slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// Setup builds a logger and installs it as the slog default.
func Setup(level string, w io.Writer) *slog.Logger {
	logger := NewLogger(level, w)
	slog.SetDefault(logger)
	return logger
}
