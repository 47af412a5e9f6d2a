// Package logging configures the process-wide slog default logger. Setup
// happens once at startup; everything else receives a *slog.Logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Setup builds a logger with the requested format and level, installs it as
// the slog default, and returns it.
// Valid formats are "json" and "text"; valid levels are debug, info, warn
// and error.
func Setup(w io.Writer, format, level string) (*slog.Logger, error) {
	var slogLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info", "":
		slogLevel = slog.LevelInfo
	case "warn", "warning":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("not a valid log level: %q", level)
	}

	opts := &slog.HandlerOptions{Level: slogLevel}

	var handler slog.Handler
	switch format {
	case "json", "":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("not a valid log format: %q", format)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
