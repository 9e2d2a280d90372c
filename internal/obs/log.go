// Package obs centralizes logging setup for the loaf runtime and CLI.
package obs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init initializes the default slog logger from CLI-supplied settings.
//
// level is one of debug/info/warn/error (case-insensitive, trimmed);
// anything else defaults to info. format is text or json (case-insensitive,
// trimmed); anything else defaults to text. An empty file writes to stdout.
func Init(level string, format string, file string) error {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	var w io.Writer
	var err error

	if file == "" {
		w = os.Stdout
	} else {
		w, err = os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644) //nolint:gosec
		if err != nil {
			return fmt.Errorf("obs: open log file: %w", err)
		}
	}

	var logger *slog.Logger
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		logger = slog.New(slog.NewJSONHandler(w, opts))
	case "text":
		logger = slog.New(slog.NewTextHandler(w, opts))
	default:
		logger = slog.New(slog.NewTextHandler(w, opts))
	}

	slog.SetDefault(logger)
	return nil
}
