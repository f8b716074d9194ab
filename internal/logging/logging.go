// Package logging builds the slog loggers handed to the board adapters.
package logging

import (
	"io"
	"log/slog"
)

// Config holds logging configuration.
type Config struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "text",
	}
}

// New returns a logger writing to w.
func New(cfg *Config, w io.Writer) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) slog.Level {
	switch level {
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
