// Package logger provides structured logging functionality for the application.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

var loggerKey = contextKey{}

// Setup initializes the application's logging system. It creates a
// structured JSON logger writing to stdout at the configured level and sets
// it as the process default so package-level slog functions use it too.
//
// An unrecognized level falls back to info with a warning rather than
// failing startup.
func Setup(logLevel string) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo

		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", logLevel,
			"default_level", "info")
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// WithLogger returns a copy of ctx carrying the given logger. Handlers
// attach a request-scoped logger (with trace ID attributes) so lower layers
// log with the same correlation fields.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or nil when none is set.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return nil
}

// FromContextOrDefault returns the logger stored in ctx, falling back to
// the given default, then to slog.Default. Never returns nil.
func FromContextOrDefault(ctx context.Context, def *slog.Logger) *slog.Logger {
	if logger := FromContext(ctx); logger != nil {
		return logger
	}
	if def != nil {
		return def
	}
	return slog.Default()
}
