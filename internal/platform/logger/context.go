package logger

import (
	"context"
	"log/slog"
)

// loggerContextKey is an unexported type for the context key to avoid
// collisions with keys from other packages.
type loggerContextKey struct{}

// WithContext returns a new context carrying the given logger. Components
// lower in the call stack retrieve it with FromContext so that per-run and
// per-job attributes travel with the context.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// FromContext returns the logger stored in the context, or the default
// logger when the context carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
