package http

import (
	"context"
	"log/slog"

	"github.com/example/study-scheduler/internal/logging"
)

type contextKey string

const resourceIDContextKey contextKey = "resource_id"

// ContextWithResourceID injects the identifier resolved from the request path.
func ContextWithResourceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, resourceIDContextKey, id)
}

// ResourceIDFromContext extracts an identifier previously associated with the
// context by the router.
func ResourceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(resourceIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches a request scoped logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request scoped logger, if one was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
