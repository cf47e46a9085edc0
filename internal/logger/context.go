package logger

import (
	"context"

	"go.uber.org/zap"
)

// ctxKey is private so only this package can attach the logger.
type ctxKey struct{}

// ContextWithLogger attaches a request-scoped logger to ctx. Handlers pull
// it back out with FromContext so request_id and friends follow the call.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger attached to ctx, or a nop logger when the
// request never passed through the logging middleware.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
