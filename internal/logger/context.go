package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

// requestIDKey carries the correlation id set by RequestIDMiddleware.
const requestIDKey ctxKey = "request_id"

// WithRequestID stores the request id on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFrom extracts the request id, or "" when the context has none.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// FromCtx returns the global logger tagged with the context's request id,
// so every layer handling the same request logs under one id.
func FromCtx(ctx context.Context) *zap.Logger {
	if id := RequestIDFrom(ctx); id != "" {
		return L().With(zap.String("request_id", id))
	}
	return L()
}
