package logger

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ToContext stores a scoped logger, usually one carrying request_id.
func ToContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the scoped logger in ctx or the singleton.
func From(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return L()
	}
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return L()
}

// FromOr returns the scoped logger in ctx or fallback.
func FromOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return fallback
}

// Event writes the standard module/action line. msg must not contain secrets.
func Event(ctx context.Context, module, action, msg string, fields ...zap.Field) {
	fields = append([]zap.Field{
		Component(strings.ToLower(module)),
		Op(action),
	}, fields...)
	From(ctx).Info(msg, fields...)
}
