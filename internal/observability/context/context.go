// Package context carries request-scoped correlation values used by
// logging and tracing.
package context

import (
	"context"
	"strings"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	behaviorKey
	shopIDKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, strings.TrimSpace(requestID))
}

func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// WithBehavior records the shipping behavior a request is quoting with.
func WithBehavior(ctx context.Context, behavior string) context.Context {
	return context.WithValue(ctx, behaviorKey, strings.TrimSpace(behavior))
}

func BehaviorFromContext(ctx context.Context) string {
	return stringValue(ctx, behaviorKey)
}

func WithShopID(ctx context.Context, shopID string) context.Context {
	return context.WithValue(ctx, shopIDKey, strings.TrimSpace(shopID))
}

func ShopIDFromContext(ctx context.Context) string {
	return stringValue(ctx, shopIDKey)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}
