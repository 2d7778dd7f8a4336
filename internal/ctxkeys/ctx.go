package ctxkeys

import (
	"context"

	"github.com/meeplemeet/meeplemeet/internal/auth"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	GuardKey contextKey = "guard"
)

// Guard returns the request's access guard. Requests that never passed the
// auth middleware get the anonymous guard.
func Guard(ctx context.Context) *auth.Guard {
	guard, ok := ctx.Value(GuardKey).(*auth.Guard)
	if !ok {
		return auth.Anonymous()
	}
	return guard
}

func WithGuard(ctx context.Context, guard *auth.Guard) context.Context {
	return context.WithValue(ctx, GuardKey, guard)
}
