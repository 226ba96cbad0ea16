package middleware

import (
	"context"

	"github.com/mlindenberg/gastlink-backend/internal/access"
)

type contextKey string

const (
	ctxUserID     contextKey = "user_id"
	ctxRole       contextKey = "actor_role"
	ctxCapability contextKey = "capability"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// CapabilityFromContext returns the supplier capability resolved for this
// request, or nil when the route ran without the capability middleware.
func CapabilityFromContext(ctx context.Context) *access.Capability {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxCapability).(*access.Capability); ok {
		return v
	}
	return nil
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithCapability injects a resolved capability for downstream handlers.
func WithCapability(ctx context.Context, cap *access.Capability) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCapability, cap)
}
