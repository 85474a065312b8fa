package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserEmail ctxKey = "user_email"
	CtxKeyRole      ctxKey = "role"
	CtxKeyClaims    ctxKey = "claims"
)

// UserEmailFromContext returns the authenticated subject email, empty when
// the request did not pass through AuthnMiddleware.
func UserEmailFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserEmail).(string); ok {
		return v
	}
	return ""
}

// RoleFromContext returns the raw role claim attached by AuthnMiddleware.
func RoleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRole).(string); ok {
		return v
	}
	return ""
}
