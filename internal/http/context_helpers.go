package httpx

import (
	"context"

	domainauth "github.com/target/blogger-api/internal/domain/auth"
)

// claimsKey and requestIDKey are unexported context key types to avoid collisions across packages.
type (
	claimsKey    struct{}
	requestIDKey struct{}
)

// SetClaimsInContext returns a child context that carries verified session claims.
// If claims is nil, the original ctx is returned unchanged.
func SetClaimsInContext(ctx context.Context, claims *domainauth.Claims) context.Context {
	if claims == nil {
		return ctx
	}
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the authenticated caller's claims and whether they are present.
func ClaimsFromContext(ctx context.Context) (*domainauth.Claims, bool) {
	if c, ok := ctx.Value(claimsKey{}).(*domainauth.Claims); ok && c != nil {
		return c, true
	}
	return nil, false
}

// SetRequestIDInContext attaches the request id.
func SetRequestIDInContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id, or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
