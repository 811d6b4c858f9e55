package authz

import (
	"context"

	"storefront/internal/domain"
)

type ctxKey struct{}

func WithClaims(ctx context.Context, c domain.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// ClaimsFromContext returns the claims the guard attached to the request.
func ClaimsFromContext(ctx context.Context) (domain.Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(domain.Claims)
	return c, ok
}
