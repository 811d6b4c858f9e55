package service

import (
	"context"

	"storefront/internal/domain"
)

type TokenService interface {
	Issue(ctx context.Context, claims domain.Claims) (string, error)
	Verify(token string) (domain.Claims, error)
}
