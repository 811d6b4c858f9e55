package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

type ProductService interface {
	Create(ctx context.Context, r dto.CreateProductRequest, creator domain.UserID) (*domain.Product, error)
	List(ctx context.Context, f dto.ProductFilter) ([]*domain.Product, error)
	Get(ctx context.Context, id domain.ProductID) (*domain.Product, error)
	Update(ctx context.Context, id domain.ProductID, r dto.UpdateProductRequest) (*domain.Product, error)
	Delete(ctx context.Context, id domain.ProductID) (*dto.MessageResponse, error)
}
