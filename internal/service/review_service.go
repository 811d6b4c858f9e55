package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

type ReviewService interface {
	Create(ctx context.Context, productID domain.ProductID, userID domain.UserID, r dto.CreateReviewRequest) (*dto.CreateReviewResponse, error)
	List(ctx context.Context, p dto.Pagination) ([]*domain.Review, error)
	Get(ctx context.Context, id domain.ReviewID) (*domain.Review, error)
	Update(ctx context.Context, id domain.ReviewID, actor domain.Claims, r dto.UpdateReviewRequest) (*domain.Review, error)
	Delete(ctx context.Context, id domain.ReviewID, actor domain.Claims) (*dto.MessageResponse, error)
}
