package impl

import (
	"context"
	"errors"
	"log/slog"

	"storefront/internal/authz"
	"storefront/internal/domain"
	"storefront/internal/dto"
	"storefront/internal/observability/middleware"
	"storefront/internal/store"
)

const MsgReviewDeleted = "Review has been deleted successfully"

type ReviewServiceImpl struct {
	store *store.Store
}

func NewReviewServiceImpl(st *store.Store) *ReviewServiceImpl {
	return &ReviewServiceImpl{store: st}
}

func (s *ReviewServiceImpl) Create(ctx context.Context, productID domain.ProductID, userID domain.UserID, r dto.CreateReviewRequest) (*dto.CreateReviewResponse, error) {
	if _, err := s.store.Products().GetByID(ctx, productID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	review := &domain.Review{
		Rating:    r.Rating,
		Comment:   r.Comment,
		ProductID: productID,
		UserID:    userID,
	}
	if err := s.store.Reviews().Create(ctx, review); err != nil {
		return nil, err
	}
	return &dto.CreateReviewResponse{
		ID:        review.ID,
		Comment:   review.Comment,
		Rating:    review.Rating,
		CreatedAt: review.CreatedAt,
		UserID:    review.UserID,
		ProductID: review.ProductID,
	}, nil
}

func (s *ReviewServiceImpl) List(ctx context.Context, p dto.Pagination) ([]*domain.Review, error) {
	page := p.PageNumber
	if page < 1 {
		page = dto.DefaultPageNumber
	}
	return s.store.Reviews().List(ctx, (page-1)*p.ReviewsPerPage, p.ReviewsPerPage)
}

func (s *ReviewServiceImpl) Get(ctx context.Context, id domain.ReviewID) (*domain.Review, error) {
	r, err := s.store.Reviews().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}
	return r, nil
}

// Update is reserved to the author; admins cannot rewrite other reviews.
func (s *ReviewServiceImpl) Update(ctx context.Context, id domain.ReviewID, actor domain.Claims, r dto.UpdateReviewRequest) (*domain.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, review.OwnerID(), false); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if r.Rating != nil {
		fields["rating"] = *r.Rating
	}
	if r.Comment != nil {
		fields["comment"] = *r.Comment
	}
	if err := s.store.Reviews().Update(ctx, id, fields); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ReviewServiceImpl) Delete(ctx context.Context, id domain.ReviewID, actor domain.Claims) (*dto.MessageResponse, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, review.OwnerID(), true); err != nil {
		return nil, err
	}
	if err := s.store.Reviews().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}
	slog.Info("review deleted",
		"review_id", id,
		"actor_id", actor.ID,
		"request_id", middleware.RequestIDFromContext(ctx),
		"trace_id", middleware.TraceIDFromContext(ctx),
	)
	return dto.Message(MsgReviewDeleted), nil
}
