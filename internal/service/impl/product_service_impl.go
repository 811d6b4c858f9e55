package impl

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/dto"
	"storefront/internal/store"
)

const MsgProductDeleted = "product deleted successfully"

type ProductServiceImpl struct {
	store *store.Store
}

func NewProductServiceImpl(st *store.Store) *ProductServiceImpl {
	return &ProductServiceImpl{store: st}
}

func normalizeTitle(t string) string { return strings.ToLower(strings.TrimSpace(t)) }

func (s *ProductServiceImpl) Create(ctx context.Context, r dto.CreateProductRequest, creator domain.UserID) (*domain.Product, error) {
	if _, err := s.store.Users().GetByID(ctx, creator); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	p := &domain.Product{
		Title:       normalizeTitle(r.Title),
		Description: r.Description,
		UserID:      creator,
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if err := s.store.Products().Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductServiceImpl) List(ctx context.Context, f dto.ProductFilter) ([]*domain.Product, error) {
	return s.store.Products().List(ctx, store.ProductQuery{
		Title:    f.Title,
		MinPrice: f.MinPrice,
		MaxPrice: f.MaxPrice,
	})
}

func (s *ProductServiceImpl) Get(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	p, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductServiceImpl) Update(ctx context.Context, id domain.ProductID, r dto.UpdateProductRequest) (*domain.Product, error) {
	fields := map[string]any{}
	if r.Title != nil {
		fields["title"] = normalizeTitle(*r.Title)
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.Price != nil {
		fields["price"] = *r.Price
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}
	if err := s.store.Products().Update(ctx, id, fields); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ProductServiceImpl) Delete(ctx context.Context, id domain.ProductID) (*dto.MessageResponse, error) {
	if err := s.store.Products().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return dto.Message(MsgProductDeleted), nil
}
