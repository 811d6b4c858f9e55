package store

import (
	"context"

	"storefront/internal/domain"

	"gorm.io/gorm"
)

type ReviewStore struct{ db *gorm.DB }

func (r *ReviewStore) Create(ctx context.Context, review *domain.Review) error {
	return translate(r.db.WithContext(ctx).Omit("User", "Product").Create(review).Error)
}

func (r *ReviewStore) GetByID(ctx context.Context, id domain.ReviewID) (*domain.Review, error) {
	var review domain.Review
	if err := r.db.WithContext(ctx).Preload("User").First(&review, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

// List returns reviews newest first with their authors joined in. A limit of
// zero or less returns every review.
func (r *ReviewStore) List(ctx context.Context, offset, limit int) ([]*domain.Review, error) {
	db := r.db.WithContext(ctx).Preload("User").Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		db = db.Offset(offset).Limit(limit)
	}
	var reviews []*domain.Review
	if err := db.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewStore) Update(ctx context.Context, id domain.ReviewID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&domain.Review{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *ReviewStore) Delete(ctx context.Context, id domain.ReviewID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
