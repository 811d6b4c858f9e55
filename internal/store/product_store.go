package store

import (
	"context"
	"strings"

	"storefront/internal/domain"

	"gorm.io/gorm"
)

// MaxSafePrice is the upper price bound used when only a minimum is given.
const MaxSafePrice = float64(1<<53 - 1)

// ProductQuery filters a product listing. A nil bound is not given.
type ProductQuery struct {
	Title    string
	MinPrice *float64
	MaxPrice *float64
}

type ProductStore struct{ db *gorm.DB }

func (p *ProductStore) Create(ctx context.Context, product *domain.Product) error {
	return translate(p.db.WithContext(ctx).Create(product).Error)
}

func (p *ProductStore) GetByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	var product domain.Product
	if err := p.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (p *ProductStore) List(ctx context.Context, q ProductQuery) ([]*domain.Product, error) {
	db := p.db.WithContext(ctx).Model(&domain.Product{})
	if title := strings.TrimSpace(q.Title); title != "" {
		db = db.Where("title LIKE ?", "%"+strings.ToLower(title)+"%")
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		lo, hi := 1.0, MaxSafePrice
		if q.MinPrice != nil {
			lo = *q.MinPrice
		}
		if q.MaxPrice != nil {
			hi = *q.MaxPrice
		}
		db = db.Where("price BETWEEN ? AND ?", lo, hi)
	}

	var products []*domain.Product
	if err := db.Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *ProductStore) Update(ctx context.Context, id domain.ProductID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := p.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete removes the product and its reviews.
func (p *ProductStore) Delete(ctx context.Context, id domain.ProductID) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.Review{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}
