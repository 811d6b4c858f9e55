package store

import (
	"context"

	"storefront/internal/domain"

	"gorm.io/gorm"
)

// DeleteUserData removes the user together with the reviews they wrote, the
// products they created and the reviews on those products. It returns the
// counts captured before deletion.
func (s *Store) DeleteUserData(ctx context.Context, userID domain.UserID) (map[string]int64, error) {
	deleted := map[string]int64{}

	err := s.WithTx(ctx, func(tx *Store) error {
		db := tx.DB.WithContext(ctx)

		count := func(label string, query *gorm.DB) error {
			var total int64
			if err := query.Count(&total).Error; err != nil {
				return err
			}
			deleted[label] = total
			return nil
		}

		if err := count("users", db.Model(&domain.User{}).Where("id = ?", userID)); err != nil {
			return err
		}
		if deleted["users"] == 0 {
			return ErrRecordNotFound
		}

		ownProducts := func() *gorm.DB {
			return db.Model(&domain.Product{}).Select("id").Where("user_id = ?", userID)
		}
		if err := count("reviews", db.Model(&domain.Review{}).Where("user_id = ? OR product_id IN (?)", userID, ownProducts())); err != nil {
			return err
		}
		if err := count("products", db.Model(&domain.Product{}).Where("user_id = ?", userID)); err != nil {
			return err
		}

		if err := db.Where("user_id = ? OR product_id IN (?)", userID, ownProducts()).Delete(&domain.Review{}).Error; err != nil {
			return err
		}
		if err := db.Where("user_id = ?", userID).Delete(&domain.Product{}).Error; err != nil {
			return err
		}
		return db.Where("id = ?", userID).Delete(&domain.User{}).Error
	})

	return deleted, err
}
