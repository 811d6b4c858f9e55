package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Store owns the gorm handle; sub-stores are cheap views over it and share
// its transaction when obtained inside WithTx.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) Users() *UserStore       { return &UserStore{db: s.DB} }
func (s *Store) Products() *ProductStore { return &ProductStore{db: s.DB} }
func (s *Store) Reviews() *ReviewStore   { return &ReviewStore{db: s.DB} }

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping checks that the underlying connection pool can reach the database.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
