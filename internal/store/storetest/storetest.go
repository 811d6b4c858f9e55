// Package storetest opens throwaway sqlite databases for tests.
package storetest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"storefront/internal/store"
	"storefront/pkg/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var seq atomic.Int64

// NewDB returns a migrated in-memory database private to the calling test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, seq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), db.GormConfig(false))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := store.AutoMigrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

// NewStore wraps NewDB in a store.Store.
func NewStore(t testing.TB) *store.Store {
	t.Helper()
	return store.New(NewDB(t))
}
