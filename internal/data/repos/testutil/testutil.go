// Package testutil opens throwaway Postgres connections for repo
// integration tests. Tests calling into it skip unless TEST_POSTGRES_DSN
// points at a disposable database.
package testutil

import (
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/closetloop/marketplace-backend/internal/data/db"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
)

func Logger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

// OpenDB connects to the integration database and runs migrations. The
// returned handle is shared per test; callers isolate writes through Tx.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set TEST_POSTGRES_DSN to run Postgres integration tests")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		t.Fatalf("uuid-ossp extension: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// Tx begins a transaction that is rolled back when the test finishes, so
// integration tests never leak rows into each other.
func Tx(t *testing.T, gdb *gorm.DB) *gorm.DB {
	t.Helper()
	tx := gdb.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		tx.Rollback()
	})
	return tx
}
