package db

import (
	"gorm.io/gorm"

	types "github.com/closetloop/marketplace-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Catalog (read models)
		// =========================
		&types.Shop{},
		&types.Drop{},

		// =========================
		// Signal ledger (append-only)
		// =========================
		&types.Impression{},
		&types.Action{},
		&types.Rating{},

		// =========================
		// TTL cache / reset markers
		// =========================
		&types.CacheEntry{},
	)
}
