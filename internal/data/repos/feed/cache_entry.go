package feed

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
)

// CacheEntryRepo is the DB-backed TTL cache store, used when no Redis is
// configured. It satisfies the same Put/Fetch shape as the Redis store.
type CacheEntryRepo interface {
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Fetch(ctx context.Context, key string) ([]byte, bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type cacheEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCacheEntryRepo(db *gorm.DB, baseLog *logger.Logger) CacheEntryRepo {
	return &cacheEntryRepo{db: db, log: baseLog.With("repo", "CacheEntryRepo")}
}

func (r *cacheEntryRepo) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	now := time.Now().UTC()
	row := &types.CacheEntry{
		CacheKey:  key,
		Payload:   datatypes.JSON(payload),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
		}).
		Create(row).Error
}

func (r *cacheEntryRepo) Fetch(ctx context.Context, key string) ([]byte, bool, error) {
	var rows []*types.CacheEntry
	if err := r.db.WithContext(ctx).
		Where("cache_key = ? AND expires_at > ?", key, time.Now().UTC()).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return []byte(rows[0].Payload), true, nil
}

func (r *cacheEntryRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now().UTC()).
		Delete(&types.CacheEntry{})
	return res.RowsAffected, res.Error
}
