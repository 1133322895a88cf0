package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
)

type ShopRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Shop, error)
	GetByOwnerUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Shop, error)
	ListByPopularity(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Shop, error)
}

type shopRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShopRepo(db *gorm.DB, baseLog *logger.Logger) ShopRepo {
	return &shopRepo{db: db, log: baseLog.With("repo", "ShopRepo")}
}

func (r *shopRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Shop, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Shop
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *shopRepo) GetByOwnerUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Shop, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var out []*types.Shop
	if err := t.WithContext(ctx).
		Where("owner_user_id = ?", userID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *shopRepo) ListByPopularity(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Shop, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Shop
	q := t.WithContext(ctx).Order("popularity DESC, created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
