package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
)

type DropRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Drop, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Drop, error)

	// ListActiveByPopularity is the candidate-pool read: active drops ordered
	// by the catalog popularity score, newest first on ties.
	ListActiveByPopularity(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Drop, error)
	ListByShopIDs(ctx context.Context, tx *gorm.DB, shopIDs []uuid.UUID) ([]*types.Drop, error)
}

type dropRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDropRepo(db *gorm.DB, baseLog *logger.Logger) DropRepo {
	return &dropRepo{db: db, log: baseLog.With("repo", "DropRepo")}
}

func (r *dropRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Drop, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Drop
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

func (r *dropRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Drop, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *dropRepo) ListActiveByPopularity(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Drop, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Drop
	q := t.WithContext(ctx).
		Where("status = ?", types.DropStatusActive).
		Order("popularity DESC, created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dropRepo) ListByShopIDs(ctx context.Context, tx *gorm.DB, shopIDs []uuid.UUID) ([]*types.Drop, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Drop
	if len(shopIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("shop_id IN ?", shopIDs).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
