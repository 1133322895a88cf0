package feed

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
)

type ActionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Action) (*types.Action, error)

	// ListRecentByUser returns the newest rows first, bounded by limit.
	ListRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Action, error)
	ListByImpressionIDs(ctx context.Context, tx *gorm.DB, impressionIDs []uuid.UUID) ([]*types.Action, error)
	CountByImpressionIDsSince(ctx context.Context, tx *gorm.DB, impressionIDs []uuid.UUID, since time.Time) (int64, error)

	DeleteByImpressionIDs(ctx context.Context, tx *gorm.DB, impressionIDs []uuid.UUID) (int64, error)
}

type actionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActionRepo(db *gorm.DB, baseLog *logger.Logger) ActionRepo {
	return &actionRepo{db: db, log: baseLog.With("repo", "ActionRepo")}
}

func (r *actionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Action) (*types.Action, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil, nil
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *actionRepo) ListRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Action, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Action
	if userID == uuid.Nil {
		return out, nil
	}
	q := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *actionRepo) ListByImpressionIDs(ctx context.Context, tx *gorm.DB, impressionIDs []uuid.UUID) ([]*types.Action, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Action
	if len(impressionIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("impression_id IN ?", impressionIDs).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *actionRepo) CountByImpressionIDsSince(ctx context.Context, tx *gorm.DB, impressionIDs []uuid.UUID, since time.Time) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(impressionIDs) == 0 {
		return 0, nil
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.Action{}).
		Where("impression_id IN ? AND created_at >= ?", impressionIDs, since).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *actionRepo) DeleteByImpressionIDs(ctx context.Context, tx *gorm.DB, impressionIDs []uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(impressionIDs) == 0 {
		return 0, nil
	}
	res := t.WithContext(ctx).Where("impression_id IN ?", impressionIDs).Delete(&types.Action{})
	return res.RowsAffected, res.Error
}
