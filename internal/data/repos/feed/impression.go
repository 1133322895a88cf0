package feed

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
)

type ImpressionRepo interface {
	// Create appends impression rows. Impressions are immutable; there is no
	// update path on this repo.
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Impression) ([]*types.Impression, error)

	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Impression, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Impression, error)

	// ListTargetIDsSince returns the distinct target ids the user has been
	// shown since the given time, for seen-exclusion.
	ListTargetIDsSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, targetKind string, since time.Time) ([]uuid.UUID, error)

	// ListByScope fetches the impressions a reset operates on. Empty recType
	// or targetKind leaves that filter off.
	ListByScope(ctx context.Context, tx *gorm.DB, userID uuid.UUID, role, recType, targetKind string) ([]*types.Impression, error)

	ListRecentByTargets(ctx context.Context, tx *gorm.DB, targetKind string, targetIDs []uuid.UUID, since time.Time) ([]*types.Impression, error)

	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
}

type impressionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImpressionRepo(db *gorm.DB, baseLog *logger.Logger) ImpressionRepo {
	return &impressionRepo{db: db, log: baseLog.With("repo", "ImpressionRepo")}
}

func (r *impressionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Impression) ([]*types.Impression, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Impression{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *impressionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Impression, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Impression
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

func (r *impressionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Impression, error) {
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

func (r *impressionRepo) ListTargetIDsSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, targetKind string, since time.Time) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Model(&types.Impression{}).
		Distinct("target_id").
		Where("user_id = ? AND target_kind = ? AND created_at >= ?", userID, targetKind, since).
		Pluck("target_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *impressionRepo) ListByScope(ctx context.Context, tx *gorm.DB, userID uuid.UUID, role, recType, targetKind string) ([]*types.Impression, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Impression
	if userID == uuid.Nil {
		return out, nil
	}
	q := t.WithContext(ctx).Where("user_id = ? AND role = ?", userID, role)
	if recType != "" {
		q = q.Where("rec_type = ?", recType)
	}
	if targetKind != "" {
		q = q.Where("target_kind = ?", targetKind)
	}
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *impressionRepo) ListRecentByTargets(ctx context.Context, tx *gorm.DB, targetKind string, targetIDs []uuid.UUID, since time.Time) ([]*types.Impression, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Impression
	if len(targetIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("target_kind = ? AND target_id IN ? AND created_at >= ?", targetKind, targetIDs, since).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *impressionRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := t.WithContext(ctx).Where("id IN ?", ids).Delete(&types.Impression{})
	return res.RowsAffected, res.Error
}
