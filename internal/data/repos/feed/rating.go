package feed

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
)

type RatingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Rating) (*types.Rating, error)

	ListRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Rating, error)
	ListByImpressionIDs(ctx context.Context, tx *gorm.DB, impressionIDs []uuid.UUID) ([]*types.Rating, error)

	DeleteByImpressionIDs(ctx context.Context, tx *gorm.DB, impressionIDs []uuid.UUID) (int64, error)
}

type ratingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRatingRepo(db *gorm.DB, baseLog *logger.Logger) RatingRepo {
	return &ratingRepo{db: db, log: baseLog.With("repo", "RatingRepo")}
}

func (r *ratingRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Rating) (*types.Rating, error) {
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

func (r *ratingRepo) ListRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Rating, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Rating
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

func (r *ratingRepo) ListByImpressionIDs(ctx context.Context, tx *gorm.DB, impressionIDs []uuid.UUID) ([]*types.Rating, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Rating
	if len(impressionIDs) == 0 {
		return out, nil
	}
	// created_at ASC so the earliest rating per impression comes first;
	// latency analysis keys off that one.
	if err := t.WithContext(ctx).
		Where("impression_id IN ?", impressionIDs).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ratingRepo) DeleteByImpressionIDs(ctx context.Context, tx *gorm.DB, impressionIDs []uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(impressionIDs) == 0 {
		return 0, nil
	}
	res := t.WithContext(ctx).Where("impression_id IN ?", impressionIDs).Delete(&types.Rating{})
	return res.RowsAffected, res.Error
}
