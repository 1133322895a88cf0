package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	feedrepos "github.com/closetloop/marketplace-backend/internal/data/repos/feed"
	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/apierr"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
)

// SignalService is the ledger write path for client feedback. All writes are
// append-only.
type SignalService interface {
	RecordAction(ctx context.Context, userID, impressionID uuid.UUID, kind string) (*types.Action, error)
	RecordRating(ctx context.Context, userID, impressionID uuid.UUID, value float64) (*types.Rating, error)
}

type signalService struct {
	db          *gorm.DB
	log         *logger.Logger
	impressions feedrepos.ImpressionRepo
	actions     feedrepos.ActionRepo
	ratings     feedrepos.RatingRepo
}

func NewSignalService(
	db *gorm.DB,
	baseLog *logger.Logger,
	impressions feedrepos.ImpressionRepo,
	actions feedrepos.ActionRepo,
	ratings feedrepos.RatingRepo,
) SignalService {
	return &signalService{
		db:          db,
		log:         baseLog.With("service", "SignalService"),
		impressions: impressions,
		actions:     actions,
		ratings:     ratings,
	}
}

func (s *signalService) RecordAction(ctx context.Context, userID, impressionID uuid.UUID, kind string) (*types.Action, error) {
	if !types.ValidActionKind(kind) {
		return nil, apierr.New(http.StatusBadRequest, "invalid_action_kind", fmt.Errorf("unknown action kind %q", kind))
	}
	if err := s.checkImpression(ctx, userID, impressionID); err != nil {
		return nil, err
	}
	row := &types.Action{
		ID:           uuid.New(),
		ImpressionID: impressionID,
		UserID:       userID,
		Kind:         kind,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.actions.Create(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("record action: %w", err)
	}
	return row, nil
}

func (s *signalService) RecordRating(ctx context.Context, userID, impressionID uuid.UUID, value float64) (*types.Rating, error) {
	if value < -1 || value > 1 || value == 0 {
		return nil, apierr.New(http.StatusBadRequest, "invalid_rating_value", fmt.Errorf("rating must be in [-1,1] and non-zero, got %v", value))
	}
	if err := s.checkImpression(ctx, userID, impressionID); err != nil {
		return nil, err
	}
	row := &types.Rating{
		ID:           uuid.New(),
		ImpressionID: impressionID,
		UserID:       userID,
		Value:        value,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.ratings.Create(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("record rating: %w", err)
	}
	return row, nil
}

func (s *signalService) checkImpression(ctx context.Context, userID, impressionID uuid.UUID) error {
	if impressionID == uuid.Nil {
		return apierr.New(http.StatusBadRequest, "missing_impression_id", fmt.Errorf("impression id required"))
	}
	imp, err := s.impressions.GetByID(ctx, nil, impressionID)
	if err != nil {
		return fmt.Errorf("fetch impression: %w", err)
	}
	if imp == nil {
		return apierr.New(http.StatusNotFound, "impression_not_found", fmt.Errorf("impression %s not found", impressionID))
	}
	if imp.UserID != userID {
		return apierr.New(http.StatusForbidden, "impression_not_owned", fmt.Errorf("impression belongs to another user"))
	}
	return nil
}
