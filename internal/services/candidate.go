package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepos "github.com/closetloop/marketplace-backend/internal/data/repos/catalog"
	feedrepos "github.com/closetloop/marketplace-backend/internal/data/repos/feed"
	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
	"github.com/closetloop/marketplace-backend/internal/ranking"
)

type CandidateService interface {
	// FetchCandidates returns the bounded eligible pool for a target kind,
	// ordered by catalog popularity.
	FetchCandidates(ctx context.Context, kind string, limit int) ([]ranking.Candidate, error)

	// SeenTargets returns the target ids to exclude for the user inside the
	// rolling window. A reset marker newer than the window start clears the
	// whole set regardless of whether the impression rows still exist.
	SeenTargets(ctx context.Context, userID uuid.UUID, role, recType, kind string, now time.Time) (map[uuid.UUID]struct{}, error)
}

type candidateService struct {
	db          *gorm.DB
	log         *logger.Logger
	drops       catalogrepos.DropRepo
	shops       catalogrepos.ShopRepo
	impressions feedrepos.ImpressionRepo
	cache       CacheStore
	seenWindow  time.Duration
}

func NewCandidateService(
	db *gorm.DB,
	baseLog *logger.Logger,
	drops catalogrepos.DropRepo,
	shops catalogrepos.ShopRepo,
	impressions feedrepos.ImpressionRepo,
	cache CacheStore,
	seenWindow time.Duration,
) CandidateService {
	if seenWindow <= 0 {
		seenWindow = 7 * 24 * time.Hour
	}
	return &candidateService{
		db:          db,
		log:         baseLog.With("service", "CandidateService"),
		drops:       drops,
		shops:       shops,
		impressions: impressions,
		cache:       cache,
		seenWindow:  seenWindow,
	}
}

func (s *candidateService) FetchCandidates(ctx context.Context, kind string, limit int) ([]ranking.Candidate, error) {
	switch kind {
	case types.TargetKindDrop:
		rows, err := s.drops.ListActiveByPopularity(ctx, nil, limit)
		if err != nil {
			return nil, fmt.Errorf("list drops: %w", err)
		}
		out := make([]ranking.Candidate, 0, len(rows))
		for _, d := range rows {
			out = append(out, candidateFromDrop(d))
		}
		return out, nil
	case types.TargetKindShop:
		rows, err := s.shops.ListByPopularity(ctx, nil, limit)
		if err != nil {
			return nil, fmt.Errorf("list shops: %w", err)
		}
		out := make([]ranking.Candidate, 0, len(rows))
		for _, sh := range rows {
			out = append(out, ranking.Candidate{
				TargetKind: types.TargetKindShop,
				TargetID:   sh.ID,
				Title:      sh.Name,
				ImageURL:   sh.ImageURL,
				Popularity: sh.Popularity,
				CreatedAt:  sh.CreatedAt,
			})
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported candidate kind %q", kind)
}

func (s *candidateService) SeenTargets(ctx context.Context, userID uuid.UUID, role, recType, kind string, now time.Time) (map[uuid.UUID]struct{}, error) {
	windowStart := now.Add(-s.seenWindow)

	marker, err := readResetMarker(ctx, s.cache, resetMarkerKey(userID, role, kind, recType))
	if err != nil {
		// Marker lookup is best-effort; without it the exclusion just stands.
		s.log.Warn("reset marker lookup failed, exclusion stands", "user_id", userID, "error", err)
	} else if marker != nil && marker.ResetAt.After(windowStart) {
		return map[uuid.UUID]struct{}{}, nil
	}

	ids, err := s.impressions.ListTargetIDsSince(ctx, nil, userID, kind, windowStart)
	if err != nil {
		return nil, fmt.Errorf("list seen targets: %w", err)
	}
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

func candidateFromDrop(d *types.Drop) ranking.Candidate {
	return ranking.Candidate{
		TargetKind: types.TargetKindDrop,
		TargetID:   d.ID,
		Title:      d.Title,
		ImageURL:   d.ImageURL,
		Brand:      d.Brand,
		Size:       d.Size,
		Condition:  d.Condition,
		ShopID:     d.ShopID.String(),
		Price:      d.Price,
		Tags:       decodeTags(d.Tags),
		Popularity: d.Popularity,
		CreatedAt:  d.CreatedAt,
	}
}
