package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	feedrepos "github.com/closetloop/marketplace-backend/internal/data/repos/feed"
	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
	"github.com/closetloop/marketplace-backend/internal/ranking"
)

// BuyerSignals is everything the scorers derive from one user's ledger
// history: the decayed attribute profile plus the raw material for the
// temporal and reaction-speed strategies.
type BuyerSignals struct {
	Profile      ranking.Profile
	TagRatings   []ranking.TagRating
	SpeedSamples []ranking.RatingLatency
}

type PreferenceService interface {
	BuildBuyerSignals(ctx context.Context, userID uuid.UUID, now time.Time) (*BuyerSignals, error)
}

type preferenceService struct {
	db          *gorm.DB
	log         *logger.Logger
	impressions feedrepos.ImpressionRepo
	actions     feedrepos.ActionRepo
	ratings     feedrepos.RatingRepo
	fetchLimit  int
}

func NewPreferenceService(
	db *gorm.DB,
	baseLog *logger.Logger,
	impressions feedrepos.ImpressionRepo,
	actions feedrepos.ActionRepo,
	ratings feedrepos.RatingRepo,
	fetchLimit int,
) PreferenceService {
	if fetchLimit <= 0 {
		fetchLimit = 200
	}
	return &preferenceService{
		db:          db,
		log:         baseLog.With("service", "PreferenceService"),
		impressions: impressions,
		actions:     actions,
		ratings:     ratings,
		fetchLimit:  fetchLimit,
	}
}

func (s *preferenceService) BuildBuyerSignals(ctx context.Context, userID uuid.UUID, now time.Time) (*BuyerSignals, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id required")
	}

	recentRatings, err := s.ratings.ListRecentByUser(ctx, nil, userID, s.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch ratings: %w", err)
	}
	recentActions, err := s.actions.ListRecentByUser(ctx, nil, userID, s.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch actions: %w", err)
	}

	impressionIDs := make([]uuid.UUID, 0, len(recentRatings)+len(recentActions))
	seen := map[uuid.UUID]struct{}{}
	collect := func(id uuid.UUID) {
		if id == uuid.Nil {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		impressionIDs = append(impressionIDs, id)
	}
	for _, r := range recentRatings {
		collect(r.ImpressionID)
	}
	for _, a := range recentActions {
		collect(a.ImpressionID)
	}

	rows, err := s.impressions.GetByIDs(ctx, nil, impressionIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch impressions: %w", err)
	}

	// Profile building is buyer-specific and drop-specific. Orphaned signals
	// (impression deleted) are tolerated but unscored.
	byID := make(map[uuid.UUID]*types.Impression, len(rows))
	snapshots := make(map[uuid.UUID]types.ItemSnapshot, len(rows))
	for _, imp := range rows {
		if imp.Role != types.RoleBuyer || imp.TargetKind != types.TargetKindDrop {
			continue
		}
		snap, err := types.SnapshotFromJSON(imp.Payload)
		if err != nil {
			s.log.Warn("skipping impression with malformed payload snapshot", "impression_id", imp.ID, "error", err)
			continue
		}
		byID[imp.ID] = imp
		snapshots[imp.ID] = snap
	}

	out := &BuyerSignals{}
	var signals []ranking.Signal

	// Only the earliest rating per impression feeds latency analysis; later
	// ratings on the same impression are ignored on purpose.
	firstRating := map[uuid.UUID]*types.Rating{}

	for _, r := range recentRatings {
		if _, ok := byID[r.ImpressionID]; !ok {
			continue
		}
		snap := snapshots[r.ImpressionID]
		signals = append(signals, signalFromSnapshot(snap, r.Value, r.CreatedAt))
		out.TagRatings = append(out.TagRatings, ranking.TagRating{
			Tags:    snap.Tags,
			Value:   r.Value,
			RatedAt: r.CreatedAt,
		})
		if prev, ok := firstRating[r.ImpressionID]; !ok || r.CreatedAt.Before(prev.CreatedAt) {
			firstRating[r.ImpressionID] = r
		}
	}

	for impID, r := range firstRating {
		imp := byID[impID]
		snap := snapshots[impID]
		out.SpeedSamples = append(out.SpeedSamples, ranking.RatingLatency{
			Tags:        snap.Tags,
			Value:       r.Value,
			ImpressedAt: imp.CreatedAt,
			RatedAt:     r.CreatedAt,
		})
	}

	for _, a := range recentActions {
		if _, ok := byID[a.ImpressionID]; !ok {
			continue
		}
		snap := snapshots[a.ImpressionID]
		signals = append(signals, signalFromSnapshot(snap, actionBaseWeight(a.Kind), a.CreatedAt))
	}

	out.Profile = ranking.BuildProfile(signals, now)
	return out, nil
}

func signalFromSnapshot(snap types.ItemSnapshot, weight float64, occurredAt time.Time) ranking.Signal {
	shopID := ""
	if snap.ShopID != nil {
		shopID = snap.ShopID.String()
	}
	return ranking.Signal{
		Weight:     weight,
		OccurredAt: occurredAt,
		Brand:      snap.Brand,
		Size:       snap.Size,
		Condition:  snap.Condition,
		ShopID:     shopID,
		Price:      snap.Price,
	}
}

func actionBaseWeight(kind string) float64 {
	switch kind {
	case types.ActionSave:
		return ranking.WeightSave
	case types.ActionClick:
		return ranking.WeightClick
	case types.ActionPurchaseIntent:
		return ranking.WeightPurchaseIntent
	case types.ActionPurchase:
		return ranking.WeightPurchase
	}
	return 0
}

// decodeTags is a small helper shared by candidate mapping.
func decodeTags(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}
