package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	feedrepos "github.com/closetloop/marketplace-backend/internal/data/repos/feed"
	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
	"github.com/closetloop/marketplace-backend/internal/ranking"
)

type RankedFeedItem struct {
	ImpressionID uuid.UUID          `json:"impression_id"`
	TargetKind   string             `json:"target_kind"`
	TargetID     uuid.UUID          `json:"target_id"`
	Rank         int                `json:"rank"`
	Score        float64            `json:"score"`
	Explain      string             `json:"explain"`
	Payload      types.ItemSnapshot `json:"payload"`
}

type RankedFeed struct {
	Items    []RankedFeedItem `json:"items"`
	RecType  string           `json:"rec_type"`
	Degraded bool             `json:"degraded,omitempty"`
}

type FeedService interface {
	// Rank computes the ordered feed for one request. The ranked list is
	// computed first and impression logging is best-effort afterwards: a
	// ledger write failure never invalidates the returned list.
	Rank(ctx context.Context, userID uuid.UUID, role string, limit int, rctx ranking.Context) (*RankedFeed, error)
}

type feedService struct {
	db            *gorm.DB
	log           *logger.Logger
	candidates    CandidateService
	preferences   PreferenceService
	insights      InsightService
	impressions   feedrepos.ImpressionRepo
	candidatePool int
	newRand       func() *rand.Rand
}

func NewFeedService(
	db *gorm.DB,
	baseLog *logger.Logger,
	candidates CandidateService,
	preferences PreferenceService,
	insights InsightService,
	impressions feedrepos.ImpressionRepo,
	candidatePool int,
) FeedService {
	if candidatePool <= 0 {
		candidatePool = 200
	}
	return &feedService{
		db:            db,
		log:           baseLog.With("service", "FeedService"),
		candidates:    candidates,
		preferences:   preferences,
		insights:      insights,
		impressions:   impressions,
		candidatePool: candidatePool,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

func (s *feedService) Rank(ctx context.Context, userID uuid.UUID, role string, limit int, rctx ranking.Context) (*RankedFeed, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id required")
	}
	if !types.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	if role == types.RoleSeller {
		return s.rankSeller(ctx, userID, limit, rctx)
	}
	return s.rankBuyer(ctx, userID, limit, rctx)
}

func (s *feedService) rankBuyer(ctx context.Context, userID uuid.UUID, limit int, rctx ranking.Context) (*RankedFeed, error) {
	log := s.log.With("user_id", userID, "role", types.RoleBuyer)

	// The three sub-fetches are independent; run them concurrently and join
	// once. Each branch keeps its own error so one failing store degrades
	// the ranking instead of aborting the request.
	var (
		pool       []ranking.Candidate
		signals    *BuyerSignals
		seen       map[uuid.UUID]struct{}
		poolErr    error
		signalsErr error
		seenErr    error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pool, poolErr = s.candidates.FetchCandidates(gctx, types.TargetKindDrop, s.candidatePool)
		return nil
	})
	g.Go(func() error {
		signals, signalsErr = s.preferences.BuildBuyerSignals(gctx, userID, rctx.Now)
		return nil
	})
	g.Go(func() error {
		seen, seenErr = s.candidates.SeenTargets(gctx, userID, types.RoleBuyer, types.RecTypePersonalV1, types.TargetKindDrop, rctx.Now)
		return nil
	})
	_ = g.Wait()

	feed := &RankedFeed{RecType: types.RecTypePersonalV1, Items: []RankedFeedItem{}}

	if poolErr != nil {
		// Presentation always gets an ordered list, even an empty one.
		log.Error("candidate fetch failed, returning empty feed", "error", poolErr)
		feed.Degraded = true
		return feed, nil
	}
	if signalsErr != nil {
		log.Warn("profile fetch failed, degrading to popularity-only ranking", "error", signalsErr)
		signals = &BuyerSignals{Profile: ranking.NewProfile()}
		feed.Degraded = true
	}
	if seenErr != nil {
		log.Warn("seen-exclusion fetch failed, skipping exclusion", "error", seenErr)
		seen = nil
		feed.Degraded = true
	}

	eligible := pool[:0:0]
	for _, c := range pool {
		if _, wasSeen := seen[c.TargetID]; wasSeen {
			continue
		}
		eligible = append(eligible, c)
	}

	composite := ranking.NewComposite(rctx,
		ranking.NewAttributeScorer(signals.Profile),
		ranking.NewTimeOfDayScorer(signals.TagRatings, rctx),
		ranking.NewSeasonScorer(signals.TagRatings, rctx),
		ranking.NewSpeedScorer(ranking.SpeedInsights(signals.SpeedSamples)),
		ranking.NewDiversityScorer(signals.Profile),
	)

	scored := make([]ranking.Scored, 0, len(eligible))
	for _, c := range eligible {
		scored = append(scored, ranking.Scored{Candidate: c, Score: composite.Score(c)})
	}

	ranked := ranking.Allocate(scored, limit, s.newRand())
	feed.Items = s.logImpressions(ctx, userID, types.RoleBuyer, types.RecTypePersonalV1, ranked)
	return feed, nil
}

func (s *feedService) rankSeller(ctx context.Context, userID uuid.UUID, limit int, rctx ranking.Context) (*RankedFeed, error) {
	// Sellers are not ranked against a candidate pool: they get a fixed set
	// of insight cards padded to the requested size.
	cards, err := s.insights.Cards(ctx, userID, limit, rctx)
	if err != nil {
		s.log.Warn("insight generation failed, returning placeholders", "user_id", userID, "error", err)
		cards = placeholderInsights(limit)
	}

	ranked := make([]ranking.RankedItem, 0, len(cards))
	for i, card := range cards {
		ranked = append(ranked, ranking.RankedItem{
			Candidate: ranking.Candidate{
				TargetKind: types.TargetKindInsight,
				TargetID:   card.ID,
				Title:      card.Title,
				Tags:       []string{card.Kind},
			},
			Rank:    i + 1,
			Explain: card.Explain,
		})
	}

	feed := &RankedFeed{RecType: types.RecTypeSellerInsightsV1}
	feed.Items = s.logImpressions(ctx, userID, types.RoleSeller, types.RecTypeSellerInsightsV1, ranked)
	return feed, nil
}

// logImpressions persists the ranked list as impression rows. Rank-first,
// append-after: on write failure the list is still returned, with nil
// impression ids.
func (s *feedService) logImpressions(ctx context.Context, userID uuid.UUID, role, recType string, ranked []ranking.RankedItem) []RankedFeedItem {
	items := make([]RankedFeedItem, 0, len(ranked))
	rows := make([]*types.Impression, 0, len(ranked))

	for _, r := range ranked {
		snap := snapshotFromCandidate(r.Candidate)
		payload, err := snap.ToJSON()
		if err != nil {
			s.log.Warn("snapshot encode failed", "target_id", r.Candidate.TargetID, "error", err)
		}
		rows = append(rows, &types.Impression{
			ID:         uuid.New(),
			UserID:     userID,
			Role:       role,
			RecType:    recType,
			TargetKind: r.Candidate.TargetKind,
			TargetID:   r.Candidate.TargetID,
			Rank:       r.Rank,
			Explain:    r.Explain,
			Payload:    payload,
			CreatedAt:  time.Now().UTC(),
		})
		items = append(items, RankedFeedItem{
			TargetKind: r.Candidate.TargetKind,
			TargetID:   r.Candidate.TargetID,
			Rank:       r.Rank,
			Score:      r.Score,
			Explain:    r.Explain,
			Payload:    snap,
		})
	}

	if _, err := s.impressions.Create(ctx, nil, rows); err != nil {
		s.log.Error("impression logging failed, returning feed without impression ids", "user_id", userID, "error", err)
		return items
	}
	for i, row := range rows {
		items[i].ImpressionID = row.ID
	}
	return items
}

func snapshotFromCandidate(c ranking.Candidate) types.ItemSnapshot {
	snap := types.ItemSnapshot{
		Title:     c.Title,
		ImageURL:  c.ImageURL,
		Brand:     c.Brand,
		Size:      c.Size,
		Condition: c.Condition,
		Price:     c.Price,
		Tags:      c.Tags,
	}
	if c.ShopID != "" {
		if id, err := uuid.Parse(c.ShopID); err == nil {
			snap.ShopID = &id
		}
	}
	return snap
}
