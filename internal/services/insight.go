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

const (
	InsightKindTrendSummary = "trend_summary"
	InsightKindActionItem   = "action_item"
	InsightKindPlaceholder  = "placeholder"

	insightTrendWindow = 30 * 24 * time.Hour
)

// InsightCard is a synthetic advisory item for sellers. Cards are minted per
// request and never persisted to the catalog; only their impressions are.
type InsightCard struct {
	ID      uuid.UUID
	Kind    string
	Title   string
	Body    string
	Explain string
}

type InsightService interface {
	Cards(ctx context.Context, userID uuid.UUID, limit int, rctx ranking.Context) ([]InsightCard, error)
}

type insightService struct {
	db          *gorm.DB
	log         *logger.Logger
	shops       catalogrepos.ShopRepo
	drops       catalogrepos.DropRepo
	impressions feedrepos.ImpressionRepo
	actions     feedrepos.ActionRepo
}

func NewInsightService(
	db *gorm.DB,
	baseLog *logger.Logger,
	shops catalogrepos.ShopRepo,
	drops catalogrepos.DropRepo,
	impressions feedrepos.ImpressionRepo,
	actions feedrepos.ActionRepo,
) InsightService {
	return &insightService{
		db:          db,
		log:         baseLog.With("service", "InsightService"),
		shops:       shops,
		drops:       drops,
		impressions: impressions,
		actions:     actions,
	}
}

func (s *insightService) Cards(ctx context.Context, userID uuid.UUID, limit int, rctx ranking.Context) ([]InsightCard, error) {
	if limit <= 0 {
		return nil, nil
	}

	shop, err := s.shops.GetByOwnerUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch shop: %w", err)
	}
	if shop == nil {
		return padInsights(nil, limit), nil
	}

	drops, err := s.drops.ListByShopIDs(ctx, nil, []uuid.UUID{shop.ID})
	if err != nil {
		return nil, fmt.Errorf("fetch drops: %w", err)
	}

	since := rctx.Now.Add(-insightTrendWindow)
	dropIDs := make([]uuid.UUID, 0, len(drops))
	for _, d := range drops {
		dropIDs = append(dropIDs, d.ID)
	}

	impressions, err := s.impressions.ListRecentByTargets(ctx, nil, types.TargetKindDrop, dropIDs, since)
	if err != nil {
		return nil, fmt.Errorf("fetch shop impressions: %w", err)
	}

	impressionIDs := make([]uuid.UUID, 0, len(impressions))
	shownPerDrop := map[uuid.UUID]int{}
	for _, imp := range impressions {
		impressionIDs = append(impressionIDs, imp.ID)
		shownPerDrop[imp.TargetID]++
	}

	reactions, err := s.actions.CountByImpressionIDsSince(ctx, nil, impressionIDs, since)
	if err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}

	cards := []InsightCard{{
		ID:   uuid.New(),
		Kind: InsightKindTrendSummary,
		Title: fmt.Sprintf("%s was shown %d times in the last 30 days",
			shop.Name, len(impressions)),
		Body:    fmt.Sprintf("Buyers reacted %d times across %d listings.", reactions, len(drops)),
		Explain: "aggregate trend summary",
	}}

	// Prioritized action items, most impactful first.
	quiet := 0
	for _, d := range drops {
		if d.Status == types.DropStatusActive && shownPerDrop[d.ID] == 0 {
			quiet++
		}
	}
	if quiet > 0 {
		cards = append(cards, InsightCard{
			ID:      uuid.New(),
			Kind:    InsightKindActionItem,
			Title:   fmt.Sprintf("%d listings got no views this month", quiet),
			Body:    "Refresh photos or add tags so they can surface in buyer feeds.",
			Explain: "prioritized action item",
		})
	}
	if len(drops) > 0 && reactions == 0 {
		cards = append(cards, InsightCard{
			ID:      uuid.New(),
			Kind:    InsightKindActionItem,
			Title:   "No buyer reactions yet",
			Body:    "Competitive pricing and condition notes tend to drive first saves.",
			Explain: "prioritized action item",
		})
	}

	return padInsights(cards, limit), nil
}

func padInsights(cards []InsightCard, limit int) []InsightCard {
	if len(cards) > limit {
		return cards[:limit]
	}
	for len(cards) < limit {
		cards = append(cards, placeholderInsight())
	}
	return cards
}

func placeholderInsight() InsightCard {
	return InsightCard{
		ID:      uuid.New(),
		Kind:    InsightKindPlaceholder,
		Title:   "List something new",
		Body:    "Fresh listings get a recency boost in buyer feeds.",
		Explain: "placeholder insight",
	}
}

func placeholderInsights(limit int) []InsightCard {
	return padInsights(nil, limit)
}
