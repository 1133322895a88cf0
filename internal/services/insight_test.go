package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/ranking"
)

func TestCardsWithoutShopArePlaceholders(t *testing.T) {
	svc := NewInsightService(nil, testLogger(t), &fakeShopRepo{}, &fakeDropRepo{}, &fakeImpressionRepo{}, &fakeActionRepo{})

	cards, err := svc.Cards(context.Background(), uuid.New(), 3, rankContext())
	if err != nil {
		t.Fatalf("cards: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("got %d cards, want 3", len(cards))
	}
	for _, c := range cards {
		if c.Kind != InsightKindPlaceholder {
			t.Fatalf("shopless seller should get placeholders, got %q", c.Kind)
		}
	}
}

func TestCardsAggregateShopActivity(t *testing.T) {
	userID := uuid.New()
	shopID := uuid.New()
	shownDrop := uuid.New()
	quietDrop := uuid.New()
	rctx := rankContext()

	shops := &fakeShopRepo{rows: []*types.Shop{{ID: shopID, OwnerUserID: userID, Name: "Closet Loop"}}}
	drops := &fakeDropRepo{rows: []*types.Drop{
		{ID: shownDrop, ShopID: shopID, Status: types.DropStatusActive},
		{ID: quietDrop, ShopID: shopID, Status: types.DropStatusActive},
	}}
	impID := uuid.New()
	impressions := &fakeImpressionRepo{rows: []*types.Impression{{
		ID:         impID,
		UserID:     uuid.New(),
		Role:       types.RoleBuyer,
		TargetKind: types.TargetKindDrop,
		TargetID:   shownDrop,
		CreatedAt:  rctx.Now.Add(-24 * time.Hour),
	}}}
	actions := &fakeActionRepo{rows: []*types.Action{{
		ID:           uuid.New(),
		ImpressionID: impID,
		UserID:       uuid.New(),
		Kind:         types.ActionSave,
		CreatedAt:    rctx.Now.Add(-23 * time.Hour),
	}}}

	svc := NewInsightService(nil, testLogger(t), shops, drops, impressions, actions)
	cards, err := svc.Cards(context.Background(), userID, 5, rctx)
	if err != nil {
		t.Fatalf("cards: %v", err)
	}
	if len(cards) != 5 {
		t.Fatalf("got %d cards, want padded 5", len(cards))
	}
	if cards[0].Kind != InsightKindTrendSummary {
		t.Fatalf("first card kind = %q, want trend summary", cards[0].Kind)
	}
	if !strings.Contains(cards[0].Title, "Closet Loop") || !strings.Contains(cards[0].Title, "1 times") {
		t.Fatalf("trend summary title = %q", cards[0].Title)
	}
	if cards[1].Kind != InsightKindActionItem || !strings.Contains(cards[1].Title, "1 listings got no views") {
		t.Fatalf("quiet-listing action item missing, got %+v", cards[1])
	}
}

func TestCardsTruncateToLimit(t *testing.T) {
	userID := uuid.New()
	shopID := uuid.New()
	shops := &fakeShopRepo{rows: []*types.Shop{{ID: shopID, OwnerUserID: userID, Name: "Closet Loop"}}}
	drops := &fakeDropRepo{rows: []*types.Drop{{ID: uuid.New(), ShopID: shopID, Status: types.DropStatusActive}}}

	svc := NewInsightService(nil, testLogger(t), shops, drops, &fakeImpressionRepo{}, &fakeActionRepo{})
	cards, err := svc.Cards(context.Background(), userID, 1, ranking.NewContext(time.Now().UTC(), time.UTC))
	if err != nil {
		t.Fatalf("cards: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(cards))
	}
}
