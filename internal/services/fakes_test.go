package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
	"github.com/closetloop/marketplace-backend/internal/ranking"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// fakeCacheStore is an in-memory CacheStore with injectable failures.
type fakeCacheStore struct {
	entries  map[string][]byte
	putErr   error
	fetchErr error
	puts     int
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{entries: map[string][]byte{}}
}

func (f *fakeCacheStore) Put(_ context.Context, key string, payload []byte, _ time.Duration) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	f.entries[key] = payload
	return nil
}

func (f *fakeCacheStore) Fetch(_ context.Context, key string) ([]byte, bool, error) {
	if f.fetchErr != nil {
		return nil, false, f.fetchErr
	}
	payload, ok := f.entries[key]
	return payload, ok, nil
}

// fakeImpressionRepo keeps rows in order of insertion.
type fakeImpressionRepo struct {
	rows []*types.Impression

	createErr error
	listErr   error
	scopeErr  error
	deleteErr error

	deleteCalls int
}

func (f *fakeImpressionRepo) Create(_ context.Context, _ *gorm.DB, rows []*types.Impression) ([]*types.Impression, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.rows = append(f.rows, rows...)
	return rows, nil
}

func (f *fakeImpressionRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.Impression, error) {
	want := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []*types.Impression
	for _, r := range f.rows {
		if _, ok := want[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeImpressionRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Impression, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeImpressionRepo) ListTargetIDsSince(_ context.Context, _ *gorm.DB, userID uuid.UUID, targetKind string, since time.Time) ([]uuid.UUID, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	seen := map[uuid.UUID]struct{}{}
	var out []uuid.UUID
	for _, r := range f.rows {
		if r.UserID != userID || r.TargetKind != targetKind || !r.CreatedAt.After(since) {
			continue
		}
		if _, ok := seen[r.TargetID]; ok {
			continue
		}
		seen[r.TargetID] = struct{}{}
		out = append(out, r.TargetID)
	}
	return out, nil
}

func (f *fakeImpressionRepo) ListByScope(_ context.Context, _ *gorm.DB, userID uuid.UUID, role, recType, targetKind string) ([]*types.Impression, error) {
	if f.scopeErr != nil {
		return nil, f.scopeErr
	}
	var out []*types.Impression
	for _, r := range f.rows {
		if r.UserID != userID || r.Role != role {
			continue
		}
		if recType != "" && r.RecType != recType {
			continue
		}
		if targetKind != "" && r.TargetKind != targetKind {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeImpressionRepo) ListRecentByTargets(_ context.Context, _ *gorm.DB, targetKind string, targetIDs []uuid.UUID, since time.Time) ([]*types.Impression, error) {
	want := map[uuid.UUID]struct{}{}
	for _, id := range targetIDs {
		want[id] = struct{}{}
	}
	var out []*types.Impression
	for _, r := range f.rows {
		if r.TargetKind != targetKind || !r.CreatedAt.After(since) {
			continue
		}
		if _, ok := want[r.TargetID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeImpressionRepo) DeleteByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) (int64, error) {
	f.deleteCalls++
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	drop := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	var kept []*types.Impression
	var n int64
	for _, r := range f.rows {
		if _, ok := drop[r.ID]; ok {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return n, nil
}

type fakeActionRepo struct {
	rows      []*types.Action
	createErr error
	deleteErr error
}

func (f *fakeActionRepo) Create(_ context.Context, _ *gorm.DB, row *types.Action) (*types.Action, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.rows = append(f.rows, row)
	return row, nil
}

func (f *fakeActionRepo) ListRecentByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID, limit int) ([]*types.Action, error) {
	var out []*types.Action
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeActionRepo) ListByImpressionIDs(_ context.Context, _ *gorm.DB, impressionIDs []uuid.UUID) ([]*types.Action, error) {
	want := map[uuid.UUID]struct{}{}
	for _, id := range impressionIDs {
		want[id] = struct{}{}
	}
	var out []*types.Action
	for _, r := range f.rows {
		if _, ok := want[r.ImpressionID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeActionRepo) CountByImpressionIDsSince(_ context.Context, _ *gorm.DB, impressionIDs []uuid.UUID, since time.Time) (int64, error) {
	rows, _ := f.ListByImpressionIDs(context.Background(), nil, impressionIDs)
	var n int64
	for _, r := range rows {
		if r.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeActionRepo) DeleteByImpressionIDs(_ context.Context, _ *gorm.DB, impressionIDs []uuid.UUID) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	drop := map[uuid.UUID]struct{}{}
	for _, id := range impressionIDs {
		drop[id] = struct{}{}
	}
	var kept []*types.Action
	var n int64
	for _, r := range f.rows {
		if _, ok := drop[r.ImpressionID]; ok {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return n, nil
}

type fakeRatingRepo struct {
	rows      []*types.Rating
	createErr error
	deleteErr error
}

func (f *fakeRatingRepo) Create(_ context.Context, _ *gorm.DB, row *types.Rating) (*types.Rating, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.rows = append(f.rows, row)
	return row, nil
}

func (f *fakeRatingRepo) ListRecentByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID, limit int) ([]*types.Rating, error) {
	var out []*types.Rating
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeRatingRepo) ListByImpressionIDs(_ context.Context, _ *gorm.DB, impressionIDs []uuid.UUID) ([]*types.Rating, error) {
	want := map[uuid.UUID]struct{}{}
	for _, id := range impressionIDs {
		want[id] = struct{}{}
	}
	var out []*types.Rating
	for _, r := range f.rows {
		if _, ok := want[r.ImpressionID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRatingRepo) DeleteByImpressionIDs(_ context.Context, _ *gorm.DB, impressionIDs []uuid.UUID) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	drop := map[uuid.UUID]struct{}{}
	for _, id := range impressionIDs {
		drop[id] = struct{}{}
	}
	var kept []*types.Rating
	var n int64
	for _, r := range f.rows {
		if _, ok := drop[r.ImpressionID]; ok {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return n, nil
}

type fakeDropRepo struct {
	rows    []*types.Drop
	listErr error
}

func (f *fakeDropRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.Drop, error) {
	want := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []*types.Drop
	for _, r := range f.rows {
		if _, ok := want[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeDropRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Drop, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeDropRepo) ListActiveByPopularity(_ context.Context, _ *gorm.DB, limit int) ([]*types.Drop, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*types.Drop
	for _, r := range f.rows {
		if r.Status != types.DropStatusActive {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeDropRepo) ListByShopIDs(_ context.Context, _ *gorm.DB, shopIDs []uuid.UUID) ([]*types.Drop, error) {
	want := map[uuid.UUID]struct{}{}
	for _, id := range shopIDs {
		want[id] = struct{}{}
	}
	var out []*types.Drop
	for _, r := range f.rows {
		if _, ok := want[r.ShopID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeShopRepo struct {
	rows []*types.Shop
}

func (f *fakeShopRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.Shop, error) {
	want := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []*types.Shop
	for _, r := range f.rows {
		if _, ok := want[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeShopRepo) GetByOwnerUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*types.Shop, error) {
	for _, r := range f.rows {
		if r.OwnerUserID == userID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeShopRepo) ListByPopularity(_ context.Context, _ *gorm.DB, limit int) ([]*types.Shop, error) {
	out := f.rows
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Service-level fakes for feed tests.

type fakeCandidateService struct {
	pool    []ranking.Candidate
	poolErr error

	seen    map[uuid.UUID]struct{}
	seenErr error
}

func (f *fakeCandidateService) FetchCandidates(_ context.Context, _ string, _ int) ([]ranking.Candidate, error) {
	return f.pool, f.poolErr
}

func (f *fakeCandidateService) SeenTargets(_ context.Context, _ uuid.UUID, _, _, _ string, _ time.Time) (map[uuid.UUID]struct{}, error) {
	return f.seen, f.seenErr
}

type fakePreferenceService struct {
	signals *BuyerSignals
	err     error
}

func (f *fakePreferenceService) BuildBuyerSignals(_ context.Context, _ uuid.UUID, _ time.Time) (*BuyerSignals, error) {
	return f.signals, f.err
}

type fakeInsightService struct {
	cards []InsightCard
	err   error
}

func (f *fakeInsightService) Cards(_ context.Context, _ uuid.UUID, _ int, _ ranking.Context) ([]InsightCard, error) {
	return f.cards, f.err
}
