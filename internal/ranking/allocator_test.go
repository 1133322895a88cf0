package ranking

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
)

func scoredPool(n int) []Scored {
	out := make([]Scored, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Scored{
			Candidate: Candidate{TargetKind: "drop", TargetID: uuid.New()},
			Score:     float64(n - i),
		})
	}
	return out
}

func TestExploreCount(t *testing.T) {
	cases := []struct {
		limit int
		want  int
	}{
		{1, 1},
		{2, 1},
		{3, 1},
		{5, 1},
		{10, 2},
		{20, 4},
		{100, 20},
	}
	for _, c := range cases {
		if got := ExploreCount(c.limit); got != c.want {
			t.Fatalf("ExploreCount(%d) = %d, want %d", c.limit, got, c.want)
		}
	}
}

func TestAllocatePartition(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	items := Allocate(scoredPool(300), 20, rng)
	if len(items) != 20 {
		t.Fatalf("got %d items, want 20", len(items))
	}

	explore := 0
	for i, it := range items {
		if it.Rank != i+1 {
			t.Fatalf("rank at index %d = %d, want %d", i, it.Rank, i+1)
		}
		if it.Exploration {
			explore++
			if it.Explain != ExplainExplore {
				t.Fatalf("explore item explain = %q", it.Explain)
			}
		} else if it.Explain != ExplainExploit {
			t.Fatalf("exploit item explain = %q", it.Explain)
		}
	}
	if explore != 4 {
		t.Fatalf("explore slots = %d, want 4", explore)
	}
	// Exploit block leads and holds the best scores in order.
	for i := 1; i < 16; i++ {
		if items[i].Score > items[i-1].Score {
			t.Fatalf("exploit block out of order at %d", i)
		}
	}
}

func TestAllocateLimitOneIsExplore(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	items := Allocate(scoredPool(10), 1, rng)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if !items[0].Exploration {
		t.Fatalf("single-slot feed must be an explore slot")
	}
}

func TestAllocateNoDuplicateTargets(t *testing.T) {
	pool := scoredPool(50)
	// Same target scored by two strategies: the better score must win once.
	dup := pool[3]
	dup.Score = 1000
	pool = append(pool, dup)

	rng := rand.New(rand.NewSource(3))
	items := Allocate(pool, 30, rng)

	seen := map[uuid.UUID]bool{}
	for _, it := range items {
		if seen[it.Candidate.TargetID] {
			t.Fatalf("target %s appears twice", it.Candidate.TargetID)
		}
		seen[it.Candidate.TargetID] = true
	}
	if items[0].Candidate.TargetID != dup.Candidate.TargetID || items[0].Score != 1000 {
		t.Fatalf("dedupe should keep the higher score, got %+v", items[0])
	}
}

func TestAllocateShortPool(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	items := Allocate(scoredPool(3), 20, rng)
	if len(items) != 3 {
		t.Fatalf("got %d items, want the whole pool", len(items))
	}
}

func TestAllocateEmptyPool(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	if items := Allocate(nil, 20, rng); len(items) != 0 {
		t.Fatalf("empty pool should yield empty feed, got %d", len(items))
	}
}

func TestAllocateTieBreakByPopularity(t *testing.T) {
	a := Scored{Candidate: Candidate{TargetKind: "drop", TargetID: uuid.New(), Popularity: 1}, Score: 5}
	b := Scored{Candidate: Candidate{TargetKind: "drop", TargetID: uuid.New(), Popularity: 9}, Score: 5}
	rng := rand.New(rand.NewSource(6))
	items := Allocate([]Scored{a, b}, 2, rng)
	if items[0].Candidate.TargetID != b.Candidate.TargetID {
		t.Fatalf("equal scores should prefer higher popularity first")
	}
}
