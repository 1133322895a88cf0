package ranking

import (
	"math"
	"testing"
	"time"
)

func TestDecayMonotonicity(t *testing.T) {
	prev := Decay(0)
	if prev != 1 {
		t.Fatalf("Decay(0) = %v, want 1", prev)
	}
	for _, d := range []float64{1, 5, 10, 30, 60, 120} {
		cur := Decay(d)
		if cur >= prev {
			t.Fatalf("Decay(%v) = %v, want < %v", d, cur, prev)
		}
		if cur <= 0 {
			t.Fatalf("Decay(%v) = %v, want > 0", d, cur)
		}
		prev = cur
	}
	if Decay(-3) != 1 {
		t.Fatalf("future-dated signals should get full weight, got %v", Decay(-3))
	}
}

func TestPriceBand(t *testing.T) {
	cases := []struct {
		price int
		want  string
	}{
		{0, PriceBandUnknown},
		{-100, PriceBandUnknown},
		{2999, PriceBandUnder3k},
		{3000, PriceBand3to8k},
		{7999, PriceBand3to8k},
		{9000, PriceBand8to15k},
		{14999, PriceBand8to15k},
		{15000, PriceBand15to30k},
		{29999, PriceBand15to30k},
		{30000, PriceBandOver30k},
	}
	for _, c := range cases {
		if got := PriceBand(c.price); got != c.want {
			t.Fatalf("PriceBand(%d) = %q, want %q", c.price, got, c.want)
		}
	}
}

func TestBuildProfileSingleRating(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	signals := []Signal{{
		Weight:     1,
		OccurredAt: now.Add(-10 * 24 * time.Hour),
		Brand:      "Nike",
		Price:      9000,
	}}

	p := BuildProfile(signals, now)

	want := math.Pow(0.98, 10) // ~0.817
	if got := p.Brand["nike"]; math.Abs(got-want) > 1e-9 {
		t.Fatalf("brand weight = %v, want %v", got, want)
	}
	if got := p.PriceBand[PriceBand8to15k]; math.Abs(got-want) > 1e-9 {
		t.Fatalf("price band weight = %v, want %v", got, want)
	}
	// Blank attributes are skipped for their maps only.
	if len(p.Size) != 0 || len(p.Shop) != 0 || len(p.Condition) != 0 {
		t.Fatalf("blank attributes should not accumulate: %+v", p)
	}
}

func TestAttributeScorerAdditiveContract(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	p := BuildProfile([]Signal{{
		Weight:     1,
		OccurredAt: now.Add(-10 * 24 * time.Hour),
		Brand:      "Nike",
		Price:      9000,
	}}, now)

	scorer := NewAttributeScorer(p)
	match := scorer.Score(Candidate{Brand: "Nike", Price: 9500})
	miss := scorer.Score(Candidate{Brand: "Acme", Price: 500})

	want := 2 * math.Pow(0.98, 10) // brand + price band
	if math.Abs(match-want) > 1e-9 {
		t.Fatalf("matching candidate score = %v, want %v", match, want)
	}
	if miss != 0 {
		t.Fatalf("non-matching candidate score = %v, want 0", miss)
	}
	if match <= miss {
		t.Fatalf("matching candidate must outrank non-matching one")
	}
}

func TestBuildProfileOlderContributesLess(t *testing.T) {
	now := time.Now().UTC()
	young := BuildProfile([]Signal{{Weight: 1, OccurredAt: now.Add(-24 * time.Hour), Brand: "x"}}, now)
	old := BuildProfile([]Signal{{Weight: 1, OccurredAt: now.Add(-40 * 24 * time.Hour), Brand: "x"}}, now)
	if young.Brand["x"] <= old.Brand["x"] {
		t.Fatalf("younger signal weight %v should exceed older %v", young.Brand["x"], old.Brand["x"])
	}
}

func TestBuildProfileDeterministic(t *testing.T) {
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	signals := []Signal{
		{Weight: 2, OccurredAt: now.Add(-48 * time.Hour), Brand: "A", Size: "m", Price: 4000},
		{Weight: -1, OccurredAt: now.Add(-12 * time.Hour), Brand: "B", Condition: "used", Price: 100},
	}
	a := BuildProfile(signals, now)
	b := BuildProfile(signals, now)
	for k, v := range a.Brand {
		if b.Brand[k] != v {
			t.Fatalf("profile not reproducible for brand %q", k)
		}
	}
	if len(a.Brand) != len(b.Brand) || len(a.PriceBand) != len(b.PriceBand) {
		t.Fatalf("profile maps differ between identical builds")
	}
}
