package ranking

import (
	"math"
	"strings"
	"time"
)

// DecayBase gives a roughly 50-day half-life; signals older than ~60 days
// contribute next to nothing.
const DecayBase = 0.98

// Implicit action base weights. Explicit ratings carry their own value.
const (
	WeightSave           = 2.0
	WeightClick          = 3.0
	WeightPurchaseIntent = 4.0
	WeightPurchase       = 6.0
)

// Decay returns the age multiplier for a signal ageDays old. Future-dated
// signals (clock skew) are clamped to full weight.
func Decay(ageDays float64) float64 {
	if ageDays <= 0 {
		return 1
	}
	return math.Pow(DecayBase, ageDays)
}

// Signal is one ledger event flattened against its impression's payload
// snapshot. Weight is the pre-decay base weight.
type Signal struct {
	Weight     float64
	OccurredAt time.Time
	Brand      string
	Size       string
	Condition  string
	ShopID     string
	Price      int
}

// Profile is the ephemeral decay-weighted attribute affinity of one buyer.
// It is recomputed per request and never persisted.
type Profile struct {
	Brand     map[string]float64
	Size      map[string]float64
	Shop      map[string]float64
	Condition map[string]float64
	PriceBand map[string]float64
}

func NewProfile() Profile {
	return Profile{
		Brand:     map[string]float64{},
		Size:      map[string]float64{},
		Shop:      map[string]float64{},
		Condition: map[string]float64{},
		PriceBand: map[string]float64{},
	}
}

func (p Profile) IsEmpty() bool {
	return len(p.Brand) == 0 && len(p.Size) == 0 && len(p.Shop) == 0 &&
		len(p.Condition) == 0 && len(p.PriceBand) == 0
}

func (p Profile) TotalWeight() float64 {
	total := 0.0
	for _, m := range []map[string]float64{p.Brand, p.Size, p.Shop, p.Condition, p.PriceBand} {
		for _, w := range m {
			total += w
		}
	}
	return total
}

// BuildProfile folds decayed signal weights into the five attribute maps.
// Blank attribute values are skipped for that map only; a missing price still
// lands in the "unknown" band. Given identical signals and a fixed now, the
// result is reproducible.
func BuildProfile(signals []Signal, now time.Time) Profile {
	p := NewProfile()
	for _, s := range signals {
		ageDays := now.Sub(s.OccurredAt).Hours() / 24
		w := s.Weight * Decay(ageDays)
		if w == 0 {
			continue
		}
		accumulate(p.Brand, s.Brand, w)
		accumulate(p.Size, s.Size, w)
		accumulate(p.Shop, s.ShopID, w)
		accumulate(p.Condition, s.Condition, w)
		accumulate(p.PriceBand, PriceBand(s.Price), w)
	}
	return p
}

func accumulate(m map[string]float64, key string, w float64) {
	key = NormalizeAttr(key)
	if key == "" {
		return
	}
	m[key] += w
}

func NormalizeAttr(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
