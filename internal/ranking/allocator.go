package ranking

import (
	"math"
	"math/rand"
	"sort"

	"github.com/google/uuid"
)

const (
	// ExploreRatio is the fraction of slots reserved for exploration.
	ExploreRatio = 0.2
	// ExplorePoolSize bounds how deep into the ranked remainder the explore
	// sampler reaches, so the long tail never surfaces.
	ExplorePoolSize = 200

	ExplainExploit = "matches recent behavior"
	ExplainExplore = "novel/exploration slot"
)

type Scored struct {
	Candidate Candidate
	Score     float64
}

type RankedItem struct {
	Candidate   Candidate
	Score       float64
	Rank        int
	Explain     string
	Exploration bool
}

// ExploreCount returns the number of explore slots for a request: at least
// one, otherwise limit*0.2 rounded.
func ExploreCount(limit int) int {
	if limit <= 0 {
		return 0
	}
	n := int(math.Round(float64(limit) * ExploreRatio))
	if n < 1 {
		n = 1
	}
	if n > limit {
		n = limit
	}
	return n
}

// Allocate splits limit between exploit (top-scored) and explore (uniform
// sample without replacement from the top remainder). The exploit order is
// deterministic: score desc, catalog popularity desc, then stable input
// order. Duplicated target ids are collapsed to their best-scored entry, so a
// response never recommends the same target twice.
func Allocate(pool []Scored, limit int, rng *rand.Rand) []RankedItem {
	if limit <= 0 || len(pool) == 0 {
		return nil
	}

	pool = dedupeByTarget(pool)
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Score != pool[j].Score {
			return pool[i].Score > pool[j].Score
		}
		return pool[i].Candidate.Popularity > pool[j].Candidate.Popularity
	})

	exploreCount := ExploreCount(limit)
	exploitCount := limit - exploreCount
	if exploitCount > len(pool) {
		exploitCount = len(pool)
	}

	out := make([]RankedItem, 0, limit)
	for _, s := range pool[:exploitCount] {
		out = append(out, RankedItem{
			Candidate: s.Candidate,
			Score:     s.Score,
			Explain:   ExplainExploit,
		})
	}

	remainder := pool[exploitCount:]
	if len(remainder) > ExplorePoolSize {
		remainder = remainder[:ExplorePoolSize]
	}
	if exploreCount > len(remainder) {
		exploreCount = len(remainder)
	}
	if exploreCount > 0 {
		for _, idx := range rng.Perm(len(remainder))[:exploreCount] {
			s := remainder[idx]
			out = append(out, RankedItem{
				Candidate:   s.Candidate,
				Score:       s.Score,
				Explain:     ExplainExplore,
				Exploration: true,
			})
		}
	}

	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func dedupeByTarget(pool []Scored) []Scored {
	best := map[uuid.UUID]int{}
	out := make([]Scored, 0, len(pool))
	for _, s := range pool {
		if idx, seen := best[s.Candidate.TargetID]; seen {
			if s.Score > out[idx].Score {
				out[idx] = s
			}
			continue
		}
		best[s.Candidate.TargetID] = len(out)
		out = append(out, s)
	}
	return out
}
