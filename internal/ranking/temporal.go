package ranking

import "time"

// TagRating is an explicit rating joined to the tag set of its impression
// snapshot, used by the temporal-context scorers.
type TagRating struct {
	Tags    []string
	Value   float64
	RatedAt time.Time
}

// PositiveTagsForDayPart partitions ratings by local hour-of-day bucket and,
// within the bucket matching part, keeps tags whose like count exceeds their
// dislike count.
func PositiveTagsForDayPart(ratings []TagRating, part DayPart, loc *time.Location) map[string]struct{} {
	if loc == nil {
		loc = time.UTC
	}
	return positiveTags(ratings, func(r TagRating) bool {
		return DayPartOf(r.RatedAt.In(loc)) == part
	})
}

// PositiveTagsForSeason does the same over the fixed month-range seasons.
func PositiveTagsForSeason(ratings []TagRating, season Season, loc *time.Location) map[string]struct{} {
	if loc == nil {
		loc = time.UTC
	}
	return positiveTags(ratings, func(r TagRating) bool {
		return SeasonOf(r.RatedAt.In(loc)) == season
	})
}

func positiveTags(ratings []TagRating, inBucket func(TagRating) bool) map[string]struct{} {
	scores := map[string]int{}
	for _, r := range ratings {
		if !inBucket(r) {
			continue
		}
		for _, tag := range r.Tags {
			tag = NormalizeAttr(tag)
			if tag == "" {
				continue
			}
			if r.Value > 0 {
				scores[tag]++
			} else if r.Value < 0 {
				scores[tag]--
			}
		}
	}
	out := map[string]struct{}{}
	for tag, score := range scores {
		if score > 0 {
			out[tag] = struct{}{}
		}
	}
	return out
}

type tagAffinityScorer struct {
	name     string
	positive map[string]struct{}
}

// NewTimeOfDayScorer scores a candidate by how many of its tags are liked in
// the current local day part.
func NewTimeOfDayScorer(ratings []TagRating, rctx Context) Scorer {
	local := rctx.LocalNow()
	return &tagAffinityScorer{
		name:     ScorerTimeOfDay,
		positive: PositiveTagsForDayPart(ratings, DayPartOf(local), rctx.Loc),
	}
}

// NewSeasonScorer scores a candidate by its tag overlap with the current
// season's liked tags.
func NewSeasonScorer(ratings []TagRating, rctx Context) Scorer {
	local := rctx.LocalNow()
	return &tagAffinityScorer{
		name:     ScorerSeason,
		positive: PositiveTagsForSeason(ratings, SeasonOf(local), rctx.Loc),
	}
}

func (s *tagAffinityScorer) Name() string { return s.name }

func (s *tagAffinityScorer) Score(c Candidate) float64 {
	hits := 0
	for _, tag := range c.Tags {
		if _, ok := s.positive[NormalizeAttr(tag)]; ok {
			hits++
		}
	}
	return float64(hits)
}
