package ranking

import (
	"sort"
	"time"
)

// Reaction-speed analysis: how quickly a user rated after seeing an item is
// treated as a confidence signal on the tags involved. Only the earliest
// rating per impression is considered; later ratings on the same impression
// are ignored (callers are expected to pre-select the first one).

const (
	fastReaction    = 3 * time.Second
	maxReaction     = 60 * time.Second
	ratioEpsilon    = 0.01
	strongSamples   = 10
	moderateSamples = 5
	minSamples      = 3

	strongInterestRatio = 0.7
)

type Confidence string

const (
	ConfidenceStrong   Confidence = "strong"
	ConfidenceModerate Confidence = "moderate"
	ConfidenceWeak     Confidence = "weak"
)

// RatingLatency is a (impression, first rating) pair with the impression
// snapshot's tags attached.
type RatingLatency struct {
	Tags        []string
	Value       float64
	ImpressedAt time.Time
	RatedAt     time.Time
}

type TagSpeedInsight struct {
	Tag            string
	FastLikes      int
	SlowLikes      int
	FastDislikes   int
	SlowDislikes   int
	Confidence     Confidence
	FastLikeRatio  float64
	StrongInterest bool
}

func (i TagSpeedInsight) total() int {
	return i.FastLikes + i.SlowLikes + i.FastDislikes + i.SlowDislikes
}

// SpeedInsights aggregates per-tag fast/slow like/dislike counts and ranks
// tags by fast-like ratio. Latencies over 60s or negative (clock skew) are
// discarded, as are tags with fewer than 3 samples.
func SpeedInsights(samples []RatingLatency) []TagSpeedInsight {
	byTag := map[string]*TagSpeedInsight{}
	for _, s := range samples {
		latency := s.RatedAt.Sub(s.ImpressedAt)
		if latency < 0 || latency > maxReaction {
			continue
		}
		fast := latency <= fastReaction
		for _, tag := range s.Tags {
			tag = NormalizeAttr(tag)
			if tag == "" {
				continue
			}
			ins := byTag[tag]
			if ins == nil {
				ins = &TagSpeedInsight{Tag: tag}
				byTag[tag] = ins
			}
			switch {
			case s.Value > 0 && fast:
				ins.FastLikes++
			case s.Value > 0:
				ins.SlowLikes++
			case s.Value < 0 && fast:
				ins.FastDislikes++
			case s.Value < 0:
				ins.SlowDislikes++
			}
		}
	}

	out := make([]TagSpeedInsight, 0, len(byTag))
	for _, ins := range byTag {
		total := ins.total()
		if total < minSamples {
			continue
		}
		switch {
		case total >= strongSamples:
			ins.Confidence = ConfidenceStrong
		case total >= moderateSamples:
			ins.Confidence = ConfidenceModerate
		default:
			ins.Confidence = ConfidenceWeak
		}
		ins.FastLikeRatio = float64(ins.FastLikes) / (float64(ins.FastLikes) + float64(ins.FastDislikes) + ratioEpsilon)
		ins.StrongInterest = ins.FastLikeRatio > strongInterestRatio && ins.Confidence != ConfidenceWeak
		out = append(out, *ins)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FastLikeRatio != out[j].FastLikeRatio {
			return out[i].FastLikeRatio > out[j].FastLikeRatio
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// SpeedScorer boosts candidates carrying strong-interest tags.
type SpeedScorer struct {
	strong map[string]struct{}
}

func NewSpeedScorer(insights []TagSpeedInsight) *SpeedScorer {
	strong := map[string]struct{}{}
	for _, ins := range insights {
		if ins.StrongInterest {
			strong[ins.Tag] = struct{}{}
		}
	}
	return &SpeedScorer{strong: strong}
}

func (s *SpeedScorer) Name() string { return ScorerReactionSpeed }

func (s *SpeedScorer) Score(c Candidate) float64 {
	hits := 0
	for _, tag := range c.Tags {
		if _, ok := s.strong[NormalizeAttr(tag)]; ok {
			hits++
		}
	}
	return float64(hits)
}
