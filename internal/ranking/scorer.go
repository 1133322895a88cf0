package ranking

// Scorer is one strategy in the closed scoring set, dispatched by name.
// Scorers are pure: instances carry the per-request state they need and
// return an unbounded real affinity.
type Scorer interface {
	Name() string
	Score(c Candidate) float64
}

const (
	ScorerAttributeMatch = "attribute_match"
	ScorerTimeOfDay      = "time_of_day"
	ScorerSeason         = "season"
	ScorerReactionSpeed  = "reaction_speed"
	ScorerDiversity      = "diversity"
)

// AttributeScorer is the default buyer scorer: the sum of the profile's
// weights for the candidate's brand, size, shop, condition and price band.
type AttributeScorer struct {
	Profile Profile
}

func NewAttributeScorer(p Profile) *AttributeScorer {
	return &AttributeScorer{Profile: p}
}

func (s *AttributeScorer) Name() string { return ScorerAttributeMatch }

func (s *AttributeScorer) Score(c Candidate) float64 {
	score := 0.0
	score += s.Profile.Brand[NormalizeAttr(c.Brand)]
	score += s.Profile.Size[NormalizeAttr(c.Size)]
	score += s.Profile.Shop[NormalizeAttr(c.ShopID)]
	score += s.Profile.Condition[NormalizeAttr(c.Condition)]
	score += s.Profile.PriceBand[PriceBand(c.Price)]
	return score
}

// Composite adds up the strategy scores plus lightly-weighted popularity and
// recency terms. Plain addition keeps every contribution explainable.
type Composite struct {
	Scorers []Scorer
	Ctx     Context
}

const (
	popularityWeight = 0.1
	recencyWeight    = 0.02
)

func NewComposite(ctx Context, scorers ...Scorer) *Composite {
	return &Composite{Scorers: scorers, Ctx: ctx}
}

func (cs *Composite) Score(c Candidate) float64 {
	score := popularityWeight*c.Popularity + recencyWeight*RecencyScore(c.CreatedAt, cs.Ctx.Now)
	for _, s := range cs.Scorers {
		score += s.Score(c)
	}
	return score
}
