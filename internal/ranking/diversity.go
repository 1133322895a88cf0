package ranking

// DiversityScorer counteracts filter-bubble convergence: the more of the
// profile's total weight already sits on an attribute value, the larger the
// penalty for yet another candidate carrying it. The penalty is linear in the
// attribute's weight share, which keeps the contract monotonic.
type DiversityScorer struct {
	profile Profile
	total   float64
}

func NewDiversityScorer(p Profile) *DiversityScorer {
	return &DiversityScorer{profile: p, total: p.TotalWeight()}
}

func (s *DiversityScorer) Name() string { return ScorerDiversity }

func (s *DiversityScorer) Score(c Candidate) float64 {
	if s.total <= 0 {
		return 0
	}
	penalty := 0.0
	penalty += s.profile.Brand[NormalizeAttr(c.Brand)] / s.total
	penalty += s.profile.Size[NormalizeAttr(c.Size)] / s.total
	penalty += s.profile.Shop[NormalizeAttr(c.ShopID)] / s.total
	penalty += s.profile.Condition[NormalizeAttr(c.Condition)] / s.total
	penalty += s.profile.PriceBand[PriceBand(c.Price)] / s.total
	return -penalty
}
