package ranking

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is the scorer-facing view of an eligible item. Services map
// catalog rows (or synthetic insight cards) into this shape before scoring.
type Candidate struct {
	TargetKind string
	TargetID   uuid.UUID
	Title      string
	ImageURL   string
	Brand      string
	Size       string
	Condition  string
	ShopID     string
	Price      int
	Tags       []string
	Popularity float64
	CreatedAt  time.Time
}

// RecencyScore rewards fresh listings, tapering to zero after 30 days.
func RecencyScore(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}
	ageDays := now.Sub(createdAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	if ageDays >= 30 {
		return 0
	}
	return 30 - ageDays
}
