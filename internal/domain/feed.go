package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"

	TargetKindDrop    = "drop"
	TargetKindShop    = "shop"
	TargetKindInsight = "insight"

	// Versioned strategy names stamped on impressions.
	RecTypePersonalV1       = "personal_v1"
	RecTypeSellerInsightsV1 = "seller_insights_v1"

	// Implicit feedback kinds, ordered by strength.
	ActionSave           = "save"
	ActionClick          = "click"
	ActionPurchaseIntent = "purchase_intent"
	ActionPurchase       = "purchase"

	RatingLike    = 1.0
	RatingDislike = -1.0
)

func ValidRole(role string) bool {
	return role == RoleBuyer || role == RoleSeller
}

func ValidTargetKind(kind string) bool {
	return kind == TargetKindDrop || kind == TargetKindShop || kind == TargetKindInsight
}

func ValidActionKind(kind string) bool {
	switch kind {
	case ActionSave, ActionClick, ActionPurchaseIntent, ActionPurchase:
		return true
	}
	return false
}

// Impression records that a target was surfaced to a user. Rows are
// append-only: no UpdatedAt, no soft delete. Payload is the snapshot of the
// target at impression time and is the canonical source for later attribute
// analysis (the target row may change or disappear afterwards).
type Impression struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_impression_user_created,priority:1" json:"user_id"`
	Role       string         `gorm:"column:role;not null;index" json:"role"`
	RecType    string         `gorm:"column:rec_type;not null;index" json:"rec_type"`
	TargetKind string         `gorm:"column:target_kind;not null;index" json:"target_kind"`
	TargetID   uuid.UUID      `gorm:"type:uuid;column:target_id;not null;index" json:"target_id"`
	Rank       int            `gorm:"column:rank;not null;default:0" json:"rank"`
	Explain    string         `gorm:"column:explain" json:"explain"`
	Payload    datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now();index:idx_impression_user_created,priority:2" json:"created_at"`
}

func (Impression) TableName() string { return "impression" }

type Action struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ImpressionID uuid.UUID `gorm:"type:uuid;not null;index" json:"impression_id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind         string    `gorm:"column:kind;not null" json:"kind"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Action) TableName() string { return "action" }

type Rating struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ImpressionID uuid.UUID `gorm:"type:uuid;not null;index" json:"impression_id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Value        float64   `gorm:"column:value;not null" json:"value"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Rating) TableName() string { return "rating" }

// CacheEntry backs the DB implementation of the TTL cache store. The same
// rows double as soft reset markers for the seen-exclusion logic.
type CacheEntry struct {
	CacheKey  string         `gorm:"column:cache_key;primaryKey" json:"cache_key"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`
	ExpiresAt time.Time      `gorm:"column:expires_at;not null;index" json:"expires_at"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (CacheEntry) TableName() string { return "cache_entry" }
