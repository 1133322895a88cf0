package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DropStatusActive = "active"
	DropStatusSold   = "sold"
	DropStatusHidden = "hidden"
)

// Drop is a catalog listing. Rows are owned by the catalog pipeline and are
// read-only to the ranking engine.
type Drop struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ShopID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"shop_id"`
	Shop       *Shop          `gorm:"foreignKey:ShopID;references:ID" json:"shop,omitempty"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	ImageURL   string         `gorm:"column:image_url" json:"image_url"`
	Brand      string         `gorm:"column:brand;index" json:"brand"`
	Size       string         `gorm:"column:size" json:"size"`
	Condition  string         `gorm:"column:condition" json:"condition"`
	Price      int            `gorm:"column:price;not null;default:0" json:"price"`
	Tags       datatypes.JSON `gorm:"column:tags;type:jsonb" json:"tags,omitempty"`
	Popularity float64        `gorm:"column:popularity;not null;default:0;index" json:"popularity"`
	Status     string         `gorm:"column:status;not null;default:'active';index" json:"status"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Drop) TableName() string { return "drop" }

type Shop struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerUserID uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_user_id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	ImageURL    string         `gorm:"column:image_url" json:"image_url"`
	Popularity  float64        `gorm:"column:popularity;not null;default:0;index" json:"popularity"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Shop) TableName() string { return "shop" }
