package domain

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ItemSnapshot is the denormalized copy of a target stored on each
// impression. Profile building reads attributes from here, never from a live
// join against the catalog.
type ItemSnapshot struct {
	Title     string     `json:"title,omitempty"`
	ImageURL  string     `json:"image_url,omitempty"`
	Brand     string     `json:"brand,omitempty"`
	Size      string     `json:"size,omitempty"`
	Condition string     `json:"condition,omitempty"`
	Price     int        `json:"price,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	ShopID    *uuid.UUID `json:"shop_id,omitempty"`
}

func (s ItemSnapshot) ToJSON() (datatypes.JSON, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func SnapshotFromJSON(raw datatypes.JSON) (ItemSnapshot, error) {
	var s ItemSnapshot
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return ItemSnapshot{}, err
	}
	return s, nil
}
