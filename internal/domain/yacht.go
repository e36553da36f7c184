package domain

import (
	"time"

	"github.com/google/uuid"
)

// Yacht is one candidate chartered-vessel proposal within a trip.
//
// Price, CharterPack, and Extras are independent EUR cost components. They
// are coerced to non-negative numbers at every write; missing or unparseable
// input becomes 0, never an error. Per-head figures are derived, never stored.
type Yacht struct {
	ID          uuid.UUID `json:"id"`
	TripID      uuid.UUID `json:"trip_id"`
	Name        string    `json:"name"`
	Link        string    `json:"link,omitempty"`
	DetailsLink string    `json:"details_link,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Price       float64   `json:"price"`
	CharterPack float64   `json:"charter_pack"`
	Extras      float64   `json:"extras"`
	Marina      string    `json:"marina,omitempty"`

	// MaxGuests is the sleeping capacity. 0 means unknown, in which case the
	// capacity check is skipped entirely.
	MaxGuests int `json:"max_guests"`

	Recommended bool      `json:"recommended"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// YachtSuggestion holds field values proposed by the enrichment scraper.
// Zero values mean "nothing found" and must never overwrite user input.
type YachtSuggestion struct {
	Name        string  `json:"name,omitempty"`
	Link        string  `json:"link,omitempty"`
	DetailsLink string  `json:"details_link,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Price       float64 `json:"price,omitempty"`
	CharterPack float64 `json:"charter_pack,omitempty"`
	Marina      string  `json:"marina,omitempty"`
	MaxGuests   int     `json:"max_guests,omitempty"`
}
