// Package model defines the wire types shared between the tracker backend
// and the client.
package model

import "time"

// Difficulty encodes how hard an item is to restock.
// The backend stores it as an ordinal integer.
type Difficulty int

const (
	// DifficultyEasy marks items available at any corner store.
	DifficultyEasy Difficulty = 0
	// DifficultyMedium marks items that need a dedicated trip.
	DifficultyMedium Difficulty = 5
	// DifficultyHard marks items that are genuinely hard to source.
	DifficultyHard Difficulty = 10
)

// Label returns a human-readable name for the difficulty level.
func (d Difficulty) Label() string {
	switch {
	case d >= DifficultyHard:
		return "hard"
	case d >= DifficultyMedium:
		return "medium"
	default:
		return "easy"
	}
}

// UsagePeriod is the cadence a usage rate is expressed in.
type UsagePeriod string

const (
	// UsageDaily means usage_rate is consumed per day.
	UsageDaily UsagePeriod = "daily"
	// UsageWeekly means usage_rate is consumed per week.
	UsageWeekly UsagePeriod = "weekly"
	// UsageMonthly means usage_rate is consumed per month.
	UsageMonthly UsagePeriod = "monthly"
)

// Item is a tracked inventory item as served by the backend.
type Item struct {
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Category        *Category   `json:"category,omitempty"`
	CategoryID      *int        `json:"category_id"`
	UsageRate       *float64    `json:"usage_rate,omitempty"`
	Name            string      `json:"name"`
	Unit            string      `json:"unit"`
	Notes           string      `json:"notes,omitempty"`
	Barcode         string      `json:"barcode,omitempty"`
	UsagePeriod     UsagePeriod `json:"usage_period"`
	CurrentQuantity float64     `json:"current_quantity"`
	MinimumQuantity float64     `json:"minimum_quantity"`
	ID              int         `json:"id"`
	Difficulty      Difficulty  `json:"acquisition_difficulty"`
}

// ItemDraft is the payload for creating or fully updating an item.
type ItemDraft struct {
	CategoryID      *int        `json:"category_id,omitempty"`
	UsageRate       *float64    `json:"usage_rate,omitempty"`
	Name            string      `json:"name" validate:"required,min=1,max=120"`
	Unit            string      `json:"unit" validate:"required,min=1,max=20"`
	Notes           string      `json:"notes,omitempty" validate:"max=500"`
	Barcode         string      `json:"barcode,omitempty"`
	UsagePeriod     UsagePeriod `json:"usage_period,omitempty" validate:"omitempty,oneof=daily weekly monthly"`
	CurrentQuantity float64     `json:"current_quantity" validate:"gte=0"`
	MinimumQuantity float64     `json:"minimum_quantity" validate:"gte=0"`
	Difficulty      Difficulty  `json:"acquisition_difficulty" validate:"oneof=0 5 10"`
}

// QuantityPatch is the partial update sent for a quantity step.
// Only the quantity travels; everything else on the item is untouched.
type QuantityPatch struct {
	CurrentQuantity float64 `json:"current_quantity"`
}
