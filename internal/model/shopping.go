package model

// ShoppingListEntry is a computed line of the shopping list. The backend
// derives it from stock levels; the client never mutates entries, it only
// refetches the whole list.
type ShoppingListEntry struct {
	DaysRemaining   *float64   `json:"days_remaining,omitempty"`
	Name            string     `json:"name"`
	Unit            string     `json:"unit"`
	Urgency         Urgency    `json:"urgency"`
	PurchaseBy      string     `json:"purchase_by,omitempty"`
	Needed          float64    `json:"needed"`
	CurrentQuantity float64    `json:"current_quantity"`
	MinimumQuantity float64    `json:"minimum_quantity"`
	ID              int        `json:"id"`
	Difficulty      Difficulty `json:"acquisition_difficulty"`
}
