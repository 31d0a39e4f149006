package model

// UnboundedDays is the sentinel the backend returns when it cannot put a
// bound on days remaining. Anything at or above it means "unknown".
const UnboundedDays = 999

// Urgency is the three-way stock classification, plus the learning state
// a prediction reports while it still lacks usage data.
type Urgency string

const (
	// UrgencyOK means stock is at or above the minimum.
	UrgencyOK Urgency = "ok"
	// UrgencyAttention means stock is below the minimum but not out.
	UrgencyAttention Urgency = "attention"
	// UrgencyCritical means stock is exhausted.
	UrgencyCritical Urgency = "critical"
	// UrgencyLearning means the prediction has too little data to judge.
	UrgencyLearning Urgency = "learning"
)

// Prediction is the backend's purchase forecast for one item. It is
// ephemeral on the client: fetched per render pass, never stored.
type Prediction struct {
	ItemName      string  `json:"item_name"`
	PurchaseBy    string  `json:"purchase_by"`
	Urgency       Urgency `json:"urgency"`
	DaysRemaining float64 `json:"days_remaining"`
	Confidence    float64 `json:"confidence"`
	BufferDays    int     `json:"buffer_days"`
	ItemID        int     `json:"item_id"`
	NeedsTracking bool    `json:"needs_tracking"`
}

// Unbounded reports whether the forecast carries no usable day count.
func (p Prediction) Unbounded() bool {
	return p.DaysRemaining >= UnboundedDays
}
