package viewmodel

import (
	"fmt"
	"math"

	"github.com/larder-dev/larder/internal/model"
)

// Badge is the per-item status badge. Before a prediction arrives it is
// derived from stock levels alone; once one lands it may be upgraded with
// a day count or the learning state.
type Badge struct {
	Text    string
	Urgency model.Urgency
}

// StockBadge derives the badge from local state only, the form every item
// shows the moment the grid paints.
func StockBadge(item model.Item) Badge {
	urgency := Classify(item)
	switch urgency {
	case model.UrgencyCritical:
		return Badge{Urgency: urgency, Text: "out of stock"}
	case model.UrgencyAttention:
		return Badge{Urgency: urgency, Text: "running low"}
	default:
		return Badge{Urgency: urgency, Text: "in stock"}
	}
}

// PredictionBadge merges a fetched prediction into the item's badge.
// An unbounded forecast keeps the stock-derived badge; when both sources
// are present they agree on the ok/attention/critical ordering, so the
// server's urgency is safe to display.
func PredictionBadge(item model.Item, p model.Prediction) Badge {
	if p.NeedsTracking {
		return Badge{Urgency: model.UrgencyLearning, Text: "learning usage"}
	}

	if item.CurrentQuantity <= 0 {
		return Badge{Urgency: model.UrgencyCritical, Text: "out of stock"}
	}

	if p.Unbounded() {
		return StockBadge(item)
	}

	if p.DaysRemaining <= 0 {
		return Badge{Urgency: p.Urgency, Text: "out of stock"}
	}

	days := int(math.Round(p.DaysRemaining))
	return Badge{
		Urgency: p.Urgency,
		Text:    fmt.Sprintf("~%d days left", days),
	}
}
