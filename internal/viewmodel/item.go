// Package viewmodel computes display values from client state. Everything
// here is a pure function: no network, no side effects, so the render
// layer can be driven from snapshots alone.
package viewmodel

import (
	"fmt"
	"math"
	"strings"

	"github.com/larder-dev/larder/internal/model"
)

// discreteUnits are the units stepped by whole counts. Anything else is
// treated as continuous and stepped by half a unit.
var discreteUnits = map[string]struct{}{
	"un":       {},
	"units":    {},
	"pacotes":  {},
	"packages": {},
	"l":        {},
	"liters":   {},
}

// Classify derives the stock urgency for an item. Empty stock is critical
// even when the minimum is zero.
func Classify(item model.Item) model.Urgency {
	switch {
	case item.CurrentQuantity <= 0:
		return model.UrgencyCritical
	case item.CurrentQuantity < item.MinimumQuantity:
		return model.UrgencyAttention
	default:
		return model.UrgencyOK
	}
}

// ProgressPercent returns how full the item's stock bar is, capped at 100.
// With a zero minimum there is no meaningful ratio: any stock at all is
// 100, none is 0.
func ProgressPercent(item model.Item) float64 {
	if item.MinimumQuantity <= 0 {
		if item.CurrentQuantity > 0 {
			return 100
		}
		return 0
	}

	percent := item.CurrentQuantity / item.MinimumQuantity * 100
	return math.Min(percent, 100)
}

// IncrementStep returns the quantity a single +/- press moves by for the
// given unit. Matching is case-insensitive.
func IncrementStep(unit string) float64 {
	if _, ok := discreteUnits[strings.ToLower(strings.TrimSpace(unit))]; ok {
		return 1
	}
	return 0.5
}

// FormatQuantity renders a quantity as an integer when it is one, and with
// a single decimal otherwise.
func FormatQuantity(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%d", int64(qty))
	}
	return fmt.Sprintf("%.1f", qty)
}

// CrossedBelowMinimum reports whether a quantity change crossed the
// minimum threshold from above. This is the edge the low-stock
// notification fires on: landing at or below the minimum counts, sitting
// below it already does not.
func CrossedBelowMinimum(previous, next, minimum float64) bool {
	return previous > minimum && next <= minimum
}
