package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/larder-dev/larder/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want model.Urgency
		item model.Item
	}{
		{
			name: "above minimum",
			item: model.Item{CurrentQuantity: 5, MinimumQuantity: 3},
			want: model.UrgencyOK,
		},
		{
			name: "exactly at minimum",
			item: model.Item{CurrentQuantity: 3, MinimumQuantity: 3},
			want: model.UrgencyOK,
		},
		{
			name: "below minimum",
			item: model.Item{CurrentQuantity: 2, MinimumQuantity: 3},
			want: model.UrgencyAttention,
		},
		{
			name: "just above zero",
			item: model.Item{CurrentQuantity: 0.1, MinimumQuantity: 3},
			want: model.UrgencyAttention,
		},
		{
			name: "empty stock",
			item: model.Item{CurrentQuantity: 0, MinimumQuantity: 3},
			want: model.UrgencyCritical,
		},
		{
			name: "empty stock with zero minimum is still critical",
			item: model.Item{CurrentQuantity: 0, MinimumQuantity: 0},
			want: model.UrgencyCritical,
		},
		{
			name: "stocked with zero minimum",
			item: model.Item{CurrentQuantity: 1, MinimumQuantity: 0},
			want: model.UrgencyOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.item))
		})
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name string
		item model.Item
		want float64
	}{
		{
			name: "partial stock",
			item: model.Item{CurrentQuantity: 2, MinimumQuantity: 5},
			want: 40,
		},
		{
			name: "capped at one hundred",
			item: model.Item{CurrentQuantity: 50, MinimumQuantity: 5},
			want: 100,
		},
		{
			name: "exactly full",
			item: model.Item{CurrentQuantity: 5, MinimumQuantity: 5},
			want: 100,
		},
		{
			name: "empty",
			item: model.Item{CurrentQuantity: 0, MinimumQuantity: 5},
			want: 0,
		},
		{
			name: "zero minimum with stock",
			item: model.Item{CurrentQuantity: 0.5, MinimumQuantity: 0},
			want: 100,
		},
		{
			name: "zero minimum without stock",
			item: model.Item{CurrentQuantity: 0, MinimumQuantity: 0},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressPercent(tt.item)
			assert.InDelta(t, tt.want, got, 0.0001)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestIncrementStep(t *testing.T) {
	tests := []struct {
		name string
		unit string
		want float64
	}{
		{name: "units", unit: "units", want: 1},
		{name: "un abbreviation", unit: "un", want: 1},
		{name: "packages", unit: "packages", want: 1},
		{name: "pacotes", unit: "pacotes", want: 1},
		{name: "liters", unit: "liters", want: 1},
		{name: "uppercase discrete", unit: "UNITS", want: 1},
		{name: "mixed case discrete", unit: "Pacotes", want: 1},
		{name: "kilograms", unit: "kg", want: 0.5},
		{name: "grams", unit: "g", want: 0.5},
		{name: "milliliters", unit: "ml", want: 0.5},
		{name: "unknown unit", unit: "bunches", want: 0.5},
		{name: "padded discrete", unit: " un ", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, IncrementStep(tt.unit), 0.0001)
		})
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		name string
		want string
		qty  float64
	}{
		{name: "whole number", qty: 3, want: "3"},
		{name: "zero", qty: 0, want: "0"},
		{name: "half", qty: 2.5, want: "2.5"},
		{name: "rounding to one decimal", qty: 1.25, want: "1.2"},
		{name: "large whole", qty: 1000, want: "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatQuantity(tt.qty))
		})
	}
}

func TestCrossedBelowMinimum(t *testing.T) {
	tests := []struct {
		name     string
		previous float64
		next     float64
		minimum  float64
		want     bool
	}{
		{name: "crossing onto the threshold", previous: 4, next: 3, minimum: 3, want: true},
		{name: "crossing past the threshold", previous: 4, next: 2, minimum: 3, want: true},
		{name: "already below, stepping down", previous: 3, next: 2, minimum: 3, want: false},
		{name: "further below", previous: 2, next: 1, minimum: 3, want: false},
		{name: "staying above", previous: 5, next: 4, minimum: 3, want: false},
		{name: "stepping up", previous: 2, next: 3, minimum: 3, want: false},
		{name: "big delta straight to zero", previous: 5, next: 0, minimum: 3, want: true},
		{name: "zero minimum crossing to empty", previous: 0.5, next: 0, minimum: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CrossedBelowMinimum(tt.previous, tt.next, tt.minimum))
		})
	}
}
