package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/larder-dev/larder/internal/model"
)

func TestStockBadge(t *testing.T) {
	tests := []struct {
		name string
		item model.Item
		want Badge
	}{
		{
			name: "stocked",
			item: model.Item{CurrentQuantity: 5, MinimumQuantity: 3},
			want: Badge{Urgency: model.UrgencyOK, Text: "in stock"},
		},
		{
			name: "low",
			item: model.Item{CurrentQuantity: 1, MinimumQuantity: 3},
			want: Badge{Urgency: model.UrgencyAttention, Text: "running low"},
		},
		{
			name: "empty",
			item: model.Item{CurrentQuantity: 0, MinimumQuantity: 3},
			want: Badge{Urgency: model.UrgencyCritical, Text: "out of stock"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StockBadge(tt.item))
		})
	}
}

func TestPredictionBadge(t *testing.T) {
	stocked := model.Item{CurrentQuantity: 5, MinimumQuantity: 3}

	tests := []struct {
		name       string
		item       model.Item
		prediction model.Prediction
		want       Badge
	}{
		{
			name:       "learning wins over everything",
			item:       stocked,
			prediction: model.Prediction{NeedsTracking: true, DaysRemaining: 2, Urgency: model.UrgencyCritical},
			want:       Badge{Urgency: model.UrgencyLearning, Text: "learning usage"},
		},
		{
			name:       "empty stock stays critical regardless of forecast",
			item:       model.Item{CurrentQuantity: 0, MinimumQuantity: 3},
			prediction: model.Prediction{DaysRemaining: 10, Urgency: model.UrgencyOK},
			want:       Badge{Urgency: model.UrgencyCritical, Text: "out of stock"},
		},
		{
			name:       "unbounded forecast keeps the stock badge",
			item:       stocked,
			prediction: model.Prediction{DaysRemaining: 999, Urgency: model.UrgencyOK},
			want:       Badge{Urgency: model.UrgencyOK, Text: "in stock"},
		},
		{
			name:       "day count rendered",
			item:       stocked,
			prediction: model.Prediction{DaysRemaining: 6.4, Urgency: model.UrgencyAttention},
			want:       Badge{Urgency: model.UrgencyAttention, Text: "~6 days left"},
		},
		{
			name:       "forecast says already out",
			item:       stocked,
			prediction: model.Prediction{DaysRemaining: 0, Urgency: model.UrgencyCritical},
			want:       Badge{Urgency: model.UrgencyCritical, Text: "out of stock"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PredictionBadge(tt.item, tt.prediction))
		})
	}
}
