package viewmodel

import "github.com/larder-dev/larder/internal/model"

// Stats are the aggregate stock-health counters shown above the grid.
// They are always computed over the full unfiltered item set, so the
// numbers describe the whole pantry no matter which chip is active.
type Stats struct {
	OK        int
	Attention int
	Critical  int
}

// Total returns the number of items counted.
func (s Stats) Total() int {
	return s.OK + s.Attention + s.Critical
}

// AggregateStats counts items per urgency class.
func AggregateStats(items []model.Item) Stats {
	var stats Stats
	for _, item := range items {
		switch Classify(item) {
		case model.UrgencyCritical:
			stats.Critical++
		case model.UrgencyAttention:
			stats.Attention++
		default:
			stats.OK++
		}
	}
	return stats
}
