package viewmodel

import (
	"strings"

	"github.com/larder-dev/larder/internal/model"
)

// MatchCategory resolves a suggested category name against the known
// categories, case-insensitively. The backend suggests by name only; the
// client owns the mapping to an ID.
func MatchCategory(categories []model.Category, name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	for _, cat := range categories {
		if strings.EqualFold(cat.Name, name) {
			return cat.ID, true
		}
	}
	return 0, false
}
