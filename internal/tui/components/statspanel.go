package components

import (
	"fmt"
	"strings"

	"github.com/larder-dev/larder/internal/tui/themes"
	"github.com/larder-dev/larder/internal/viewmodel"
)

// StatsPanelModel renders the aggregate stock-health counters. The
// numbers always describe the whole pantry, never the filtered slice.
type StatsPanelModel struct {
	theme themes.Theme
	stats viewmodel.Stats
	width int
}

// NewStatsPanelModel creates an empty stats panel.
func NewStatsPanelModel(theme themes.Theme) StatsPanelModel {
	return StatsPanelModel{theme: theme}
}

// SetTheme swaps the display theme.
func (m *StatsPanelModel) SetTheme(theme themes.Theme) {
	m.theme = theme
}

// SetStats replaces the displayed counters.
func (m *StatsPanelModel) SetStats(stats viewmodel.Stats) {
	m.stats = stats
}

// Resize adjusts the panel width.
func (m *StatsPanelModel) Resize(width int) {
	m.width = width
}

// View renders the counter row.
func (m StatsPanelModel) View() string {
	parts := []string{
		m.theme.Bold.Render(fmt.Sprintf("%d items", m.stats.Total())),
		m.theme.StatusSuccess.Render(fmt.Sprintf("%d ok", m.stats.OK)),
		m.theme.StatusWarning.Render(fmt.Sprintf("%d low", m.stats.Attention)),
		m.theme.StatusError.Render(fmt.Sprintf("%d out", m.stats.Critical)),
	}

	return strings.Join(parts, m.theme.Normal.Render("  ·  "))
}
