package components

import (
	"fmt"
	"strings"

	"github.com/larder-dev/larder/internal/model"
	"github.com/larder-dev/larder/internal/tui/themes"
	"github.com/larder-dev/larder/internal/viewmodel"
)

// ShoppingPanelModel renders the server-computed shopping list. Entries
// are read-only; the panel never mutates them.
type ShoppingPanelModel struct {
	theme   themes.Theme
	entries []model.ShoppingListEntry
	width   int
	height  int
}

// NewShoppingPanelModel creates an empty shopping panel.
func NewShoppingPanelModel(theme themes.Theme) ShoppingPanelModel {
	return ShoppingPanelModel{theme: theme}
}

// SetTheme swaps the display theme.
func (m *ShoppingPanelModel) SetTheme(theme themes.Theme) {
	m.theme = theme
}

// SetEntries replaces the displayed list.
func (m *ShoppingPanelModel) SetEntries(entries []model.ShoppingListEntry) {
	m.entries = entries
}

// Resize adjusts the panel's drawing area.
func (m *ShoppingPanelModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the list, most urgent entries first as the server orders
// them.
func (m ShoppingPanelModel) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Shopping List"))
	b.WriteString("\n")

	needed := 0
	for _, entry := range m.entries {
		if entry.Needed <= 0 {
			continue
		}
		needed++

		marker := "•"
		style := m.theme.Normal
		switch entry.Urgency {
		case model.UrgencyCritical:
			marker = "🔴"
			style = m.theme.StatusError
		case model.UrgencyAttention:
			marker = "🟡"
			style = m.theme.StatusWarning
		}

		line := fmt.Sprintf("%s %s: %s %s",
			marker, entry.Name, viewmodel.FormatQuantity(entry.Needed), entry.Unit)

		if entry.DaysRemaining != nil && *entry.DaysRemaining < model.UnboundedDays {
			line += m.theme.Subtitle.Render(
				fmt.Sprintf("  (~%s days)", viewmodel.FormatQuantity(*entry.DaysRemaining)))
		}

		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if needed == 0 {
		b.WriteString(m.theme.StatusSuccess.Render("Nothing to buy. Everything is stocked!"))
		b.WriteString("\n")
	}

	return b.String()
}
