// Package components holds the composable pieces of the dashboard.
package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/larder-dev/larder/internal/model"
	"github.com/larder-dev/larder/internal/tui/themes"
	"github.com/larder-dev/larder/internal/viewmodel"
)

// ItemSelectedMsg is emitted when the user activates an item row.
type ItemSelectedMsg struct {
	ID int
}

// ItemGridModel renders the item list with its category filter chips.
type ItemGridModel struct {
	predictions map[int]model.Prediction
	theme       themes.Theme
	items       []model.Item
	categories  []model.Category
	filter      *int
	cursor      int
	width       int
	height      int
}

// NewItemGridModel creates an empty grid.
func NewItemGridModel(theme themes.Theme) ItemGridModel {
	return ItemGridModel{
		theme:       theme,
		predictions: make(map[int]model.Prediction),
	}
}

// SetTheme swaps the display theme.
func (m *ItemGridModel) SetTheme(theme themes.Theme) {
	m.theme = theme
}

// SetItems replaces the visible items, keeping the cursor in range.
func (m *ItemGridModel) SetItems(items []model.Item) {
	m.items = items
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// SetCategories replaces the filter chip row.
func (m *ItemGridModel) SetCategories(categories []model.Category) {
	m.categories = categories
}

// SetFilter marks the active category chip.
func (m *ItemGridModel) SetFilter(categoryID *int) {
	m.filter = categoryID
}

// SetPrediction upgrades one item's badge with a fetched forecast. A
// prediction for an item no longer on the grid is kept; the item may
// reappear on the next refresh.
func (m *ItemGridModel) SetPrediction(p model.Prediction) {
	m.predictions[p.ItemID] = p
}

// ClearPredictions drops all fetched forecasts, used on refresh.
func (m *ItemGridModel) ClearPredictions() {
	m.predictions = make(map[int]model.Prediction)
}

// Selected returns the item under the cursor.
func (m ItemGridModel) Selected() (model.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return model.Item{}, false
	}
	return m.items[m.cursor], true
}

// Resize adjusts the grid's drawing area.
func (m *ItemGridModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles navigation within the grid.
func (m ItemGridModel) Update(msg tea.Msg) (ItemGridModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		if len(m.items) > 0 {
			m.cursor = len(m.items) - 1
		}
	case "enter":
		if item, ok := m.Selected(); ok {
			return m, func() tea.Msg { return ItemSelectedMsg{ID: item.ID} }
		}
	}

	return m, nil
}

// View renders the chip row and the item rows.
func (m ItemGridModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderChips())
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(m.theme.StatusPending.Render("No items yet. Press 'a' to add one."))
		return b.String()
	}

	visible := m.height - 4
	if visible < 1 {
		visible = len(m.items)
	}

	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	for i := start; i < len(m.items) && i < start+visible; i++ {
		b.WriteString(m.renderRow(m.items[i], i == m.cursor))
		b.WriteString("\n")
	}

	return b.String()
}

// renderChips draws the category filter row. The active chip is
// highlighted; "All" is active when no filter is set.
func (m ItemGridModel) renderChips() string {
	chips := make([]string, 0, len(m.categories)+1)

	allStyle := m.theme.Highlighted
	if m.filter == nil {
		allStyle = m.theme.Selected
	}
	chips = append(chips, allStyle.Render(" All "))

	for _, cat := range m.categories {
		style := m.theme.Highlighted
		if m.filter != nil && *m.filter == cat.ID {
			style = m.theme.Selected
		}
		chips = append(chips, style.Render(fmt.Sprintf(" %s %s ", cat.Icon, cat.Name)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(chips, " "))
}

// renderRow draws one item with its icon, quantities, progress bar and
// status badge.
func (m ItemGridModel) renderRow(item model.Item, selected bool) string {
	icon := "📦"
	if item.Category != nil && item.Category.Icon != "" {
		icon = item.Category.Icon
	}

	name := truncateName(item.Name, 24)

	quantity := fmt.Sprintf("%s/%s %s",
		viewmodel.FormatQuantity(item.CurrentQuantity),
		viewmodel.FormatQuantity(item.MinimumQuantity),
		item.Unit)

	badge := viewmodel.StockBadge(item)
	if p, ok := m.predictions[item.ID]; ok {
		badge = viewmodel.PredictionBadge(item, p)
	}

	row := fmt.Sprintf("%s %-24s %10s %s %s",
		m.theme.CategoryIcon.Render(icon),
		name,
		quantity,
		m.renderBar(viewmodel.ProgressPercent(item)),
		m.badgeStyle(badge.Urgency).Render(badge.Text))

	if selected {
		return m.theme.Selected.Render("> ") + row
	}
	return "  " + row
}

// truncateName shortens a display name on rune boundaries so accented
// names never split mid-sequence.
func truncateName(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max-3]) + "..."
}

// renderBar draws a ten-cell progress bar.
func (m ItemGridModel) renderBar(percent float64) string {
	const cells = 10
	full := int(percent / 100 * cells)
	if full > cells {
		full = cells
	}

	return m.theme.ProgressFull.Render(strings.Repeat("█", full)) +
		m.theme.ProgressEmpty.Render(strings.Repeat("░", cells-full))
}

func (m ItemGridModel) badgeStyle(urgency model.Urgency) lipgloss.Style {
	switch urgency {
	case model.UrgencyCritical:
		return m.theme.StatusError
	case model.UrgencyAttention:
		return m.theme.StatusWarning
	case model.UrgencyLearning:
		return m.theme.StatusInfo
	default:
		return m.theme.StatusSuccess
	}
}
