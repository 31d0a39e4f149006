package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/larder-dev/larder/internal/model"
	"github.com/larder-dev/larder/internal/tui/themes"
)

// defaultIcons is the curated picker set; recently used icons are shown
// ahead of it.
var defaultIcons = []string{
	"🍎", "🥛", "🍞", "🧀", "🥚", "🍚", "🫘", "☕",
	"🧂", "🫒", "🍝", "🥫", "🧼", "🧻", "🧴", "🪥",
	"🍖", "🐟", "🥦", "🍌", "🍫", "🍪", "🧃", "🍷",
}

// defaultColors cycles through the palette offered for new categories.
var defaultColors = []string{
	"#ef4444", "#f59e0b", "#10b981", "#3b82f6", "#8b5cf6", "#ec4899",
}

// CategoryFormSubmittedMsg carries a completed category form.
type CategoryFormSubmittedMsg struct {
	Draft model.CategoryDraft
}

// CategoryFormCancelledMsg is emitted when the user backs out.
type CategoryFormCancelledMsg struct{}

// IconPickedMsg reports the chosen icon so it can be recorded as
// recently used.
type IconPickedMsg struct {
	Icon string
}

// CategoryFormModel is the new-category form with its icon picker.
type CategoryFormModel struct {
	theme       themes.Theme
	errText     string
	icons       []string
	nameInput   textinput.Model
	iconCursor  int
	colorIndex  int
	pickingIcon bool
	saving      bool
}

// NewCategoryFormModel creates a category form. recentIcons are shown
// first in the picker; duplicates with the default set are dropped.
func NewCategoryFormModel(theme themes.Theme, recentIcons []string) CategoryFormModel {
	name := textinput.New()
	name.Placeholder = "Category name"
	name.CharLimit = 60
	name.Focus()

	return CategoryFormModel{
		theme:     theme,
		icons:     mergeIcons(recentIcons, defaultIcons),
		nameInput: name,
	}
}

// mergeIcons prepends recents to the defaults, deduplicating.
func mergeIcons(recents, defaults []string) []string {
	seen := make(map[string]bool, len(recents)+len(defaults))
	merged := make([]string, 0, len(recents)+len(defaults))
	for _, icon := range append(append([]string{}, recents...), defaults...) {
		if icon == "" || seen[icon] {
			continue
		}
		seen[icon] = true
		merged = append(merged, icon)
	}
	return merged
}

// SetError shows a server rejection inline, verbatim.
func (m *CategoryFormModel) SetError(text string) {
	m.errText = text
	m.saving = false
}

// Update handles form input.
func (m CategoryFormModel) Update(msg tea.Msg) (CategoryFormModel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		if !m.pickingIcon {
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if m.saving {
		return m, nil
	}

	if m.pickingIcon {
		return m.updatePicker(keyMsg)
	}

	switch keyMsg.String() {
	case "esc":
		return m, func() tea.Msg { return CategoryFormCancelledMsg{} }
	case "tab":
		m.pickingIcon = true
		m.nameInput.Blur()
		return m, nil
	case "ctrl+o":
		m.colorIndex = (m.colorIndex + 1) % len(defaultColors)
		return m, nil
	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// updatePicker handles navigation inside the icon grid.
func (m CategoryFormModel) updatePicker(msg tea.KeyMsg) (CategoryFormModel, tea.Cmd) {
	const columns = 8

	switch msg.String() {
	case "esc", "tab":
		m.pickingIcon = false
		m.nameInput.Focus()
	case "left", "h":
		if m.iconCursor > 0 {
			m.iconCursor--
		}
	case "right", "l":
		if m.iconCursor < len(m.icons)-1 {
			m.iconCursor++
		}
	case "up", "k":
		if m.iconCursor >= columns {
			m.iconCursor -= columns
		}
	case "down", "j":
		if m.iconCursor+columns < len(m.icons) {
			m.iconCursor += columns
		}
	case "enter":
		m.pickingIcon = false
		m.nameInput.Focus()
	}

	return m, nil
}

// submit builds the draft and emits it together with the icon-picked
// notice.
func (m CategoryFormModel) submit() (CategoryFormModel, tea.Cmd) {
	name := strings.TrimSpace(m.nameInput.Value())
	if name == "" {
		m.errText = "name is required"
		return m, nil
	}

	draft := model.CategoryDraft{
		Name:  name,
		Icon:  m.icons[m.iconCursor],
		Color: defaultColors[m.colorIndex],
	}

	m.errText = ""
	m.saving = true
	return m, tea.Batch(
		func() tea.Msg { return IconPickedMsg{Icon: draft.Icon} },
		func() tea.Msg { return CategoryFormSubmittedMsg{Draft: draft} },
	)
}

// View renders the form and the icon grid.
func (m CategoryFormModel) View() string {
	const columns = 8

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("New Category"))
	b.WriteString("\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf(
		"icon: %s   color: %s (ctrl+o)", m.icons[m.iconCursor], defaultColors[m.colorIndex])))
	b.WriteString("\n")

	for i, icon := range m.icons {
		if i > 0 && i%columns == 0 {
			b.WriteString("\n")
		}
		cell := " " + icon + " "
		if i == m.iconCursor && m.pickingIcon {
			b.WriteString(m.theme.Selected.Render(cell))
		} else if i == m.iconCursor {
			b.WriteString(m.theme.Highlighted.Render(cell))
		} else {
			b.WriteString(cell)
		}
	}
	b.WriteString("\n\n")

	if m.saving {
		b.WriteString(m.theme.StatusPending.Render("saving..."))
	} else if m.errText != "" {
		b.WriteString(m.theme.StatusError.Render(m.errText))
	} else {
		b.WriteString(m.theme.Subtitle.Render("tab to pick an icon, enter to save, esc to cancel"))
	}

	return b.String()
}
