package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/larder-dev/larder/internal/tui/themes"
)

// SettingPickedMsg is emitted when a settings row cycles to a new value.
type SettingPickedMsg struct {
	Key   string
	Value string
}

// SettingsClosedMsg is emitted when the settings overlay is dismissed.
type SettingsClosedMsg struct{}

// settingRow is one cyclable preference line.
type settingRow struct {
	key     string
	label   string
	options []string
	index   int
}

// SettingsPanelModel renders the preference toggles. Every change is
// emitted immediately; there is no save step.
type SettingsPanelModel struct {
	theme  themes.Theme
	rows   []settingRow
	cursor int
}

// NewSettingsPanelModel creates the settings overlay seeded with the
// current preference values.
func NewSettingsPanelModel(theme themes.Theme, currentTheme, language string, lowStock, reminders bool) SettingsPanelModel {
	rows := []settingRow{
		{key: "theme", label: "Theme", options: []string{"auto", "dark", "light"}},
		{key: "language", label: "Language", options: []string{"pt", "en"}},
		{key: "notify_low_stock", label: "Low-stock alerts", options: []string{"true", "false"}},
		{key: "notify_reminders", label: "Reminders", options: []string{"true", "false"}},
	}
	selectOption(&rows[0], currentTheme)
	selectOption(&rows[1], language)
	selectOption(&rows[2], fmt.Sprintf("%t", lowStock))
	selectOption(&rows[3], fmt.Sprintf("%t", reminders))

	return SettingsPanelModel{theme: theme, rows: rows}
}

func selectOption(row *settingRow, value string) {
	for i, option := range row.options {
		if option == value {
			row.index = i
			return
		}
	}
}

// SetTheme swaps the display theme after a live theme change.
func (m *SettingsPanelModel) SetTheme(theme themes.Theme) {
	m.theme = theme
}

// Update handles navigation and value cycling.
func (m SettingsPanelModel) Update(msg tea.Msg) (SettingsPanelModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return SettingsClosedMsg{} }
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "enter", " ", "right", "l":
		return m.cycle(1)
	case "left", "h":
		return m.cycle(-1)
	}

	return m, nil
}

// cycle steps the focused row and emits the new value.
func (m SettingsPanelModel) cycle(step int) (SettingsPanelModel, tea.Cmd) {
	row := &m.rows[m.cursor]
	row.index = (row.index + step + len(row.options)) % len(row.options)

	key := row.key
	value := row.options[row.index]
	return m, func() tea.Msg { return SettingPickedMsg{Key: key, Value: value} }
}

// Value returns the displayed value for a settings key.
func (m SettingsPanelModel) Value(key string) string {
	for _, row := range m.rows {
		if row.key == key {
			return row.options[row.index]
		}
	}
	return ""
}

// View renders the settings rows.
func (m SettingsPanelModel) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Settings"))
	b.WriteString("\n\n")

	for i, row := range m.rows {
		label := fmt.Sprintf("%-18s", row.label)
		value := displayValue(row.options[row.index])

		line := label + m.theme.Bold.Render(value)
		if i == m.cursor {
			line = m.theme.Selected.Render("> " + line)
		} else {
			line = m.theme.Normal.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("enter to change, esc to close"))
	return b.String()
}

func displayValue(value string) string {
	switch value {
	case "true":
		return "on"
	case "false":
		return "off"
	}
	return value
}
