package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/larder-dev/larder/internal/reconcile"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		if m.lastError != nil {
			return m.theme.StatusError.Render(
				fmt.Sprintf("could not load pantry: %v", m.lastError)) + "\n"
		}
		return m.theme.StatusPending.Render("loading pantry...") + "\n"
	}

	switch m.state {
	case StateItemForm:
		return m.frame(m.itemForm.View())
	case StateCategoryForm:
		return m.frame(m.categoryForm.View())
	case StateConfirmDelete:
		return m.frame(m.renderConfirmDelete())
	case StateShopping:
		return m.frame(m.shopping.View() + "\n" + m.theme.Subtitle.Render("esc to close, r to refresh"))
	case StateScanPrompt:
		return m.frame(m.renderScanPrompt())
	case StateSettings:
		return m.frame(m.settings.View())
	case StateHelp:
		return m.frame(m.renderHelp())
	default:
		return m.renderGrid()
	}
}

// renderGrid draws the main dashboard: title, stats, grid, footer.
func (m Model) renderGrid() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Larder"))
	b.WriteString("\n")
	b.WriteString(m.statsPanel.View())
	b.WriteString("\n\n")
	b.WriteString(m.grid.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderFooter shows the toast when one is live, key hints otherwise.
func (m Model) renderFooter() string {
	if m.toastText != "" {
		return m.toastStyle().Render(m.toastText)
	}

	hints := make([]string, 0, len(m.keymap.ShortHelp()))
	for _, binding := range m.keymap.ShortHelp() {
		hints = append(hints, fmt.Sprintf("%s %s", binding.Help().Key, binding.Help().Desc))
	}
	return m.theme.Subtitle.Render(strings.Join(hints, "  ·  "))
}

func (m Model) toastStyle() lipgloss.Style {
	switch m.toastLevel {
	case reconcile.LevelError:
		return m.theme.StatusError
	case reconcile.LevelWarning:
		return m.theme.StatusWarning
	case reconcile.LevelSuccess:
		return m.theme.StatusSuccess
	default:
		return m.theme.StatusInfo
	}
}

// renderConfirmDelete draws the delete confirmation prompt.
func (m Model) renderConfirmDelete() string {
	if m.deleteTarget == nil {
		return ""
	}

	return fmt.Sprintf("%s\n\n%s",
		m.theme.Bold.Render(fmt.Sprintf("Delete %s?", m.deleteTarget.Name)),
		m.theme.Subtitle.Render("y to delete, n to cancel"))
}

// renderScanPrompt draws the capture path prompt.
func (m Model) renderScanPrompt() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Scan Product"))
	b.WriteString("\n")
	b.WriteString(m.scanInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.Subtitle.Render("enter to identify, esc to cancel"))
	return b.String()
}

// renderHelp draws the full key reference.
func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Keys"))
	b.WriteString("\n")

	for _, group := range m.keymap.FullHelp() {
		for _, binding := range group {
			b.WriteString(fmt.Sprintf("%-14s %s\n",
				m.theme.Bold.Render(binding.Help().Key),
				binding.Help().Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.theme.Subtitle.Render("press any key to close"))
	return b.String()
}

// frame centers overlay content inside a rounded box.
func (m Model) frame(content string) string {
	box := m.theme.RoundedBox.Render(content)
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
