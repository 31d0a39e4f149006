package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/larder-dev/larder/internal/model"
	"github.com/larder-dev/larder/internal/tui/themes"
)

// Form field indices.
const (
	fieldName = iota
	fieldUnit
	fieldCurrent
	fieldMinimum
	fieldUsageRate
	fieldNotes
	fieldCount
)

// ItemFormSubmittedMsg carries a completed form. ID is nil for a new
// item.
type ItemFormSubmittedMsg struct {
	ID    *int
	Draft model.ItemDraft
}

// ItemFormCancelledMsg is emitted when the user backs out of the form.
type ItemFormCancelledMsg struct{}

// ItemFormModel is the add/edit item form. The form blocks until the
// remote save resolves; there is no optimistic path here.
type ItemFormModel struct {
	editID      *int
	theme       themes.Theme
	errText     string
	barcode     string
	inputs      []textinput.Model
	categories  []model.Category
	difficulty  model.Difficulty
	usagePeriod model.UsagePeriod
	focus       int
	catIndex    int
	saving      bool
}

// NewItemFormModel creates a blank form for adding an item.
func NewItemFormModel(theme themes.Theme, categories []model.Category) ItemFormModel {
	m := ItemFormModel{
		theme:       theme,
		categories:  categories,
		usagePeriod: model.UsageWeekly,
		catIndex:    -1,
	}

	labels := []string{"Name", "Unit", "Current quantity", "Minimum quantity", "Usage rate", "Notes"}
	m.inputs = make([]textinput.Model, fieldCount)
	for i := range m.inputs {
		input := textinput.New()
		input.Placeholder = labels[i]
		input.CharLimit = 120
		m.inputs[i] = input
	}
	m.inputs[fieldName].Focus()

	return m
}

// NewItemFormModelForEdit pre-fills the form from an existing item.
func NewItemFormModelForEdit(theme themes.Theme, categories []model.Category, item model.Item) ItemFormModel {
	m := NewItemFormModel(theme, categories)
	id := item.ID
	m.editID = &id
	m.barcode = item.Barcode
	m.difficulty = item.Difficulty
	if item.UsagePeriod != "" {
		m.usagePeriod = item.UsagePeriod
	}

	m.inputs[fieldName].SetValue(item.Name)
	m.inputs[fieldUnit].SetValue(item.Unit)
	m.inputs[fieldCurrent].SetValue(strconv.FormatFloat(item.CurrentQuantity, 'f', -1, 64))
	m.inputs[fieldMinimum].SetValue(strconv.FormatFloat(item.MinimumQuantity, 'f', -1, 64))
	if item.UsageRate != nil {
		m.inputs[fieldUsageRate].SetValue(strconv.FormatFloat(*item.UsageRate, 'f', -1, 64))
	}
	m.inputs[fieldNotes].SetValue(item.Notes)

	if item.CategoryID != nil {
		for i, cat := range categories {
			if cat.ID == *item.CategoryID {
				m.catIndex = i
				break
			}
		}
	}

	return m
}

// Prefill seeds the form from a barcode suggestion without marking it as
// an edit.
func (m *ItemFormModel) Prefill(draft model.ItemDraft) {
	if draft.Name != "" {
		m.inputs[fieldName].SetValue(draft.Name)
	}
	if draft.Unit != "" {
		m.inputs[fieldUnit].SetValue(draft.Unit)
	}
	m.barcode = draft.Barcode

	if draft.CategoryID != nil {
		for i, cat := range m.categories {
			if cat.ID == *draft.CategoryID {
				m.catIndex = i
				break
			}
		}
	}
}

// SetError shows a validation or server error inline.
func (m *ItemFormModel) SetError(text string) {
	m.errText = text
	m.saving = false
}

// SetSaving marks the form as blocked on the remote call.
func (m *ItemFormModel) SetSaving(saving bool) {
	m.saving = saving
}

// Update handles form input.
func (m ItemFormModel) Update(msg tea.Msg) (ItemFormModel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey && !m.saving {
		switch keyMsg.String() {
		case "esc":
			return m, func() tea.Msg { return ItemFormCancelledMsg{} }
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "ctrl+d":
			m.difficulty = nextDifficulty(m.difficulty)
			return m, nil
		case "ctrl+p":
			m.usagePeriod = nextPeriod(m.usagePeriod)
			return m, nil
		case "ctrl+g":
			m.cycleCategory()
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// submit parses the inputs into a draft and emits it.
func (m ItemFormModel) submit() (ItemFormModel, tea.Cmd) {
	current, err := parseQuantity(m.inputs[fieldCurrent].Value())
	if err != nil {
		m.errText = "current quantity must be a number"
		return m, nil
	}
	minimum, err := parseQuantity(m.inputs[fieldMinimum].Value())
	if err != nil {
		m.errText = "minimum quantity must be a number"
		return m, nil
	}

	draft := model.ItemDraft{
		Name:            strings.TrimSpace(m.inputs[fieldName].Value()),
		Unit:            strings.TrimSpace(m.inputs[fieldUnit].Value()),
		Notes:           strings.TrimSpace(m.inputs[fieldNotes].Value()),
		Barcode:         m.barcode,
		CurrentQuantity: current,
		MinimumQuantity: minimum,
		Difficulty:      m.difficulty,
		UsagePeriod:     m.usagePeriod,
	}

	if raw := strings.TrimSpace(m.inputs[fieldUsageRate].Value()); raw != "" {
		rate, rateErr := strconv.ParseFloat(raw, 64)
		if rateErr != nil || rate < 0 {
			m.errText = "usage rate must be a non-negative number"
			return m, nil
		}
		draft.UsageRate = &rate
	}

	if m.catIndex >= 0 && m.catIndex < len(m.categories) {
		id := m.categories[m.catIndex].ID
		draft.CategoryID = &id
	}

	if draft.Name == "" {
		m.errText = "name is required"
		return m, nil
	}
	if draft.Unit == "" {
		m.errText = "unit is required"
		return m, nil
	}

	m.errText = ""
	m.saving = true
	editID := m.editID
	return m, func() tea.Msg { return ItemFormSubmittedMsg{ID: editID, Draft: draft} }
}

// View renders the form.
func (m ItemFormModel) View() string {
	var b strings.Builder

	title := "Add Item"
	if m.editID != nil {
		title = "Edit Item"
	}
	b.WriteString(m.theme.Title.Render(title))
	b.WriteString("\n")

	labels := []string{"Name", "Unit", "Current", "Minimum", "Usage rate", "Notes"}
	for i, input := range m.inputs {
		label := fmt.Sprintf("%-12s", labels[i])
		if i == m.focus {
			b.WriteString(m.theme.Bold.Render(label))
		} else {
			b.WriteString(m.theme.Subtitle.Render(label))
		}
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	category := "none"
	if m.catIndex >= 0 && m.catIndex < len(m.categories) {
		cat := m.categories[m.catIndex]
		category = fmt.Sprintf("%s %s", cat.Icon, cat.Name)
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf(
		"category: %s (ctrl+g)   difficulty: %s (ctrl+d)   period: %s (ctrl+p)",
		category, m.difficulty.Label(), m.usagePeriod)))
	b.WriteString("\n")

	if m.saving {
		b.WriteString(m.theme.StatusPending.Render("saving..."))
	} else if m.errText != "" {
		b.WriteString(m.theme.StatusError.Render(m.errText))
	} else {
		b.WriteString(m.theme.Subtitle.Render("enter to save, esc to cancel"))
	}

	return b.String()
}

func (m *ItemFormModel) setFocus(index int) {
	m.inputs[m.focus].Blur()
	m.focus = index
	m.inputs[m.focus].Focus()
}

// cycleCategory walks none -> first -> ... -> last -> none.
func (m *ItemFormModel) cycleCategory() {
	m.catIndex++
	if m.catIndex >= len(m.categories) {
		m.catIndex = -1
	}
}

func nextDifficulty(d model.Difficulty) model.Difficulty {
	switch d {
	case model.DifficultyEasy:
		return model.DifficultyMedium
	case model.DifficultyMedium:
		return model.DifficultyHard
	default:
		return model.DifficultyEasy
	}
}

func nextPeriod(p model.UsagePeriod) model.UsagePeriod {
	switch p {
	case model.UsageDaily:
		return model.UsageWeekly
	case model.UsageWeekly:
		return model.UsageMonthly
	default:
		return model.UsageDaily
	}
}

// parseQuantity parses a required non-negative quantity field.
func parseQuantity(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid quantity %q", raw)
	}
	return value, nil
}
