package components

import (
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larder-dev/larder/internal/model"
	"github.com/larder-dev/larder/internal/tui/themes"
)

func TestTruncateNameKeepsRunesIntact(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "short name untouched", input: "Arroz", want: "Arroz"},
		{name: "accented name cut on rune boundary", input: "Feijão preto orgânico premium", want: "Feijão preto orgânico..."},
		{name: "exactly at the limit", input: strings.Repeat("a", 24), want: strings.Repeat("a", 24)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateName(tt.input, 24)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestItemGridRendersAccentedNames(t *testing.T) {
	grid := NewItemGridModel(themes.Dark)
	grid.SetItems([]model.Item{
		{ID: 1, Name: "Feijão preto orgânico premium", Unit: "kg", CurrentQuantity: 2, MinimumQuantity: 1},
	})

	view := grid.View()
	assert.True(t, utf8.ValidString(view))
	assert.Contains(t, view, "Feijão preto orgânico...")
}

func TestItemFormPrefillSelectsSuggestedCategory(t *testing.T) {
	categories := []model.Category{
		{ID: 10, Name: "Grãos", Icon: "🌾"},
		{ID: 11, Name: "Laticínios", Icon: "🥛"},
	}
	form := NewItemFormModel(themes.Dark, categories)

	id := 11
	form.Prefill(model.ItemDraft{Name: "Leite", Unit: "l", Barcode: "7891000100103", CategoryID: &id})

	assert.Contains(t, form.View(), "Laticínios")

	form.inputs[fieldCurrent].SetValue("1")
	form.inputs[fieldMinimum].SetValue("1")
	_, cmd := form.submit()
	require.NotNil(t, cmd)

	submitted, ok := cmd().(ItemFormSubmittedMsg)
	require.True(t, ok)
	require.NotNil(t, submitted.Draft.CategoryID)
	assert.Equal(t, 11, *submitted.Draft.CategoryID)
	assert.Equal(t, "7891000100103", submitted.Draft.Barcode)
}

func TestItemFormEditPreservesBarcode(t *testing.T) {
	item := model.Item{ID: 3, Name: "Leite", Unit: "l", Barcode: "7891000100103", CurrentQuantity: 2, MinimumQuantity: 1}
	form := NewItemFormModelForEdit(themes.Dark, nil, item)

	_, cmd := form.submit()
	require.NotNil(t, cmd)

	submitted := cmd().(ItemFormSubmittedMsg)
	assert.Equal(t, "7891000100103", submitted.Draft.Barcode)
}

func TestCategoryFormIgnoresKeysWhileSaving(t *testing.T) {
	form := NewCategoryFormModel(themes.Dark, nil)
	form.nameInput.SetValue("Grãos")
	form.saving = true

	form, cmd := form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd)
	assert.Equal(t, "Grãos", form.nameInput.Value())

	form, cmd = form.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd, "esc must not cancel a save in flight")
	assert.Equal(t, "Grãos", form.nameInput.Value())
}
