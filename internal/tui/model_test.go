package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larder-dev/larder/internal/model"
	"github.com/larder-dev/larder/internal/reconcile"
	"github.com/larder-dev/larder/internal/state"
	"github.com/larder-dev/larder/internal/tui/components"
	"github.com/larder-dev/larder/internal/tui/themes"
)

// fakeGateway serves a fixed pantry and records quantity writes.
type fakeGateway struct {
	items      []model.Item
	categories []model.Category
	shopping   []model.ShoppingListEntry
	setCalls   []float64
}

func (f *fakeGateway) ListItems(context.Context) ([]model.Item, error) {
	return append([]model.Item{}, f.items...), nil
}

func (f *fakeGateway) ListCategories(context.Context) ([]model.Category, error) {
	return append([]model.Category{}, f.categories...), nil
}

func (f *fakeGateway) ShoppingList(context.Context) ([]model.ShoppingListEntry, error) {
	return append([]model.ShoppingListEntry{}, f.shopping...), nil
}

func (f *fakeGateway) CreateItem(_ context.Context, draft model.ItemDraft) (*model.Item, error) {
	item := model.Item{ID: len(f.items) + 1, Name: draft.Name, Unit: draft.Unit}
	f.items = append(f.items, item)
	return &item, nil
}

func (f *fakeGateway) UpdateItem(_ context.Context, id int, draft model.ItemDraft) (*model.Item, error) {
	return &model.Item{ID: id, Name: draft.Name, Unit: draft.Unit}, nil
}

func (f *fakeGateway) SetQuantity(_ context.Context, id int, quantity float64) (*model.Item, error) {
	f.setCalls = append(f.setCalls, quantity)
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].CurrentQuantity = quantity
			item := f.items[i]
			return &item, nil
		}
	}
	return &model.Item{ID: id, CurrentQuantity: quantity}, nil
}

func (f *fakeGateway) DeleteItem(_ context.Context, id int) error {
	kept := f.items[:0]
	for _, item := range f.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeGateway) CreateCategory(_ context.Context, draft model.CategoryDraft) (*model.Category, error) {
	cat := model.Category{ID: len(f.categories) + 1, Name: draft.Name, Icon: draft.Icon, Color: draft.Color}
	f.categories = append(f.categories, cat)
	return &cat, nil
}

func (f *fakeGateway) Profile(context.Context) (*model.UserProfile, error) {
	return &model.UserProfile{ID: 1, Username: "maria", Theme: "dark", Language: "pt"}, nil
}

func (f *fakeGateway) UpdateProfile(context.Context, model.ProfilePatch) (*model.UserProfile, error) {
	return &model.UserProfile{ID: 1, Username: "maria"}, nil
}

func newTestModel(t *testing.T) (Model, *fakeGateway) {
	t.Helper()

	gateway := &fakeGateway{
		items: []model.Item{
			{ID: 1, Name: "Arroz", Unit: "kg", CurrentQuantity: 5, MinimumQuantity: 2},
			{ID: 2, Name: "Leite", Unit: "l", CurrentQuantity: 1, MinimumQuantity: 3},
		},
		categories: []model.Category{
			{ID: 10, Name: "Grãos", Icon: "🌾", Color: "#aabbcc"},
		},
	}

	pipeline := reconcile.New(gateway, state.NewStore())
	m := newModel(Config{Pipeline: pipeline, Theme: themes.Dark})

	// Run the initial sync the way Init would.
	msg := m.syncState()()
	updated, _ := m.Update(msg)
	result, ok := updated.(Model)
	require.True(t, ok)
	return result, gateway
}

func keyMsg(s string) tea.KeyMsg {
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialSyncPopulatesGrid(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "Arroz")
	assert.Contains(t, view, "Leite")
	assert.Contains(t, view, "2 items")
}

func TestIncrementStepsBySelectedItemUnit(t *testing.T) {
	m, gateway := newTestModel(t)

	updated, cmd := m.Update(keyMsg("+"))
	m = updated.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	adjusted, ok := msg.(quantityAdjustedMsg)
	require.True(t, ok)
	assert.NoError(t, adjusted.err)
	assert.Equal(t, reconcile.StateCommitted, adjusted.state)

	// Arroz is measured in kg, a continuous unit, so a step is 0.5.
	require.Len(t, gateway.setCalls, 1)
	assert.InDelta(t, 5.5, gateway.setCalls[0], 0.001)
}

func TestAddItemOpensForm(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(keyMsg("a"))
	m = updated.(Model)

	assert.Equal(t, StateItemForm, m.state)
	assert.Contains(t, m.View(), "Add Item")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, gateway := newTestModel(t)

	updated, _ := m.Update(keyMsg("d"))
	m = updated.(Model)
	assert.Equal(t, StateConfirmDelete, m.state)
	assert.Contains(t, m.View(), "Delete Arroz?")

	// Backing out leaves the pantry untouched.
	updated, _ = m.Update(keyMsg("n"))
	m = updated.(Model)
	assert.Equal(t, StateGrid, m.state)
	assert.Len(t, gateway.items, 2)
}

func TestFilterCyclesThroughCategories(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(keyMsg("tab"))
	m = updated.(Model)

	filter := m.pipeline.Store().Filter()
	require.NotNil(t, filter)
	assert.Equal(t, 10, *filter)

	updated, _ = m.Update(keyMsg("tab"))
	m = updated.(Model)
	assert.Nil(t, m.pipeline.Store().Filter(), "cycling past the last chip returns to All")
}

func TestToastLifecycle(t *testing.T) {
	m, _ := newTestModel(t)

	updated, cmd := m.Update(toastMsg{level: reconcile.LevelWarning, text: "Leite is running low"})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Leite is running low")

	updated, _ = m.Update(clearToastMsg{id: m.toastID})
	m = updated.(Model)
	assert.NotContains(t, m.View(), "Leite is running low")
}

func TestStaleToastClearIsIgnored(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(toastMsg{level: reconcile.LevelInfo, text: "first"})
	m = updated.(Model)
	updated, _ = m.Update(toastMsg{level: reconcile.LevelInfo, text: "second"})
	m = updated.(Model)

	updated, _ = m.Update(clearToastMsg{id: m.toastID - 1})
	m = updated.(Model)
	assert.Contains(t, m.View(), "second", "an expired timer for an older toast must not clear the newer one")
}

func TestShoppingOverlay(t *testing.T) {
	m, gateway := newTestModel(t)
	gateway.shopping = []model.ShoppingListEntry{
		{ID: 2, Name: "Leite", Needed: 2, Unit: "l", Urgency: model.UrgencyAttention},
	}

	updated, cmd := m.Update(keyMsg("s"))
	m = updated.(Model)
	require.NotNil(t, cmd)

	updated, _ = m.Update(cmd())
	m = updated.(Model)

	assert.Equal(t, StateShopping, m.state)
	view := m.View()
	assert.Contains(t, view, "Shopping List")
	assert.Contains(t, view, "Leite")
}

// fakePredictor serves a fixed forecast and records which items were
// asked about.
type fakePredictor struct {
	mu    sync.Mutex
	calls []int
}

func (f *fakePredictor) Prediction(_ context.Context, itemID int) (*model.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, itemID)
	return &model.Prediction{ItemID: itemID, NeedsTracking: true, DaysRemaining: 4, Urgency: model.UrgencyAttention}, nil
}

func (f *fakePredictor) asked() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int{}, f.calls...)
}

func TestPredictionsFetchAutomaticallyAfterSync(t *testing.T) {
	m, _ := newTestModel(t)
	predictor := &fakePredictor{}
	m.predictor = predictor

	updated, cmd := m.Update(m.syncState()())
	m = updated.(Model)
	require.NotNil(t, cmd, "a successful sync must schedule the forecast pass")

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		updated, _ = m.Update(c())
		m = updated.(Model)
	}

	assert.ElementsMatch(t, []int{1, 2}, predictor.asked())
	assert.Contains(t, m.View(), "~4 days left")
}

func TestRepaintRefreshesPredictions(t *testing.T) {
	m, _ := newTestModel(t)
	predictor := &fakePredictor{}
	m.predictor = predictor

	_, cmd := m.Update(renderMsg{})
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		c()
	}
	assert.ElementsMatch(t, []int{1, 2}, predictor.asked())
}

func TestStartupSyncLoadsProfileAndSeedsPrefs(t *testing.T) {
	m, _ := newTestModel(t)
	fake := &fakePrefs{theme: "auto", language: "pt"}
	m.prefs = fake

	updated, _ := m.Update(m.syncState()())
	m = updated.(Model)

	profile := m.pipeline.Store().Profile()
	require.NotNil(t, profile)
	assert.Equal(t, "maria", profile.Username)

	require.NotNil(t, fake.adopted)
	assert.Equal(t, "dark", fake.adopted.Theme)
}

func TestScanSuggestionPreselectsMatchingCategory(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(scanResultMsg{result: &model.BarcodeResult{
		Success:           true,
		ProductName:       "Feijão",
		SuggestedUnit:     "kg",
		SuggestedCategory: "grãos",
		Barcode:           "7891234567895",
	}})
	m = updated.(Model)

	require.Equal(t, StateItemForm, m.state)
	view := m.View()
	assert.Contains(t, view, "Feijão")
	assert.Contains(t, view, "Grãos", "the suggested category must be pre-selected despite the case difference")
}

func TestPredictionUpgradesBadge(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(predictionMsg{
		itemID:     1,
		prediction: &model.Prediction{ItemID: 1, DaysRemaining: 4, Urgency: model.UrgencyAttention},
	})
	m = updated.(Model)

	assert.Contains(t, m.View(), "~4 days left")
}

// fakePrefs records settings writes in memory.
type fakePrefs struct {
	adopted   *model.UserProfile
	theme     string
	language  string
	lowStock  bool
	reminders bool
}

func (f *fakePrefs) Theme(context.Context) string { return f.theme }
func (f *fakePrefs) SetTheme(_ context.Context, theme string) error {
	f.theme = theme
	return nil
}
func (f *fakePrefs) Language(context.Context) string { return f.language }
func (f *fakePrefs) SetLanguage(_ context.Context, language string) error {
	f.language = language
	return nil
}
func (f *fakePrefs) LowStockAlerts() bool { return f.lowStock }
func (f *fakePrefs) SetLowStockAlerts(_ context.Context, enabled bool) error {
	f.lowStock = enabled
	return nil
}
func (f *fakePrefs) RemindersEnabled(context.Context) bool { return f.reminders }
func (f *fakePrefs) SetRemindersEnabled(_ context.Context, enabled bool) error {
	f.reminders = enabled
	return nil
}
func (f *fakePrefs) AdoptProfile(_ context.Context, profile *model.UserProfile) {
	f.adopted = profile
}

func TestSettingsOverlayTogglesLowStockAlerts(t *testing.T) {
	m, _ := newTestModel(t)
	fake := &fakePrefs{theme: "auto", language: "pt", lowStock: true, reminders: true}
	m.prefs = fake

	updated, _ := m.Update(keyMsg("o"))
	m = updated.(Model)
	require.Equal(t, StateSettings, m.state)
	assert.Contains(t, m.View(), "Low-stock alerts")

	// Move to the low-stock row and cycle it off.
	for i := 0; i < 2; i++ {
		updated, _ = m.Update(keyMsg("j"))
		m = updated.(Model)
	}
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)

	picked, ok := cmd().(components.SettingPickedMsg)
	require.True(t, ok)
	assert.Equal(t, "notify_low_stock", picked.Key)
	assert.Equal(t, "false", picked.Value)

	updated, cmd = m.Update(picked)
	m = updated.(Model)
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	assert.False(t, fake.lowStock)
	assert.Equal(t, "off", m.settings.Value("notify_low_stock"))
}

func TestThemeChangeAppliesImmediately(t *testing.T) {
	m, _ := newTestModel(t)
	fake := &fakePrefs{theme: "dark", language: "pt", lowStock: true, reminders: true}
	m.prefs = fake

	updated, _ := m.Update(keyMsg("o"))
	m = updated.(Model)
	require.Equal(t, StateSettings, m.state)

	// The cursor starts on the theme row; cycling steps dark -> light.
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)

	picked := cmd().(components.SettingPickedMsg)
	assert.Equal(t, "theme", picked.Key)
	assert.Equal(t, "light", picked.Value)

	updated, cmd = m.Update(picked)
	m = updated.(Model)
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	assert.Equal(t, "light", fake.theme)
	assert.Equal(t, themes.Light.Primary, m.theme.Primary)
}

func TestSettingsCloseReturnsToGrid(t *testing.T) {
	m, _ := newTestModel(t)
	m.prefs = &fakePrefs{theme: "auto", language: "pt"}

	updated, _ := m.Update(keyMsg("o"))
	m = updated.(Model)
	require.Equal(t, StateSettings, m.state)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	assert.Equal(t, StateGrid, m.state)
}

func TestHelpTogglesBack(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(keyMsg("?"))
	m = updated.(Model)
	assert.Equal(t, StateHelp, m.state)
	assert.True(t, strings.Contains(m.View(), "Keys"))

	updated, _ = m.Update(keyMsg("x"))
	m = updated.(Model)
	assert.Equal(t, StateGrid, m.state)
}
