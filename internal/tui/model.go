// Package tui is the interactive pantry dashboard. It renders from
// state-store snapshots only; every mutation flows through the
// reconciliation pipeline.
package tui

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/larder-dev/larder/internal/common"
	"github.com/larder-dev/larder/internal/model"
	"github.com/larder-dev/larder/internal/reconcile"
	"github.com/larder-dev/larder/internal/scanner"
	"github.com/larder-dev/larder/internal/tui/components"
	"github.com/larder-dev/larder/internal/tui/themes"
	"github.com/larder-dev/larder/internal/viewmodel"
)

// State represents the current state of the TUI.
type State int

const (
	StateGrid State = iota
	StateItemForm
	StateCategoryForm
	StateConfirmDelete
	StateShopping
	StateScanPrompt
	StateSettings
	StateHelp
)

// Predictor fetches purchase forecasts. *api.Client satisfies it.
type Predictor interface {
	Prediction(ctx context.Context, itemID int) (*model.Prediction, error)
}

// Capturer runs an exclusive capture session. *scanner.Scanner
// satisfies it.
type Capturer interface {
	IdentifyFile(ctx context.Context, path string) (*model.BarcodeResult, error)
}

// IconStore persists the recently-used icon list. *localstore.Store
// satisfies it.
type IconStore interface {
	TouchIcon(ctx context.Context, icon string) error
	RecentIcons(ctx context.Context, limit int) ([]string, error)
}

// Preferences backs the settings overlay. *prefs.Manager satisfies it.
type Preferences interface {
	Theme(ctx context.Context) string
	SetTheme(ctx context.Context, theme string) error
	Language(ctx context.Context) string
	SetLanguage(ctx context.Context, language string) error
	LowStockAlerts() bool
	SetLowStockAlerts(ctx context.Context, enabled bool) error
	RemindersEnabled(ctx context.Context) bool
	SetRemindersEnabled(ctx context.Context, enabled bool) error
	AdoptProfile(ctx context.Context, profile *model.UserProfile)
}

// Config wires the dashboard's collaborators.
type Config struct {
	Pipeline  *reconcile.Pipeline
	Predictor Predictor
	Scanner   Capturer
	Icons     IconStore
	Prefs     Preferences
	Notifier  *ProgramNotifier
	Theme     themes.Theme
}

// Model holds the main TUI state.
type Model struct {
	pipeline     *reconcile.Pipeline
	predictor    Predictor
	scanner      Capturer
	icons        IconStore
	prefs        Preferences
	deleteTarget *model.Item
	lastError    error
	theme        themes.Theme
	toastText    string
	grid         components.ItemGridModel
	statsPanel   components.StatsPanelModel
	shopping     components.ShoppingPanelModel
	itemForm     components.ItemFormModel
	categoryForm components.CategoryFormModel
	settings     components.SettingsPanelModel
	scanInput    textinput.Model
	keymap       KeyMap
	width        int
	height       int
	toastID      int
	toastLevel   reconcile.Level
	state        State
	ready        bool
	quitting     bool
}

// newModel creates a dashboard model from the configuration.
func newModel(cfg Config) Model {
	scanInput := textinput.New()
	scanInput.Placeholder = "path to product photo"
	scanInput.CharLimit = 512

	return Model{
		pipeline:   cfg.Pipeline,
		predictor:  cfg.Predictor,
		scanner:    cfg.Scanner,
		icons:      cfg.Icons,
		prefs:      cfg.Prefs,
		theme:      cfg.Theme,
		keymap:     DefaultKeyMap(),
		grid:       components.NewItemGridModel(cfg.Theme),
		statsPanel: components.NewStatsPanelModel(cfg.Theme),
		shopping:   components.NewShoppingPanelModel(cfg.Theme),
		scanInput:  scanInput,
		state:      StateGrid,
	}
}

// Init starts the initial data sync.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.syncState())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case stateSyncedMsg:
		if msg.err != nil {
			m.lastError = msg.err
			if errors.Is(msg.err, common.ErrAuthExpired) {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		m.ready = true
		m.syncFromStore()
		return m, m.fetchPredictions(m.pipeline.Store().FilteredItems())

	case shoppingLoadedMsg:
		if msg.err != nil {
			return m.showToast(reconcile.LevelError, "could not load shopping list")
		}
		m.shopping.SetEntries(m.pipeline.Store().ShoppingList())
		return m, nil

	case renderMsg:
		m.syncFromStore()
		return m, m.fetchPredictions(m.pipeline.Store().FilteredItems())

	case quantityAdjustedMsg:
		// The pipeline already toasted failures; just repaint from truth.
		m.syncFromStore()
		if msg.err != nil && errors.Is(msg.err, common.ErrAuthExpired) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.fetchPredictions(m.pipeline.Store().FilteredItems())

	case itemSavedMsg:
		if msg.err != nil {
			m.itemForm.SetError(saveFailureText(msg.err))
			return m, nil
		}
		m.state = StateGrid
		m.syncFromStore()
		return m, nil

	case itemDeletedMsg:
		m.deleteTarget = nil
		m.state = StateGrid
		m.syncFromStore()
		return m, nil

	case categoryCreatedMsg:
		if msg.err != nil {
			m.categoryForm.SetError(saveFailureText(msg.err))
			return m, nil
		}
		m.state = StateGrid
		m.syncFromStore()
		return m, nil

	case predictionMsg:
		if msg.err == nil && msg.prediction != nil {
			m.grid.SetPrediction(*msg.prediction)
		}
		return m, nil

	case scanResultMsg:
		return m.handleScanResult(msg)

	case toastMsg:
		return m.showToast(msg.level, msg.text)

	case clearToastMsg:
		if msg.id == m.toastID {
			m.toastText = ""
		}
		return m, nil

	case components.ItemFormSubmittedMsg:
		return m, m.saveItem(msg.ID, msg.Draft)

	case components.ItemFormCancelledMsg:
		m.state = StateGrid
		return m, nil

	case components.CategoryFormSubmittedMsg:
		return m, m.createCategory(msg.Draft)

	case components.CategoryFormCancelledMsg:
		m.state = StateGrid
		return m, nil

	case components.IconPickedMsg:
		return m, m.recordIcon(msg.Icon)

	case components.SettingPickedMsg:
		return m, m.savePreference(msg.Key, msg.Value)

	case components.SettingsClosedMsg:
		m.state = StateGrid
		return m, nil

	case prefSavedMsg:
		if msg.err != nil {
			return m.showToast(reconcile.LevelError, "could not save setting")
		}
		if msg.key == "theme" {
			m.applyTheme(themes.GetTheme(msg.value))
		}
		return m, nil

	case components.ItemSelectedMsg:
		if item, ok := m.pipeline.Store().Item(msg.ID); ok {
			m.itemForm = components.NewItemFormModelForEdit(m.theme, m.pipeline.Store().Categories(), item)
			m.state = StateItemForm
		}
		return m, nil
	}

	switch m.state {
	case StateGrid:
		return m.updateGrid(msg)
	case StateItemForm:
		var cmd tea.Cmd
		m.itemForm, cmd = m.itemForm.Update(msg)
		return m, cmd
	case StateCategoryForm:
		var cmd tea.Cmd
		m.categoryForm, cmd = m.categoryForm.Update(msg)
		return m, cmd
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case StateShopping:
		return m.updateShopping(msg)
	case StateScanPrompt:
		return m.updateScanPrompt(msg)
	case StateSettings:
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)
		return m, cmd
	case StateHelp:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.state = StateGrid
		}
		return m, nil
	}

	return m, nil
}

// updateGrid handles keys on the main grid.
func (m Model) updateGrid(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "?":
		m.state = StateHelp
		return m, nil
	case "r":
		m.grid.ClearPredictions()
		return m, m.syncState()
	case "+", "=":
		if item, ok := m.grid.Selected(); ok {
			return m, m.adjustQuantity(item.ID, viewmodel.IncrementStep(item.Unit))
		}
	case "-", "_":
		if item, ok := m.grid.Selected(); ok {
			return m, m.adjustQuantity(item.ID, -viewmodel.IncrementStep(item.Unit))
		}
	case "a":
		m.itemForm = components.NewItemFormModel(m.theme, m.pipeline.Store().Categories())
		m.state = StateItemForm
		return m, nil
	case "e":
		if item, ok := m.grid.Selected(); ok {
			m.itemForm = components.NewItemFormModelForEdit(m.theme, m.pipeline.Store().Categories(), item)
			m.state = StateItemForm
		}
		return m, nil
	case "d":
		if item, ok := m.grid.Selected(); ok {
			target := item
			m.deleteTarget = &target
			m.state = StateConfirmDelete
		}
		return m, nil
	case "c":
		m.categoryForm = components.NewCategoryFormModel(m.theme, m.recentIcons())
		m.state = StateCategoryForm
		return m, nil
	case "tab":
		m.cycleFilter(1)
		return m, nil
	case "shift+tab":
		m.cycleFilter(-1)
		return m, nil
	case "s":
		m.state = StateShopping
		return m, m.loadShoppingList()
	case "b":
		if m.scanner == nil {
			return m.showToast(reconcile.LevelError, "scanner is not available")
		}
		m.scanInput.SetValue("")
		m.scanInput.Focus()
		m.state = StateScanPrompt
		return m, nil
	case "p":
		return m, m.fetchPredictions(m.pipeline.Store().FilteredItems())
	case "o":
		if m.prefs == nil {
			return m.showToast(reconcile.LevelError, "settings are not available")
		}
		m.openSettings()
		return m, nil
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

// updateConfirmDelete handles the delete confirmation prompt.
func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "enter":
		if m.deleteTarget != nil {
			return m, m.deleteItem(m.deleteTarget.ID)
		}
		m.state = StateGrid
	case "n", "esc", "q":
		m.deleteTarget = nil
		m.state = StateGrid
	}
	return m, nil
}

// updateShopping handles keys on the shopping overlay.
func (m Model) updateShopping(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "q", "s":
		m.state = StateGrid
	case "r":
		return m, m.loadShoppingList()
	}
	return m, nil
}

// updateScanPrompt handles the capture path prompt.
func (m Model) updateScanPrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = StateGrid
			return m, nil
		case "enter":
			path := m.scanInput.Value()
			if path == "" {
				return m, nil
			}
			return m, m.scanImage(path)
		}
	}

	var cmd tea.Cmd
	m.scanInput, cmd = m.scanInput.Update(msg)
	return m, cmd
}

// handleScanResult routes an identification outcome: a capture error
// stays inline, a recognized product pre-fills the add form.
func (m Model) handleScanResult(msg scanResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, scanner.ErrCaptureBusy) {
			return m.showToast(reconcile.LevelWarning, "a capture is already running")
		}
		return m.showToast(reconcile.LevelError, msg.err.Error())
	}

	draft, ok := scanner.Suggestion(msg.result)
	if !ok {
		reason := "product not recognized"
		if msg.result != nil && msg.result.Error != "" {
			reason = msg.result.Error
		}
		return m.showToast(reconcile.LevelWarning, reason)
	}

	categories := m.pipeline.Store().Categories()
	if id, matched := viewmodel.MatchCategory(categories, msg.result.SuggestedCategory); matched {
		draft.CategoryID = &id
	}

	m.itemForm = components.NewItemFormModel(m.theme, categories)
	m.itemForm.Prefill(draft)
	m.state = StateItemForm
	return m, nil
}

// syncFromStore repaints every component from the current snapshots.
func (m *Model) syncFromStore() {
	store := m.pipeline.Store()
	m.grid.SetItems(store.FilteredItems())
	m.grid.SetCategories(store.Categories())
	m.grid.SetFilter(store.Filter())
	m.statsPanel.SetStats(viewmodel.AggregateStats(store.Items()))
	m.shopping.SetEntries(store.ShoppingList())
}

// cycleFilter walks All -> first category -> ... -> last -> All.
func (m *Model) cycleFilter(step int) {
	categories := m.pipeline.Store().Categories()
	if len(categories) == 0 {
		return
	}

	current := -1
	if filter := m.pipeline.Store().Filter(); filter != nil {
		for i, cat := range categories {
			if cat.ID == *filter {
				current = i
				break
			}
		}
	}

	next := current + step
	switch {
	case next < -1:
		next = len(categories) - 1
	case next >= len(categories):
		next = -1
	}

	if next == -1 {
		m.pipeline.SetFilter(nil)
	} else {
		id := categories[next].ID
		m.pipeline.SetFilter(&id)
	}
	m.syncFromStore()
}

// openSettings seeds the settings overlay from the stored preferences.
func (m *Model) openSettings() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	m.settings = components.NewSettingsPanelModel(m.theme,
		m.prefs.Theme(ctx),
		m.prefs.Language(ctx),
		m.prefs.LowStockAlerts(),
		m.prefs.RemindersEnabled(ctx))
	m.state = StateSettings
}

// applyTheme re-themes every live component after a theme change.
func (m *Model) applyTheme(theme themes.Theme) {
	m.theme = theme
	m.grid.SetTheme(theme)
	m.statsPanel.SetTheme(theme)
	m.shopping.SetTheme(theme)
	m.settings.SetTheme(theme)
}

// recentIcons loads the recently-used icons, best effort.
func (m Model) recentIcons() []string {
	if m.icons == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	icons, err := m.icons.RecentIcons(ctx, 8)
	if err != nil {
		return nil
	}
	return icons
}

// showToast displays a transient notification.
func (m Model) showToast(level reconcile.Level, text string) (tea.Model, tea.Cmd) {
	m.toastID++
	m.toastText = text
	m.toastLevel = level
	return m, expireToast(m.toastID)
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	m.grid.Resize(m.width-2, m.height-6)
	m.statsPanel.Resize(m.width - 2)
	m.shopping.Resize(m.width-2, m.height-6)
}

// saveFailureText prefers the server's detail string for inline form
// errors.
func saveFailureText(err error) string {
	var reqErr *common.RequestError
	if errors.As(err, &reqErr) && reqErr.Detail != "" {
		return reqErr.Detail
	}
	return err.Error()
}

// ProgramNotifier bridges pipeline notifications into the running
// program as toasts. It is safe to use before Attach; notifications are
// dropped until a program is connected.
type ProgramNotifier struct {
	mu      sync.Mutex
	program *tea.Program
}

// NewProgramNotifier creates an unattached notifier.
func NewProgramNotifier() *ProgramNotifier {
	return &ProgramNotifier{}
}

// Attach connects the notifier to a running program.
func (n *ProgramNotifier) Attach(p *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = p
}

// Render is the pipeline's render callback: it asks the program to
// repaint from the current state snapshot. This is what makes the
// optimistic apply visible before the persist resolves.
func (n *ProgramNotifier) Render() {
	n.mu.Lock()
	program := n.program
	n.mu.Unlock()

	if program == nil {
		return
	}
	go program.Send(renderMsg{})
}

// Notify implements reconcile.Notifier.
func (n *ProgramNotifier) Notify(level reconcile.Level, message string) {
	n.mu.Lock()
	program := n.program
	n.mu.Unlock()

	if program == nil {
		return
	}
	go program.Send(toastMsg{level: level, text: message})
}
