package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/larder-dev/larder/internal/model"
)

const (
	syncTimeout       = 30 * time.Second
	predictionTimeout = 10 * time.Second
	toastDuration     = 3 * time.Second
)

// syncState fetches items, categories, the shopping list and the user
// profile. A failed profile fetch never blocks the dashboard; the pantry
// is usable without it.
func (m Model) syncState() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		if err := m.pipeline.RefreshAll(ctx); err != nil {
			return stateSyncedMsg{err: err}
		}
		if err := m.pipeline.LoadProfile(ctx); err == nil && m.prefs != nil {
			m.prefs.AdoptProfile(ctx, m.pipeline.Store().Profile())
		}
		if err := m.pipeline.RefreshShoppingList(ctx); err != nil {
			return stateSyncedMsg{err: err}
		}
		return stateSyncedMsg{}
	}
}

// loadShoppingList refetches only the shopping list.
func (m Model) loadShoppingList() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		return shoppingLoadedMsg{err: m.pipeline.RefreshShoppingList(ctx)}
	}
}

// adjustQuantity runs one optimistic quantity step.
func (m Model) adjustQuantity(itemID int, delta float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		state, err := m.pipeline.AdjustQuantity(ctx, itemID, delta)
		return quantityAdjustedMsg{itemID: itemID, state: state, err: err}
	}
}

// saveItem persists an add or edit through the form path.
func (m Model) saveItem(id *int, draft model.ItemDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		return itemSavedMsg{err: m.pipeline.SaveItem(ctx, id, draft)}
	}
}

// deleteItem removes an item remotely first.
func (m Model) deleteItem(itemID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		return itemDeletedMsg{itemID: itemID, err: m.pipeline.DeleteItem(ctx, itemID)}
	}
}

// createCategory persists a new category.
func (m Model) createCategory(draft model.CategoryDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		category, err := m.pipeline.CreateCategory(ctx, draft)
		return categoryCreatedMsg{category: category, err: err}
	}
}

// fetchPredictions requests a forecast per visible item. Each lands as
// its own message; a failed fetch for one item never blocks the rest.
func (m Model) fetchPredictions(items []model.Item) tea.Cmd {
	if m.predictor == nil || len(items) == 0 {
		return nil
	}

	cmds := make([]tea.Cmd, 0, len(items))
	for _, item := range items {
		id := item.ID
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), predictionTimeout)
			defer cancel()

			prediction, err := m.predictor.Prediction(ctx, id)
			return predictionMsg{itemID: id, prediction: prediction, err: err}
		})
	}
	return tea.Batch(cmds...)
}

// scanImage runs an exclusive capture session over an image file.
func (m Model) scanImage(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		result, err := m.scanner.IdentifyFile(ctx, path)
		return scanResultMsg{result: result, err: err}
	}
}

// expireToast clears a toast after its display window.
func expireToast(id int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{id: id}
	})
}

// savePreference applies one settings change through the preference
// manager. Theme and language mirror to the remote profile inside the
// manager, so this runs off the update loop.
func (m Model) savePreference(key, value string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		var err error
		switch key {
		case "theme":
			err = m.prefs.SetTheme(ctx, value)
		case "language":
			err = m.prefs.SetLanguage(ctx, value)
		case "notify_low_stock":
			err = m.prefs.SetLowStockAlerts(ctx, value == "true")
		case "notify_reminders":
			err = m.prefs.SetRemindersEnabled(ctx, value == "true")
		}
		return prefSavedMsg{key: key, value: value, err: err}
	}
}

// recordIcon persists a picked icon into the recently-used list.
func (m Model) recordIcon(icon string) tea.Cmd {
	if m.icons == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = m.icons.TouchIcon(ctx, icon)
		return nil
	}
}
