package tui

import (
	"github.com/larder-dev/larder/internal/model"
	"github.com/larder-dev/larder/internal/reconcile"
)

// Data loading messages.
type stateSyncedMsg struct {
	err error
}

type shoppingLoadedMsg struct {
	err error
}

type predictionMsg struct {
	prediction *model.Prediction
	err        error
	itemID     int
}

// Mutation results.
type quantityAdjustedMsg struct {
	err    error
	itemID int
	state  reconcile.MutationState
}

type itemSavedMsg struct {
	err error
}

type itemDeletedMsg struct {
	err    error
	itemID int
}

type categoryCreatedMsg struct {
	category *model.Category
	err      error
}

// Scanner messages.
type scanResultMsg struct {
	result *model.BarcodeResult
	err    error
}

// toastMsg is a transient user notification, the toast analogue.
type toastMsg struct {
	text  string
	level reconcile.Level
}

// clearToastMsg expires the visible toast.
type clearToastMsg struct {
	id int
}

// prefSavedMsg reports the outcome of one settings change.
type prefSavedMsg struct {
	err   error
	key   string
	value string
}

// renderMsg asks the UI to repaint from the current state snapshot.
type renderMsg struct{}
