// Package reconcile orchestrates every mutation of client state: apply the
// change optimistically, re-render, persist remotely, then either commit
// the server's record or roll local state back to the server's truth.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/larder-dev/larder/internal/model"
	"github.com/larder-dev/larder/internal/state"
	"github.com/larder-dev/larder/internal/viewmodel"
)

// MutationState tracks where a mutation is in its lifecycle. Every
// quantity step walks OptimisticApplied -> PersistPending -> Committed or
// RolledBack.
type MutationState int

const (
	// StateOptimisticApplied means local state already shows the change.
	StateOptimisticApplied MutationState = iota
	// StatePersistPending means the remote write is in flight.
	StatePersistPending
	// StateCommitted means the server's record replaced the optimistic one.
	StateCommitted
	// StateRolledBack means the change failed and local state was restored
	// from a fresh server fetch.
	StateRolledBack
)

// String returns the state's name.
func (s MutationState) String() string {
	switch s {
	case StateOptimisticApplied:
		return "optimistic-applied"
	case StatePersistPending:
		return "persist-pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// Gateway is the slice of the remote API the pipeline drives.
type Gateway interface {
	ListItems(ctx context.Context) ([]model.Item, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ShoppingList(ctx context.Context) ([]model.ShoppingListEntry, error)
	CreateItem(ctx context.Context, draft model.ItemDraft) (*model.Item, error)
	UpdateItem(ctx context.Context, id int, draft model.ItemDraft) (*model.Item, error)
	SetQuantity(ctx context.Context, id int, quantity float64) (*model.Item, error)
	DeleteItem(ctx context.Context, id int) error
	CreateCategory(ctx context.Context, draft model.CategoryDraft) (*model.Category, error)
	Profile(ctx context.Context) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.UserProfile, error)
}

// Settings exposes the locally persisted toggles the pipeline honors.
type Settings interface {
	LowStockAlerts() bool
}

// alwaysAlert is the default when no settings source is wired.
type alwaysAlert struct{}

func (alwaysAlert) LowStockAlerts() bool { return true }

// Pipeline owns all writes to the state store.
type Pipeline struct {
	gateway  Gateway
	store    *state.Store
	notifier Notifier
	settings Settings
	render   func()
	validate *validator.Validate
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithNotifier routes user notifications to n.
func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

// WithRenderer registers the render callback invoked after every visible
// state change.
func WithRenderer(render func()) Option {
	return func(p *Pipeline) { p.render = render }
}

// WithSettings wires the notification toggles.
func WithSettings(s Settings) Option {
	return func(p *Pipeline) { p.settings = s }
}

// New creates a pipeline over the given gateway and store.
func New(gateway Gateway, store *state.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		gateway:  gateway,
		store:    store,
		notifier: NopNotifier{},
		settings: alwaysAlert{},
		render:   func() {},
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Store exposes the state container for read-only snapshotting.
func (p *Pipeline) Store() *state.Store {
	return p.store
}

// AdjustQuantity applies a signed quantity delta to one item. Local state
// changes and re-renders before the network is touched; the server's
// answer then either commits (if no newer step superseded it) or triggers
// a full rollback refetch.
func (p *Pipeline) AdjustQuantity(ctx context.Context, id int, delta float64) (MutationState, error) {
	change, err := p.store.ApplyQuantityDelta(id, delta)
	if err != nil {
		return StateRolledBack, err
	}
	p.render()

	if p.settings.LowStockAlerts() &&
		viewmodel.CrossedBelowMinimum(change.Previous, change.New, change.Item.MinimumQuantity) {
		p.notifier.Notify(LevelWarning, fmt.Sprintf("%s is running low", change.Item.Name))
	}

	updated, err := p.gateway.SetQuantity(ctx, id, change.New)
	if err != nil {
		slog.Warn("Quantity persist failed, rolling back",
			"item_id", id,
			"error", err)
		p.notifier.Notify(LevelError, "could not save quantity change")
		if rbErr := p.rollback(ctx); rbErr != nil {
			return StateRolledBack, fmt.Errorf("rollback after failed persist: %w", rbErr)
		}
		return StateRolledBack, err
	}

	if !p.store.CommitItem(*updated, change.Revision) {
		// A newer step already owns this slot; its own response will land.
		slog.Debug("Skipped stale commit", "item_id", id, "revision", change.Revision)
	}

	return StateCommitted, nil
}

// SaveItem creates an item (id nil) or updates one via the form path.
// There is no optimistic apply here: the caller blocks the form until the
// remote call resolves, then the full list is refetched on success.
func (p *Pipeline) SaveItem(ctx context.Context, id *int, draft model.ItemDraft) error {
	if err := p.validate.Struct(draft); err != nil {
		return fmt.Errorf("invalid item: %w", err)
	}

	var err error
	if id == nil {
		_, err = p.gateway.CreateItem(ctx, draft)
	} else {
		_, err = p.gateway.UpdateItem(ctx, *id, draft)
	}
	if err != nil {
		p.notifier.Notify(LevelError, "could not save item")
		return err
	}

	if err := p.RefreshItems(ctx); err != nil {
		return err
	}

	if id == nil {
		p.notifier.Notify(LevelSuccess, fmt.Sprintf("%s added", draft.Name))
	} else {
		p.notifier.Notify(LevelSuccess, fmt.Sprintf("%s updated", draft.Name))
	}
	return nil
}

// DeleteItem removes an item remotely first; local state only changes on
// success, so a failed delete leaves the item visible.
func (p *Pipeline) DeleteItem(ctx context.Context, id int) error {
	item, ok := p.store.Item(id)
	if err := p.gateway.DeleteItem(ctx, id); err != nil {
		p.notifier.Notify(LevelError, "could not delete item")
		return err
	}

	p.store.RemoveItem(id)
	p.render()

	if ok {
		p.notifier.Notify(LevelSuccess, fmt.Sprintf("%s deleted", item.Name))
	} else {
		p.notifier.Notify(LevelSuccess, "item deleted")
	}
	return nil
}

// CreateCategory creates a category and refreshes the chip row. The
// server's detail message, when present, is surfaced verbatim.
func (p *Pipeline) CreateCategory(ctx context.Context, draft model.CategoryDraft) (*model.Category, error) {
	if err := p.validate.Struct(draft); err != nil {
		return nil, fmt.Errorf("invalid category: %w", err)
	}

	category, err := p.gateway.CreateCategory(ctx, draft)
	if err != nil {
		p.notifier.Notify(LevelError, categoryFailureMessage(err))
		return nil, err
	}

	if err := p.RefreshCategories(ctx); err != nil {
		return category, err
	}
	return category, nil
}

// SetFilter selects the active category filter and re-renders.
func (p *Pipeline) SetFilter(categoryID *int) {
	p.store.SetFilter(categoryID)
	p.render()
}

// RefreshAll loads items and categories, the startup fetch pair.
func (p *Pipeline) RefreshAll(ctx context.Context) error {
	if err := p.RefreshCategories(ctx); err != nil {
		return err
	}
	return p.RefreshItems(ctx)
}

// RefreshItems replaces the item mirror with the server's list.
func (p *Pipeline) RefreshItems(ctx context.Context) error {
	items, err := p.gateway.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch items: %w", err)
	}
	p.store.ReplaceItems(items)
	p.render()
	return nil
}

// RefreshCategories replaces the category mirror.
func (p *Pipeline) RefreshCategories(ctx context.Context) error {
	categories, err := p.gateway.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch categories: %w", err)
	}
	p.store.ReplaceCategories(categories)
	p.render()
	return nil
}

// RefreshShoppingList fetches the server-computed shopping list; entries
// are never mutated locally.
func (p *Pipeline) RefreshShoppingList(ctx context.Context) error {
	entries, err := p.gateway.ShoppingList(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch shopping list: %w", err)
	}
	p.store.ReplaceShoppingList(entries)
	p.render()
	return nil
}

// LoadProfile caches the remote profile in client state.
func (p *Pipeline) LoadProfile(ctx context.Context) error {
	profile, err := p.gateway.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}
	p.store.SetProfile(profile)
	return nil
}

// UpdateProfile persists profile changes remotely and caches the server's
// record in client state.
func (p *Pipeline) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.UserProfile, error) {
	profile, err := p.gateway.UpdateProfile(ctx, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	p.store.SetProfile(profile)
	return profile, nil
}

// rollback restores local state from the server after a failed persist.
// The refetch runs after the failing call resolved, so it reflects the
// server's latest state even under concurrent steps.
func (p *Pipeline) rollback(ctx context.Context) error {
	return p.RefreshItems(ctx)
}

// categoryFailureMessage prefers the server's detail string.
func categoryFailureMessage(err error) string {
	if detail := detailOf(err); detail != "" {
		return detail
	}
	return "could not create category"
}
