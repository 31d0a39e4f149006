package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larder-dev/larder/internal/common"
	"github.com/larder-dev/larder/internal/model"
	"github.com/larder-dev/larder/internal/state"
)

func seededStore(items ...model.Item) *state.Store {
	s := state.NewStore()
	s.ReplaceItems(items)
	return s
}

func TestAdjustQuantityCommits(t *testing.T) {
	store := seededStore(model.Item{ID: 1, Name: "Rice", Unit: "kg", CurrentQuantity: 5, MinimumQuantity: 2})
	gateway := &mockGateway{
		setQuantityFn: func(_ context.Context, id int, qty float64) (*model.Item, error) {
			return &model.Item{ID: id, Name: "Rice", Unit: "kg", CurrentQuantity: qty, MinimumQuantity: 2}, nil
		},
	}

	renders := 0
	p := New(gateway, store, WithRenderer(func() { renders++ }))

	final, err := p.AdjustQuantity(context.Background(), 1, -0.5)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, final)

	item, ok := store.Item(1)
	require.True(t, ok)
	assert.InDelta(t, 4.5, item.CurrentQuantity, 0.0001)
	assert.Positive(t, renders, "optimistic apply must render before the persist resolves")
}

func TestAdjustQuantityClampsAtZero(t *testing.T) {
	store := seededStore(model.Item{ID: 1, Name: "Milk", Unit: "l", CurrentQuantity: 0.5, MinimumQuantity: 1})

	var persisted float64
	gateway := &mockGateway{
		setQuantityFn: func(_ context.Context, id int, qty float64) (*model.Item, error) {
			persisted = qty
			return &model.Item{ID: id, CurrentQuantity: qty, MinimumQuantity: 1}, nil
		},
	}

	p := New(gateway, store)
	_, err := p.AdjustQuantity(context.Background(), 1, -1)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, persisted, 0.0001)
	item, _ := store.Item(1)
	assert.InDelta(t, 0.0, item.CurrentQuantity, 0.0001)
}

func TestAdjustQuantityRollsBackToServerTruth(t *testing.T) {
	store := seededStore(model.Item{ID: 1, Name: "Beans", CurrentQuantity: 4, MinimumQuantity: 1})
	serverItems := []model.Item{{ID: 1, Name: "Beans", CurrentQuantity: 4, MinimumQuantity: 1}}

	gateway := &mockGateway{
		setQuantityFn: func(context.Context, int, float64) (*model.Item, error) {
			return nil, errors.New("persist failed")
		},
		listItemsFn: func(context.Context) ([]model.Item, error) {
			return serverItems, nil
		},
	}

	notifier := &recordingNotifier{}
	p := New(gateway, store, WithNotifier(notifier))

	final, err := p.AdjustQuantity(context.Background(), 1, -1)
	assert.Error(t, err)
	assert.Equal(t, StateRolledBack, final)

	// The rendered value is the server's, not the optimistic 3.
	item, ok := store.Item(1)
	require.True(t, ok)
	assert.InDelta(t, 4.0, item.CurrentQuantity, 0.0001)
	assert.Equal(t, 1, gateway.callCount("ListItems"))
	assert.Equal(t, 1, notifier.count(LevelError))
}

func TestLowStockNotificationIsEdgeTriggered(t *testing.T) {
	store := seededStore(model.Item{ID: 1, Name: "Coffee", Unit: "un", CurrentQuantity: 5, MinimumQuantity: 3})
	gateway := &mockGateway{
		setQuantityFn: func(_ context.Context, id int, qty float64) (*model.Item, error) {
			return &model.Item{ID: id, Name: "Coffee", Unit: "un", CurrentQuantity: qty, MinimumQuantity: 3}, nil
		},
	}

	notifier := &recordingNotifier{}
	p := New(gateway, store, WithNotifier(notifier))
	ctx := context.Background()

	// 5 -> 4 -> 3: exactly one warning, at the step that lands on the minimum.
	_, err := p.AdjustQuantity(ctx, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, notifier.count(LevelWarning))

	_, err = p.AdjustQuantity(ctx, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.count(LevelWarning))

	// 3 -> 2 -> 1: already below, no further warnings.
	_, err = p.AdjustQuantity(ctx, 1, -1)
	require.NoError(t, err)
	_, err = p.AdjustQuantity(ctx, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.count(LevelWarning))
}

type mutedSettings struct{}

func (mutedSettings) LowStockAlerts() bool { return false }

func TestLowStockNotificationHonorsToggle(t *testing.T) {
	store := seededStore(model.Item{ID: 1, Name: "Tea", CurrentQuantity: 4, MinimumQuantity: 3})
	gateway := &mockGateway{}
	notifier := &recordingNotifier{}

	p := New(gateway, store, WithNotifier(notifier), WithSettings(mutedSettings{}))
	_, err := p.AdjustQuantity(context.Background(), 1, -1)
	require.NoError(t, err)

	assert.Equal(t, 0, notifier.count(LevelWarning))
}

func TestConcurrentStepsLastWriteWins(t *testing.T) {
	store := seededStore(model.Item{ID: 1, Name: "Sugar", CurrentQuantity: 5, MinimumQuantity: 1})

	firstInFlight := make(chan struct{})
	releaseFirst := make(chan struct{})

	var mu sync.Mutex
	call := 0
	gateway := &mockGateway{
		setQuantityFn: func(_ context.Context, id int, qty float64) (*model.Item, error) {
			mu.Lock()
			call++
			mine := call
			mu.Unlock()

			if mine == 1 {
				// First click's persist stalls until the second commits,
				// then fails.
				close(firstInFlight)
				<-releaseFirst
				return nil, errors.New("timeout")
			}
			return &model.Item{ID: id, Name: "Sugar", CurrentQuantity: qty, MinimumQuantity: 1}, nil
		},
		listItemsFn: func(context.Context) ([]model.Item, error) {
			// By rollback time the server has absorbed the second write.
			return []model.Item{{ID: 1, Name: "Sugar", CurrentQuantity: 3, MinimumQuantity: 1}}, nil
		},
	}

	p := New(gateway, store)
	ctx := context.Background()

	done := make(chan MutationState, 1)
	go func() {
		final, _ := p.AdjustQuantity(ctx, 1, -1)
		done <- final
	}()

	<-firstInFlight

	// Second click computes its delta from current local state (4) and
	// commits while the first is still pending.
	final, err := p.AdjustQuantity(ctx, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, final)

	close(releaseFirst)
	assert.Equal(t, StateRolledBack, <-done)

	// The rollback refetch reflects the server's latest state, which
	// already includes the second write.
	item, ok := store.Item(1)
	require.True(t, ok)
	assert.InDelta(t, 3.0, item.CurrentQuantity, 0.0001)
}

func TestDeleteItemFailureLeavesItemVisible(t *testing.T) {
	store := seededStore(model.Item{ID: 7, Name: "Soap", CurrentQuantity: 2, MinimumQuantity: 1})
	gateway := &mockGateway{
		deleteItemFn: func(context.Context, int) error {
			return &common.RequestError{Status: 500}
		},
	}
	notifier := &recordingNotifier{}

	p := New(gateway, store, WithNotifier(notifier))
	err := p.DeleteItem(context.Background(), 7)
	assert.Error(t, err)

	_, ok := store.Item(7)
	assert.True(t, ok, "failed delete must not remove the item locally")
	assert.Equal(t, 1, notifier.count(LevelError))
}

func TestDeleteItemRemovesOnSuccess(t *testing.T) {
	store := seededStore(model.Item{ID: 7, Name: "Soap", CurrentQuantity: 2, MinimumQuantity: 1})
	p := New(&mockGateway{}, store)

	require.NoError(t, p.DeleteItem(context.Background(), 7))
	_, ok := store.Item(7)
	assert.False(t, ok)
}

func TestSaveItemCreateRefreshesList(t *testing.T) {
	store := state.NewStore()
	created := model.Item{ID: 10, Name: "Rice", Unit: "kg", CurrentQuantity: 2, MinimumQuantity: 5}
	gateway := &mockGateway{
		listItemsFn: func(context.Context) ([]model.Item, error) {
			return []model.Item{created}, nil
		},
	}

	p := New(gateway, store)
	draft := model.ItemDraft{Name: "Rice", Unit: "kg", CurrentQuantity: 2, MinimumQuantity: 5}
	require.NoError(t, p.SaveItem(context.Background(), nil, draft))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Rice", items[0].Name)
	assert.Equal(t, 1, gateway.callCount("CreateItem"))
	assert.Equal(t, 1, gateway.callCount("ListItems"))
}

func TestSaveItemValidationShortCircuits(t *testing.T) {
	gateway := &mockGateway{}
	p := New(gateway, state.NewStore())

	err := p.SaveItem(context.Background(), nil, model.ItemDraft{Unit: "kg"})
	assert.Error(t, err, "missing name must fail validation")
	assert.Equal(t, 0, gateway.callCount("CreateItem"))

	err = p.SaveItem(context.Background(), nil, model.ItemDraft{Name: "Rice", Unit: "kg", CurrentQuantity: -1})
	assert.Error(t, err, "negative quantity must fail validation")
	assert.Equal(t, 0, gateway.callCount("CreateItem"))
}

func TestSaveItemFailureLeavesStateUntouched(t *testing.T) {
	existing := model.Item{ID: 1, Name: "Flour", Unit: "kg", CurrentQuantity: 1, MinimumQuantity: 2}
	store := seededStore(existing)
	gateway := &mockGateway{
		updateItemFn: func(context.Context, int, model.ItemDraft) (*model.Item, error) {
			return nil, errors.New("boom")
		},
	}
	notifier := &recordingNotifier{}
	p := New(gateway, store, WithNotifier(notifier))

	id := 1
	draft := model.ItemDraft{Name: "Flour", Unit: "kg", CurrentQuantity: 9, MinimumQuantity: 2}
	err := p.SaveItem(context.Background(), &id, draft)
	assert.Error(t, err)

	item, _ := store.Item(1)
	assert.InDelta(t, existing.CurrentQuantity, item.CurrentQuantity, 0.0001)
	assert.Equal(t, 0, gateway.callCount("ListItems"))
	assert.Equal(t, 1, notifier.count(LevelError))
}

func TestCreateCategorySurfacesServerDetail(t *testing.T) {
	gateway := &mockGateway{
		createCategoryFn: func(context.Context, model.CategoryDraft) (*model.Category, error) {
			return nil, &common.RequestError{Status: 400, Detail: "category already exists"}
		},
	}
	notifier := &recordingNotifier{}
	p := New(gateway, state.NewStore(), WithNotifier(notifier))

	draft := model.CategoryDraft{Name: "Snacks", Icon: "🍿", Color: "#ff8800"}
	_, err := p.CreateCategory(context.Background(), draft)
	assert.Error(t, err)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "category already exists", notifier.messages[0].message)
}

func TestUpdateProfileCachesServerRecord(t *testing.T) {
	gateway := &mockGateway{
		updateProfileFn: func(_ context.Context, patch model.ProfilePatch) (*model.UserProfile, error) {
			return &model.UserProfile{ID: 1, Username: "maria", DisplayName: *patch.DisplayName}, nil
		},
	}
	store := state.NewStore()
	p := New(gateway, store)

	name := "Maria Silva"
	profile, err := p.UpdateProfile(context.Background(), model.ProfilePatch{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", profile.DisplayName)

	cached := store.Profile()
	require.NotNil(t, cached)
	assert.Equal(t, "Maria Silva", cached.DisplayName)
}

func TestUpdateProfileFailureLeavesCacheUntouched(t *testing.T) {
	gateway := &mockGateway{
		updateProfileFn: func(context.Context, model.ProfilePatch) (*model.UserProfile, error) {
			return nil, errors.New("server unavailable")
		},
	}
	store := state.NewStore()
	p := New(gateway, store)

	_, err := p.UpdateProfile(context.Background(), model.ProfilePatch{})
	require.Error(t, err)
	assert.Nil(t, store.Profile())
}

func TestMutationStateString(t *testing.T) {
	assert.Equal(t, "optimistic-applied", StateOptimisticApplied.String())
	assert.Equal(t, "persist-pending", StatePersistPending.String())
	assert.Equal(t, "committed", StateCommitted.String())
	assert.Equal(t, "rolled-back", StateRolledBack.String())
}
