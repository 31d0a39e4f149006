package reconcile

import (
	"context"
	"sync"

	"github.com/larder-dev/larder/internal/model"
)

// mockGateway is a scriptable Gateway for tests. Unset hooks behave as an
// empty, always-succeeding server.
type mockGateway struct {
	listItemsFn      func(ctx context.Context) ([]model.Item, error)
	listCategoriesFn func(ctx context.Context) ([]model.Category, error)
	shoppingListFn   func(ctx context.Context) ([]model.ShoppingListEntry, error)
	createItemFn     func(ctx context.Context, draft model.ItemDraft) (*model.Item, error)
	updateItemFn     func(ctx context.Context, id int, draft model.ItemDraft) (*model.Item, error)
	setQuantityFn    func(ctx context.Context, id int, quantity float64) (*model.Item, error)
	deleteItemFn     func(ctx context.Context, id int) error
	createCategoryFn func(ctx context.Context, draft model.CategoryDraft) (*model.Category, error)
	profileFn        func(ctx context.Context) (*model.UserProfile, error)
	updateProfileFn  func(ctx context.Context, patch model.ProfilePatch) (*model.UserProfile, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockGateway) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockGateway) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *mockGateway) ListItems(ctx context.Context) ([]model.Item, error) {
	m.record("ListItems")
	if m.listItemsFn != nil {
		return m.listItemsFn(ctx)
	}
	return nil, nil
}

func (m *mockGateway) ListCategories(ctx context.Context) ([]model.Category, error) {
	m.record("ListCategories")
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(ctx)
	}
	return nil, nil
}

func (m *mockGateway) ShoppingList(ctx context.Context) ([]model.ShoppingListEntry, error) {
	m.record("ShoppingList")
	if m.shoppingListFn != nil {
		return m.shoppingListFn(ctx)
	}
	return nil, nil
}

func (m *mockGateway) CreateItem(ctx context.Context, draft model.ItemDraft) (*model.Item, error) {
	m.record("CreateItem")
	if m.createItemFn != nil {
		return m.createItemFn(ctx, draft)
	}
	return &model.Item{Name: draft.Name}, nil
}

func (m *mockGateway) UpdateItem(ctx context.Context, id int, draft model.ItemDraft) (*model.Item, error) {
	m.record("UpdateItem")
	if m.updateItemFn != nil {
		return m.updateItemFn(ctx, id, draft)
	}
	return &model.Item{ID: id, Name: draft.Name}, nil
}

func (m *mockGateway) SetQuantity(ctx context.Context, id int, quantity float64) (*model.Item, error) {
	m.record("SetQuantity")
	if m.setQuantityFn != nil {
		return m.setQuantityFn(ctx, id, quantity)
	}
	return &model.Item{ID: id, CurrentQuantity: quantity}, nil
}

func (m *mockGateway) DeleteItem(ctx context.Context, id int) error {
	m.record("DeleteItem")
	if m.deleteItemFn != nil {
		return m.deleteItemFn(ctx, id)
	}
	return nil
}

func (m *mockGateway) CreateCategory(ctx context.Context, draft model.CategoryDraft) (*model.Category, error) {
	m.record("CreateCategory")
	if m.createCategoryFn != nil {
		return m.createCategoryFn(ctx, draft)
	}
	return &model.Category{Name: draft.Name}, nil
}

func (m *mockGateway) Profile(ctx context.Context) (*model.UserProfile, error) {
	m.record("Profile")
	if m.profileFn != nil {
		return m.profileFn(ctx)
	}
	return &model.UserProfile{}, nil
}

func (m *mockGateway) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.UserProfile, error) {
	m.record("UpdateProfile")
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, patch)
	}
	return &model.UserProfile{}, nil
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []notification
}

type notification struct {
	message string
	level   Level
}

func (n *recordingNotifier) Notify(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, notification{level: level, message: message})
}

func (n *recordingNotifier) count(level Level) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, msg := range n.messages {
		if msg.level == level {
			c++
		}
	}
	return c
}
