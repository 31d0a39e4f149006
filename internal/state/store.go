// Package state holds the client's authoritative-mirror of server data.
// All writes funnel through the reconciliation pipeline; render code only
// ever sees snapshots.
package state

import (
	"sync"

	"github.com/larder-dev/larder/internal/common"
	"github.com/larder-dev/larder/internal/model"
)

// QuantityChange describes one optimistic quantity mutation.
type QuantityChange struct {
	Item     model.Item
	Previous float64
	New      float64
	Revision uint64
}

// Store is the in-memory mirror of items, categories, shopping list,
// selected filter and user profile.
//
// The event loop is single-threaded, but prediction fetches and persist
// calls complete on other goroutines, so access is guarded anyway.
type Store struct {
	profile      *model.UserProfile
	revisions    map[int]uint64
	filter       *int
	items        []model.Item
	categories   []model.Category
	shoppingList []model.ShoppingListEntry
	mu           sync.RWMutex
}

// NewStore creates an empty state container.
func NewStore() *Store {
	return &Store{
		revisions: make(map[int]uint64),
	}
}

// Items returns a copy of the full item set, ignoring the filter.
func (s *Store) Items() []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

// FilteredItems returns a copy of the items visible under the selected
// category filter. A nil filter shows everything.
func (s *Store) FilteredItems() []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.filter == nil {
		out := make([]model.Item, len(s.items))
		copy(out, s.items)
		return out
	}

	var out []model.Item
	for _, item := range s.items {
		if item.CategoryID != nil && *item.CategoryID == *s.filter {
			out = append(out, item)
		}
	}
	return out
}

// Item looks up a single item by id.
func (s *Store) Item(id int) (model.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return model.Item{}, false
}

// Categories returns a copy of the category set.
func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// ShoppingList returns a copy of the last fetched shopping list.
func (s *Store) ShoppingList() []model.ShoppingListEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ShoppingListEntry, len(s.shoppingList))
	copy(out, s.shoppingList)
	return out
}

// Profile returns the cached profile, or nil before login completes.
func (s *Store) Profile() *model.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// Filter returns the selected category id, or nil for "show all".
func (s *Store) Filter() *int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.filter == nil {
		return nil
	}
	f := *s.filter
	return &f
}

// SetFilter selects a category filter; nil clears it.
func (s *Store) SetFilter(categoryID *int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if categoryID == nil {
		s.filter = nil
		return
	}
	f := *categoryID
	s.filter = &f
}

// ReplaceItems installs an authoritative item list after a successful
// fetch. Every revision is bumped so commits from requests issued before
// the refetch can no longer land.
func (s *Store) ReplaceItems(items []model.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]model.Item, len(items))
	copy(s.items, items)

	for _, item := range items {
		s.revisions[item.ID]++
	}
}

// ReplaceCategories installs an authoritative category list.
func (s *Store) ReplaceCategories(categories []model.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = make([]model.Category, len(categories))
	copy(s.categories, categories)
}

// ReplaceShoppingList installs a freshly fetched shopping list.
func (s *Store) ReplaceShoppingList(entries []model.ShoppingListEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shoppingList = make([]model.ShoppingListEntry, len(entries))
	copy(s.shoppingList, entries)
}

// ApplyQuantityDelta mutates one item's quantity optimistically, clamped
// at zero. The returned revision identifies this write; a later
// CommitItem only lands if no newer write has happened since.
func (s *Store) ApplyQuantityDelta(id int, delta float64) (QuantityChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}

		previous := s.items[i].CurrentQuantity
		next := previous + delta
		if next < 0 {
			next = 0
		}
		s.items[i].CurrentQuantity = next
		s.revisions[id]++

		return QuantityChange{
			Item:     s.items[i],
			Previous: previous,
			New:      next,
			Revision: s.revisions[id],
		}, nil
	}

	return QuantityChange{}, common.ErrItemNotFound
}

// CommitItem replaces one item with the server's authoritative record,
// but only when revision still matches the optimistic write the server
// response belongs to. A stale commit reports false and changes nothing:
// last write wins.
func (s *Store) CommitItem(item model.Item, revision uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.revisions[item.ID] != revision {
		return false
	}

	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			return true
		}
	}
	return false
}

// RemoveItem drops an item after a confirmed delete.
func (s *Store) RemoveItem(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			delete(s.revisions, id)
			return
		}
	}
}

// SetProfile caches the user profile for the session.
func (s *Store) SetProfile(profile *model.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if profile == nil {
		s.profile = nil
		return
	}
	p := *profile
	s.profile = &p
}

// Reset clears everything, used at logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.categories = nil
	s.shoppingList = nil
	s.filter = nil
	s.profile = nil
	s.revisions = make(map[int]uint64)
}
