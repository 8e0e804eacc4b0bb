package au

import (
	"cmp"
	"slices"
	"strings"
)

////////////////
//
// (memory store)
//

// memory store
type memStore struct {
	items map[string]Item
	order []string // insertion order of ids, for stable listing

	verbose bool
}

// Insert inserts given item into the store.
func (s *memStore) Insert(item Item) bool {
	v(s.verbose, "memStore - inserting item: '%s' (%s)", item.Title, item.ID)

	if _, exists := s.items[item.ID]; exists {
		return false
	}

	s.items[item.ID] = item
	s.order = append(s.order, item.ID)

	return true
}

// Exists checks for the existence of `id` in the store.
func (s *memStore) Exists(id string) bool {
	v(s.verbose, "memStore - checking existence of item with id: %s", id)

	_, exists := s.items[id]

	return exists
}

// CountForSourceOnDay counts stored items of given source on given UTC day.
func (s *memStore) CountForSourceOnDay(source, day string) (count int) {
	v(s.verbose, "memStore - counting items of source '%s' on day: %s", source, day)

	for _, item := range s.items {
		if item.Source == source && strings.HasPrefix(item.Published, day) {
			count++
		}
	}

	return count
}

// Query lists stored items ordered by published date descending, optionally
// filtered by category, capped at `limit` items.
func (s *memStore) Query(category Category, limit int) []Item {
	v(s.verbose, "memStore - querying items with category = '%s' and limit = %d", category, limit)

	all := []Item{}
	for _, id := range s.order {
		item := s.items[id]
		if category != "" && item.Category != category {
			continue
		}
		all = append(all, item)
	}

	slices.SortStableFunc(all, func(a, b Item) int {
		return strings.Compare(b.Published, a.Published)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	return all
}

// Categories lists stored categories with their item counts, largest first.
func (s *memStore) Categories() []CategoryCount {
	v(s.verbose, "memStore - listing categories")

	byCategory := map[Category]int64{}
	for _, item := range s.items {
		byCategory[item.Category]++
	}

	counts := []CategoryCount{}
	for category, count := range byCategory {
		counts = append(counts, CategoryCount{Category: category, Count: count})
	}

	slices.SortStableFunc(counts, func(a, b CategoryCount) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return strings.Compare(string(a.Category), string(b.Category))
	})

	return counts
}

// SetVerbose sets the verbosity of the store.
func (s *memStore) SetVerbose(v bool) {
	s.verbose = v
}

// NewMemStore returns a new memory-backed item store, useful for tests and
// dry runs.
func NewMemStore() ItemStore {
	return &memStore{
		items: map[string]Item{},
	}
}
