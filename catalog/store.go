// Package catalog holds the in-memory view of the listing catalog and the
// triggers that keep it in sync with the backend.
package catalog

import (
	"sync"

	"github.com/hsbacot/mercat/client"
)

// Source tells which container a View was built from
type Source int

const (
	SourceCatalog Source = iota
	SourceSearch
)

func (s Source) String() string {
	if s == SourceSearch {
		return "search"
	}
	return "catalog"
}

// View is what the UI should render right now
type View struct {
	Items     []client.Item
	Deletable bool
	Source    Source
}

// Store holds the full catalog and the search results as two independent
// containers. Containers are only ever replaced whole or filtered into a new
// slice, so a slice handed out by a getter is never mutated afterwards.
type Store struct {
	mu            sync.RWMutex
	items         []client.Item
	searchResults []client.Item
	query         client.SearchQuery

	subMu       sync.Mutex
	subscribers map[int]func(View)
	nextSub     int
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{subscribers: make(map[int]func(View))}
}

// Items returns the full catalog
func (s *Store) Items() []client.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// SearchResults returns the most recent search results
func (s *Store) SearchResults() []client.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchResults
}

// Query returns the last submitted search query
func (s *Store) Query() client.SearchQuery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// SetSearchResults replaces the search results and records the query that
// produced them
func (s *Store) SetSearchResults(query client.SearchQuery, results []client.Item) {
	s.mu.Lock()
	s.query = query
	s.searchResults = clone(results)
	s.mu.Unlock()
	s.notify()
}

// ReplaceCatalog swaps in a freshly loaded catalog and drops any search
// results in one step, so subscribers never see the new catalog hidden
// behind stale results.
func (s *Store) ReplaceCatalog(items []client.Item) {
	s.mu.Lock()
	s.items = clone(items)
	s.searchResults = nil
	s.query = client.SearchQuery{}
	s.mu.Unlock()
	s.notify()
}

// RemoveItem drops the item with the given id from the full catalog. Search
// results are left alone. Reports whether anything was removed.
func (s *Store) RemoveItem(id int) bool {
	s.mu.Lock()
	kept := make([]client.Item, 0, len(s.items))
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	removed := len(kept) != len(s.items)
	s.items = kept
	s.mu.Unlock()

	if removed {
		s.notify()
	}
	return removed
}

// Rendered applies the selection rule: non-empty search results win and are
// shown without delete; otherwise the full catalog is shown with delete.
func (s *Store) Rendered() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderedLocked()
}

func (s *Store) renderedLocked() View {
	if len(s.searchResults) > 0 {
		return View{Items: s.searchResults, Deletable: false, Source: SourceSearch}
	}
	return View{Items: s.items, Deletable: true, Source: SourceCatalog}
}

// Subscribe registers fn to be called with the rendered view after every
// change. The returned func unregisters it.
func (s *Store) Subscribe(fn func(View)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	view := s.Rendered()

	s.subMu.Lock()
	fns := make([]func(View), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(view)
	}
}

func clone(items []client.Item) []client.Item {
	if items == nil {
		return nil
	}
	out := make([]client.Item, len(items))
	copy(out, items)
	return out
}
