// Package indicator holds the drop hint of one tree table.
//
// A [Store] is an observable value: the current [dnd.Indicator], or none.
// Each tree table owns one store for its lifetime. The gesture layer writes
// to it on every pointer move and clears it when a gesture ends; renderers
// subscribe and repaint.
//
// Setting the value it already holds does nothing and notifies nobody, so a
// pointer that jitters over the same row costs no repaints. Rows that only
// care about themselves use [Store.WatchRow], which fires only when that
// row's hint appears, disappears or changes kind.
//
// A Store is safe for concurrent use. Listeners run on the goroutine that
// changed the value, after the store's lock has been released, so they may
// call back into the store.
package indicator

import (
	"sync"

	"github.com/matzehuels/treetable/pkg/dnd"
)

type listener struct {
	id uint64
	fn func()
}

// Store is the current drop indicator of one tree table.
type Store struct {
	mu        sync.Mutex
	current   dnd.Indicator
	set       bool
	listeners []listener
	nextID    uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Get returns the current indicator and whether one is set.
func (s *Store) Get() (dnd.Indicator, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.set
}

// Set replaces the current indicator; nil clears it. Listeners are notified
// only when the value actually changes.
func (s *Store) Set(ind *dnd.Indicator) {
	s.mu.Lock()
	switch {
	case ind == nil && !s.set:
		s.mu.Unlock()
		return
	case ind != nil && s.set && *ind == s.current:
		s.mu.Unlock()
		return
	case ind == nil:
		s.current, s.set = dnd.Indicator{}, false
	default:
		s.current, s.set = *ind, true
	}
	fns := make([]func(), len(s.listeners))
	for i, l := range s.listeners {
		fns[i] = l.fn
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Clear removes the current indicator.
func (s *Store) Clear() { s.Set(nil) }

// Subscribe registers fn to run after every change and returns a function
// that removes it. Calling the returned function more than once is safe.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// ForRow reports the kind of hint shown on rowID, if any.
func (s *Store) ForRow(rowID string) (dnd.Position, bool) {
	ind, ok := s.Get()
	if !ok || ind.RowID != rowID {
		return "", false
	}
	return ind.Kind, true
}

// WatchRow calls fn whenever the hint on rowID changes, with the new value
// as [Store.ForRow] reports it. Changes elsewhere in the table do not reach
// fn.
func (s *Store) WatchRow(rowID string, fn func(kind dnd.Position, ok bool)) (unsubscribe func()) {
	var mu sync.Mutex
	last, lastOK := s.ForRow(rowID)
	return s.Subscribe(func() {
		kind, ok := s.ForRow(rowID)
		mu.Lock()
		changed := kind != last || ok != lastOK
		last, lastOK = kind, ok
		mu.Unlock()
		if changed {
			fn(kind, ok)
		}
	})
}
