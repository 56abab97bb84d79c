package service

import (
	"sort"
	"sync"
)

// EventKind tags a mirror mutation for subscribers.
type EventKind int

// Mirror mutation kinds.
const (
	// EventAdded is published after an entity is appended.
	EventAdded EventKind = iota
	// EventUpdated is published after an entity is patched in place.
	EventUpdated
	// EventRemoved is published after an entity is removed.
	EventRemoved
	// EventReloaded is published after a wholesale replace.
	EventReloaded
	// EventFiltered is published after the filter predicate changes.
	EventFiltered
)

// Event describes one mirror mutation. Item is the zero value for
// EventReloaded and EventFiltered.
type Event[T any] struct {
	Item T
	Kind EventKind
}

// Mirror is an in-memory list kept consistent with storage by incremental
// patching: the owning service appends, patches or removes entries on each
// successful mutation and replaces the whole list only on a load-all. It is
// the platform-neutral stand-in for a UI toolkit's observable collection:
// subscribers are notified synchronously on every mutation, and sorted or
// filtered projections are computed from the current contents on demand.
type Mirror[T any] struct {
	filter    func(T) bool
	items     []T
	listeners []func(Event[T])
	mu        sync.RWMutex
}

// NewMirror returns an empty mirror.
func NewMirror[T any]() *Mirror[T] {
	return &Mirror[T]{}
}

// Subscribe registers a listener invoked on every mutation. Listeners are
// called synchronously after the mutation is applied, outside the mirror
// lock.
func (m *Mirror[T]) Subscribe(fn func(Event[T])) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Snapshot returns a copy of the current contents.
func (m *Mirror[T]) Snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Sorted returns a copy of the current contents ordered by less.
func (m *Mirror[T]) Sorted(less func(a, b T) bool) []T {
	out := m.Snapshot()
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Filtered returns the entries matching the current filter predicate. A nil
// predicate matches everything.
func (m *Mirror[T]) Filtered() []T {
	m.mu.RLock()
	filter := m.filter
	items := make([]T, len(m.items))
	copy(items, m.items)
	m.mu.RUnlock()

	if filter == nil {
		return items
	}
	out := items[:0]
	for _, item := range items {
		if filter(item) {
			out = append(out, item)
		}
	}
	return out
}

// SetFilter replaces the filter predicate applied by Filtered. A nil
// predicate matches everything.
func (m *Mirror[T]) SetFilter(pred func(T) bool) {
	m.mu.Lock()
	m.filter = pred
	m.mu.Unlock()
	m.publish(Event[T]{Kind: EventFiltered})
}

// Len returns the number of entries.
func (m *Mirror[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Replace swaps the whole contents. Used only by the load-all operations.
func (m *Mirror[T]) Replace(items []T) {
	m.mu.Lock()
	m.items = make([]T, len(items))
	copy(m.items, items)
	m.mu.Unlock()
	m.publish(Event[T]{Kind: EventReloaded})
}

// Add appends one entry.
func (m *Mirror[T]) Add(item T) {
	m.mu.Lock()
	m.items = append(m.items, item)
	m.mu.Unlock()
	m.publish(Event[T]{Kind: EventAdded, Item: item})
}

// Update patches the first entry matching match with item.
func (m *Mirror[T]) Update(match func(T) bool, item T) {
	var patched bool
	m.mu.Lock()
	for i := range m.items {
		if match(m.items[i]) {
			m.items[i] = item
			patched = true
			break
		}
	}
	m.mu.Unlock()
	if patched {
		m.publish(Event[T]{Kind: EventUpdated, Item: item})
	}
}

// Remove deletes the first entry matching match.
func (m *Mirror[T]) Remove(match func(T) bool) {
	var removed T
	var found bool
	m.mu.Lock()
	for i := range m.items {
		if match(m.items[i]) {
			removed = m.items[i]
			m.items = append(m.items[:i], m.items[i+1:]...)
			found = true
			break
		}
	}
	m.mu.Unlock()
	if found {
		m.publish(Event[T]{Kind: EventRemoved, Item: removed})
	}
}

// Clear removes all entries.
func (m *Mirror[T]) Clear() {
	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()
	m.publish(Event[T]{Kind: EventReloaded})
}

func (m *Mirror[T]) publish(event Event[T]) {
	m.mu.RLock()
	listeners := make([]func(Event[T]), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(event)
	}
}
