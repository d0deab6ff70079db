package index

import (
	"cmp"
	"sync"

	"github.com/google/btree"
)

const orderedMapDegree = 16

type mapEntry[K cmp.Ordered, V any] struct {
	key   K
	value V
}

// OrderedMap is a key-unique ordered map safe for concurrent use. Each
// operation is atomic with respect to a single key. Iteration order is
// ascending key order regardless of insertion order.
type OrderedMap[K cmp.Ordered, V any] struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[mapEntry[K, V]]
}

// NewOrderedMap creates an empty ordered map.
func NewOrderedMap[K cmp.Ordered, V any]() *OrderedMap[K, V] {
	less := func(a, b mapEntry[K, V]) bool {
		return a.key < b.key
	}
	return &OrderedMap[K, V]{
		tree: btree.NewG(orderedMapDegree, less),
	}
}

// Insert adds a key/value pair. It returns false if the key already exists,
// leaving the existing value untouched.
func (m *OrderedMap[K, V]) Insert(key K, value V) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tree.Get(mapEntry[K, V]{key: key}); ok {
		return false
	}
	m.tree.ReplaceOrInsert(mapEntry[K, V]{key: key, value: value})
	return true
}

// Upsert adds a key/value pair, replacing any existing value. It returns
// true if the key was already present.
func (m *OrderedMap[K, V]) Upsert(key K, value V) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, replaced := m.tree.ReplaceOrInsert(mapEntry[K, V]{key: key, value: value})
	return replaced
}

// Erase removes a key. It returns false if the key was not present.
func (m *OrderedMap[K, V]) Erase(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, removed := m.tree.Delete(mapEntry[K, V]{key: key})
	return removed
}

// Find looks up the value stored under key.
func (m *OrderedMap[K, V]) Find(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.tree.Get(mapEntry[K, V]{key: key})
	if !ok {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Contains reports whether key is present.
func (m *OrderedMap[K, V]) Contains(key K) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.tree.Has(mapEntry[K, V]{key: key})
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.tree.Len()
}

// Ascend visits entries in ascending key order while fn returns true.
// fn must not call back into the map.
func (m *OrderedMap[K, V]) Ascend(fn func(key K, value V) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.tree.Ascend(func(entry mapEntry[K, V]) bool {
		return fn(entry.key, entry.value)
	})
}

// Clear removes all entries.
func (m *OrderedMap[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tree.Clear(false)
}
