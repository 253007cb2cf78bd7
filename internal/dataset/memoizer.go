package dataset

import "sync"

// Memoizer is an explicit, swappable memoization policy for derived tables.
// Keys combine the snapshot content hash with a derivation name, so a cache
// can never serve results computed from different source bytes. Caching is
// an optimization only: a correct implementation produces identical results
// with NopMemoizer.
type Memoizer interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MapMemoizer is an in-memory Memoizer safe for concurrent readers.
type MapMemoizer struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewMapMemoizer creates an empty in-memory memoizer.
func NewMapMemoizer() *MapMemoizer {
	return &MapMemoizer{entries: make(map[string]any)}
}

// Get returns the cached value for key, if any.
func (m *MapMemoizer) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[key]
	return value, ok
}

// Set stores a value under key.
func (m *MapMemoizer) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

// Len reports the number of cached entries.
func (m *MapMemoizer) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// NopMemoizer caches nothing. It exists to prove, in tests and in
// production if needed, that every query is correct without caching.
type NopMemoizer struct{}

// Get always misses.
func (NopMemoizer) Get(string) (any, bool) { return nil, false }

// Set discards the value.
func (NopMemoizer) Set(string, any) {}

// Memoize returns the cached value for key or computes, stores, and
// returns it.
func Memoize[T any](m Memoizer, key string, compute func() T) T {
	if cached, ok := m.Get(key); ok {
		if value, ok := cached.(T); ok {
			return value
		}
	}
	value := compute()
	m.Set(key, value)
	return value
}
