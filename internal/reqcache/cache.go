// Package reqcache memoizes read-only backend calls for a short time,
// scoped to one user session. Mutating operations are never cached,
// and entries are only written after a successful response, so a cache
// miss can never mask a backend failure.
package reqcache

import (
	"sync"
	"time"
)

// DefaultTTL bounds duplicate backend calls within a page load or two.
const DefaultTTL = 30 * time.Second

// Cache is the injected cache contract. Implementations must support
// concurrent readers.
type Cache interface {
	Get(key string) (any, bool)
	Put(key string, value any, ttl time.Duration)
}

type entry struct {
	value   any
	expires time.Time
}

// Memory is an in-memory Cache with lazy expiry: a stale entry is
// treated as absent on lookup and replaced by the next Put rather than
// actively evicted.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key, or found == false when absent
// or expired.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || m.now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

// Put stores value under key for ttl. A non-positive ttl uses
// DefaultTTL.
func (m *Memory) Put(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.mu.Lock()
	m.entries[key] = entry{value: value, expires: m.now().Add(ttl)}
	m.mu.Unlock()
}

// FetchFunc fetches the value on a cache miss.
type FetchFunc[T any] func() (T, error)

// GetOrCall returns the cached value for key, calling fetch on a miss.
// The fetched value is cached only when fetch succeeds; errors pass
// through untouched. The bool reports whether the value came from the
// cache.
func GetOrCall[T any](c Cache, key string, ttl time.Duration, fetch FetchFunc[T]) (T, bool, error) {
	if c != nil {
		if v, ok := c.Get(key); ok {
			if typed, ok := v.(T); ok {
				return typed, true, nil
			}
		}
	}
	value, err := fetch()
	if err != nil {
		var zero T
		return zero, false, err
	}
	if c != nil {
		c.Put(key, value, ttl)
	}
	return value, false, nil
}
