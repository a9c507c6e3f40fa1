package filter

import (
	"sync"
	"time"
)

// Clock abstracts time for deterministic tests.
type Clock func() time.Time

// Cache is a bounded TTL cache with oldest-entry eviction on overflow.
// Both expired-entry misses and capacity eviction keep the map size at or
// below the configured capacity.
type Cache[V any] struct {
	mu       sync.Mutex
	entries  map[string]cacheEntry[V]
	ttl      time.Duration
	capacity int
	now      Clock
}

type cacheEntry[V any] struct {
	value    V
	storedAt time.Time
}

// NewCache creates a cache with the given TTL and capacity. A nil clock
// defaults to time.Now.
func NewCache[V any](ttl time.Duration, capacity int, now Clock) *Cache[V] {
	if now == nil {
		now = time.Now
	}
	return &Cache[V]{
		entries:  make(map[string]cacheEntry[V]),
		ttl:      ttl,
		capacity: capacity,
		now:      now,
	}
}

// Get returns the cached value for key if present and fresh.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Put stores a value, evicting the oldest entry when over capacity.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry[V]{value: value, storedAt: c.now()}

	for len(c.entries) > c.capacity {
		var oldestKey string
		var oldestAt time.Time
		first := true
		for k, e := range c.entries {
			if first || e.storedAt.Before(oldestAt) {
				oldestKey = k
				oldestAt = e.storedAt
				first = false
			}
		}
		delete(c.entries, oldestKey)
	}
}

// Len reports the number of stored entries, including expired ones not yet
// swept by Get.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
