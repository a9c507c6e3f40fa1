package filter

import (
	"fmt"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for cache tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCache_GetPut(t *testing.T) {
	clock := newFakeClock()
	cache := NewCache[int](time.Minute, 10, clock.Now)

	if _, ok := cache.Get("a"); ok {
		t.Error("expected miss on empty cache")
	}

	cache.Put("a", 42)
	value, ok := cache.Get("a")
	if !ok || value != 42 {
		t.Errorf("expected (42, true), got (%d, %v)", value, ok)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	clock := newFakeClock()
	cache := NewCache[string](time.Minute, 10, clock.Now)

	cache.Put("a", "x")

	clock.Advance(59 * time.Second)
	if _, ok := cache.Get("a"); !ok {
		t.Error("entry should still be fresh at 59s")
	}

	clock.Advance(time.Second)
	if _, ok := cache.Get("a"); ok {
		t.Error("entry should expire at exactly the TTL")
	}
}

func TestCache_OldestEviction(t *testing.T) {
	clock := newFakeClock()
	cache := NewCache[int](time.Hour, 3, clock.Now)

	for i := 0; i < 4; i++ {
		cache.Put(fmt.Sprintf("k%d", i), i)
		clock.Advance(time.Second)
	}

	if cache.Len() != 3 {
		t.Fatalf("expected 3 entries after eviction, got %d", cache.Len())
	}
	if _, ok := cache.Get("k0"); ok {
		t.Error("oldest entry k0 should be evicted")
	}
	for i := 1; i < 4; i++ {
		if _, ok := cache.Get(fmt.Sprintf("k%d", i)); !ok {
			t.Errorf("entry k%d should survive", i)
		}
	}
}

func TestCache_OverwriteRefreshesAge(t *testing.T) {
	clock := newFakeClock()
	cache := NewCache[int](time.Hour, 2, clock.Now)

	cache.Put("a", 1)
	clock.Advance(time.Second)
	cache.Put("b", 2)
	clock.Advance(time.Second)
	cache.Put("a", 3) // refresh: b is now oldest
	clock.Advance(time.Second)
	cache.Put("c", 4)

	if _, ok := cache.Get("b"); ok {
		t.Error("b should be evicted as oldest")
	}
	if value, ok := cache.Get("a"); !ok || value != 3 {
		t.Errorf("expected refreshed a=3, got (%d, %v)", value, ok)
	}
}
