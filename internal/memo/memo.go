// Package memo provides a small TTL cache for pure computations keyed by
// their inputs.
package memo

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

type entry[V any] struct {
	value   V
	stored  time.Time
	expires time.Time
}

// Cache memoises values by key. A zero TTL never expires entries; a zero
// size never evicts.
type Cache[K comparable, V any] struct {
	clock   quartz.Clock
	ttl     time.Duration
	maxSize int

	mu      sync.Mutex
	entries map[K]entry[V]
	hits    uint64
	misses  uint64
}

// New creates a cache. A nil clock uses the real clock.
func New[K comparable, V any](clock quartz.Clock, ttl time.Duration, maxSize int) *Cache[K, V] {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Cache[K, V]{
		clock:   clock,
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[K]entry[V]),
	}
}

// Get returns the cached value for key if it is present and fresh.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key, c.clock.Now())
}

func (c *Cache[K, V]) getLocked(key K, now time.Time) (V, bool) {
	e, ok := c.entries[key]
	if ok && c.ttl > 0 && !now.Before(e.expires) {
		delete(c.entries, key)
		ok = false
	}
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Set stores value under key.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictLocked(now)
	}
	c.entries[key] = entry[V]{value: value, stored: now, expires: now.Add(c.ttl)}
}

// Do returns the cached value for key, computing and storing it with fn on a
// miss. fn runs without the lock held and must be pure.
func (c *Cache[K, V]) Do(key K, fn func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := fn()
	c.Set(key, v)
	return v
}

// Len returns the number of stored entries, fresh or not.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops expired entries and returns how many were removed.
func (c *Cache[K, V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.purgeLocked(c.clock.Now())
}

// Stats returns hit and miss counts.
func (c *Cache[K, V]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache[K, V]) purgeLocked(now time.Time) int {
	if c.ttl <= 0 {
		return 0
	}
	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// evictLocked makes room for one entry: expired entries first, then the
// oldest one.
func (c *Cache[K, V]) evictLocked(now time.Time) {
	if c.purgeLocked(now) > 0 {
		return
	}
	var (
		oldestKey K
		oldest    time.Time
		found     bool
	)
	for k, e := range c.entries {
		if !found || e.stored.Before(oldest) {
			oldestKey, oldest, found = k, e.stored, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
	}
}
