// Package cache provides an in-process TTL cache with an injectable clock.
package cache

import (
	"sync"
	"time"
)

// Clock tells the cache what time it is.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL caches values for a fixed duration after they are set.
// It is safe for concurrent use.
type TTL[K comparable, V any] struct {
	ttl   time.Duration
	clock Clock

	mu      sync.RWMutex
	entries map[K]entry[V]

	hits   uint64
	misses uint64
}

// Stats contains cache counters.
type Stats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// NewTTL creates a cache. A nil clock uses SystemClock. A non-positive ttl
// disables caching: Set is a no-op and Get always misses.
func NewTTL[K comparable, V any](ttl time.Duration, clock Clock) *TTL[K, V] {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TTL[K, V]{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[K]entry[V]),
	}
}

// Get returns the value for key if it has not expired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	if !now.Before(e.expiresAt) {
		delete(c.entries, key)
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Set stores value under key until now+ttl.
func (c *TTL[K, V]) Set(key K, value V) {
	if c.ttl <= 0 {
		return
	}
	expiresAt := c.clock.Now().Add(c.ttl)

	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Delete removes key.
func (c *TTL[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Purge removes every expired entry and returns how many were removed.
func (c *TTL[K, V]) Purge() int {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *TTL[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *TTL[K, V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
