// Package cache provides a small in-memory TTL cache.
package cache

import (
	"sync"
	"time"
)

// Observer is notified of hits and misses.
type Observer interface {
	CacheHit(cache string)
	CacheMiss(cache string)
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// TTL caches values per key for a fixed duration. Expired entries are
// replaced on the next Set and swept by Purge.
type TTL[T any] struct {
	name string
	ttl  time.Duration
	now  func() time.Time
	obs  Observer

	mu      sync.RWMutex
	entries map[string]entry[T]
}

// NewTTL creates a cache named name whose entries live for ttl.
func NewTTL[T any](name string, ttl time.Duration, obs Observer) *TTL[T] {
	return &TTL[T]{
		name:    name,
		ttl:     ttl,
		now:     time.Now,
		obs:     obs,
		entries: make(map[string]entry[T]),
	}
}

// WithClock replaces the time source.
func (c *TTL[T]) WithClock(now func() time.Time) *TTL[T] {
	c.now = now
	return c
}

// Get returns the cached value for key if it has not expired.
func (c *TTL[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		if c.obs != nil {
			c.obs.CacheMiss(c.name)
		}
		var zero T
		return zero, false
	}
	if c.obs != nil {
		c.obs.CacheHit(c.name)
	}
	return e.value, true
}

// Set stores v under key.
func (c *TTL[T]) Set(key string, v T) {
	c.mu.Lock()
	c.entries[key] = entry[T]{value: v, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops every entry, used after writes that change the source.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]entry[T])
	c.mu.Unlock()
}

// Purge removes expired entries and returns how many were dropped.
func (c *TTL[T]) Purge() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}
