// Package cache provides a small thread-safe TTL cache. Entries expire
// purely by age; the only other way to drop them is Clear or a process
// restart.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value  T
	expiry time.Time
}

// Cache stores values of one type under string keys with a fixed TTL.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
	done    chan struct{}
}

// New creates a cache whose entries live for ttl, with a background sweep
// that reclaims expired entries.
func New[T any](ttl time.Duration) *Cache[T] {
	c := &Cache[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Get returns the cached value for key and whether it is still fresh.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiry) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{value: value, expiry: time.Now().Add(c.ttl)}
}

// Clear drops every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[T])
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the background sweep goroutine.
func (c *Cache[T]) Close() {
	close(c.done)
}

func (c *Cache[T]) sweep() {
	// A non-positive TTL makes every entry expire on read; sweep on a
	// floor interval instead of letting NewTicker panic.
	interval := c.ttl
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, e := range c.entries {
				if now.After(e.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}
