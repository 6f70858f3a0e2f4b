package store

import (
	"sync"
	"time"
)

// Cache is an in-memory TTL cache for assembled API responses. Entries are
// whole response payloads keyed by their filter tuple; a superseding
// refresh simply overwrites whatever was there.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	value   any
	expires time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, v any) {
	c.SetTTL(key, v, c.ttl)
}

func (c *Cache) SetTTL(key string, v any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: v, expires: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Purge drops everything; called after any settings or mapping mutation so
// stale derived state is never served.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
