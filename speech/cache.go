package speech

import "sync"

// PayloadStore is an optional second cache layer (e.g. an on-disk store)
// consulted on memory misses and written through on puts.
type PayloadStore interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
}

// CacheStats tracks cache effectiveness.
type CacheStats struct {
	Hits      int64
	Misses    int64
	StoreHits int64
}

// Cache maps text to a previously synthesized payload, so identical
// read-aloud requests skip synthesis. Keys are exact strings: no
// normalization, no expiry. The owning panel clears the cache when its
// subject content changes.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Payload
	store   PayloadStore
	stats   CacheStats
}

// NewCache creates an empty in-memory cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Payload)}
}

// NewCacheWithStore creates a cache backed by a persistent payload store.
func NewCacheWithStore(store PayloadStore) *Cache {
	return &Cache{entries: make(map[string]Payload), store: store}
}

// Get looks up the payload for text.
func (c *Cache) Get(text string) (Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.entries[text]; ok {
		c.stats.Hits++
		return p, true
	}

	if c.store != nil {
		if raw, ok := c.store.Get(text); ok {
			p := Payload(raw)
			c.entries[text] = p
			c.stats.StoreHits++
			return p, true
		}
	}

	c.stats.Misses++
	return "", false
}

// Put stores the payload for text. Writes through to the persistent store
// on a best-effort basis.
func (c *Cache) Put(text string, p Payload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[text] = p
	if c.store != nil {
		_ = c.store.Put(text, []byte(p))
	}
}

// Clear discards every in-memory entry. The persistent store, if any, is
// left intact.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Payload)
}

// Len returns the number of in-memory entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a copy of the cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}
