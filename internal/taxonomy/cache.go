package taxonomy

import "sync"

// IndexCache shares built concept indexes across concurrent filing workers,
// keyed by taxonomy name+vintage. Indexes are immutable, so a cached value
// is handed out without copying.
type IndexCache struct {
	mu      sync.RWMutex
	indexes map[string]*ConceptIndex
}

// NewIndexCache creates an empty cache.
func NewIndexCache() *IndexCache {
	return &IndexCache{indexes: make(map[string]*ConceptIndex)}
}

// Get returns the cached index for a taxonomy key, or nil.
func (c *IndexCache) Get(key string) *ConceptIndex {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexes[key]
}

// Put stores an index under a taxonomy key, replacing any previous entry.
func (c *IndexCache) Put(key string, ix *ConceptIndex) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexes[key] = ix
}

// GetOrBuild returns the cached index for key, building and caching it once
// if absent. Concurrent callers for the same key may race to build; the last
// write wins, which is harmless since builds are deterministic.
func (c *IndexCache) GetOrBuild(key string, build func() *ConceptIndex) *ConceptIndex {
	if ix := c.Get(key); ix != nil {
		return ix
	}
	ix := build()
	c.Put(key, ix)
	return ix
}
