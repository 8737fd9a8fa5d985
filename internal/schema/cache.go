package schema

import "sync"

// CacheKey identifies one reflection result: the operation kind plus the
// canonical filter representation. Callers must canonicalize the filter
// before lookup — a nil schema and an explicit default schema are distinct
// keys by design.
type CacheKey struct {
	Op       string
	Database string
	Schema   string
	Table    string
	Extra    string
}

// Cache memoizes reflection results for the lifetime of one Inspector.
// A second connection gets a fresh cache.
//
// Concurrency: lookups and stores are guarded by a mutex, but computation
// happens outside it — two goroutines racing on a cold key may both
// compute, and the second store overwrites the first. That is safe because
// recomputing against the same catalog yields an equal value; writes are
// idempotent.
type Cache struct {
	mu      sync.RWMutex
	entries map[CacheKey]any
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[CacheKey]any)}
}

// Do returns the cached value for key, computing and storing it on a miss.
func (c *Cache) Do(key CacheKey, compute func() (any, error)) (any, error) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
	return v, nil
}

// Invalidate drops every cached entry, forcing the next reflection call to
// re-scan the catalog.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[CacheKey]any)
	c.mu.Unlock()
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
