package tspath

import "sync"

// Cache memoizes alias tables per project root. It is an explicit value
// owned by the caller (typically one per generation context) rather than
// process-global state, so invalidation is under caller control and two
// builds with different lifetimes never share staleness.
type Cache struct {
	mu     sync.Mutex
	tables map[string]*AliasTable
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{tables: make(map[string]*AliasTable)}
}

// Load returns the alias table for a project root, loading and memoizing it
// on first use. The cached table reflects the configuration as of that
// first load; callers that change the config within the cache's lifetime
// must Invalidate.
func (c *Cache) Load(projectRoot string) *AliasTable {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tables[projectRoot]; ok {
		return t
	}
	t := Load(projectRoot)
	c.tables[projectRoot] = t
	return t
}

// Invalidate drops the cached table for a project root; the next Load
// re-reads the configuration.
func (c *Cache) Invalidate(projectRoot string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tables, projectRoot)
}
