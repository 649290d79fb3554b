package cache

import (
	"depscan/internal/engine/module"
	"depscan/internal/shared/observability"
)

// Cache is the arena of all module dependency records discovered during one
// tool's lifetime, keyed by identity. Insert-if-absent only: at most one
// record per identity, never removed, never overwritten. The cache is not
// safe for concurrent use; each tool owns a private instance.
type Cache struct {
	byIdentity map[module.Identity]*module.Info
	byName     map[string]module.Identity
}

func New() *Cache {
	return &Cache{
		byIdentity: make(map[module.Identity]*module.Info),
		byName:     make(map[string]module.Identity),
	}
}

// Get returns the canonical record for id, if present.
func (c *Cache) Get(id module.Identity) (*module.Info, bool) {
	info, ok := c.byIdentity[id]
	return info, ok
}

// Lookup resolves a bare module name to whichever identity was recorded for
// it. Imports carry names, not kinds; the kind is only known once the module
// has been located, so re-encounters go through the name index.
func (c *Cache) Lookup(name string) (*module.Info, bool) {
	id, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return c.byIdentity[id], true
}

// Insert records info under its identity. The first record for an identity
// wins; a second insert for the same identity or name is a no-op and returns
// the already-cached record.
func (c *Cache) Insert(info *module.Info) *module.Info {
	if existing, ok := c.byIdentity[info.ID]; ok {
		return existing
	}
	if id, ok := c.byName[info.ID.Name]; ok {
		return c.byIdentity[id]
	}
	c.byIdentity[info.ID] = info
	c.byName[info.ID.Name] = info.ID
	observability.CachedModules.Set(float64(len(c.byIdentity)))
	return info
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	return len(c.byIdentity)
}

// Identities returns all cached identities in arbitrary order.
func (c *Cache) Identities() []module.Identity {
	ids := make([]module.Identity, 0, len(c.byIdentity))
	for id := range c.byIdentity {
		ids = append(ids, id)
	}
	return ids
}
