package enrich

import (
	"maps"
	"sync"

	"github.com/vault-md/launchdeck/internal/spacex"
)

// RocketCache maps rocket identifiers to rocket records for the lifetime of
// one dashboard session. Entries are never evicted; drop the cache to discard
// them.
type RocketCache struct {
	mu      sync.RWMutex
	rockets map[string]spacex.Rocket
}

// NewRocketCache returns an empty cache.
func NewRocketCache() *RocketCache {
	return &RocketCache{rockets: make(map[string]spacex.Rocket)}
}

// Get returns the cached rocket for id.
func (c *RocketCache) Get(id string) (spacex.Rocket, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.rockets[id]
	return r, ok
}

// Has reports whether id is cached.
func (c *RocketCache) Has(id string) bool {
	_, ok := c.Get(id)
	return ok
}

// Name returns the cached rocket name, or "" on a miss.
func (c *RocketCache) Name(id string) string {
	r, _ := c.Get(id)
	return r.Name
}

// Put stores r under its own identifier. Records without an identifier are
// ignored.
func (c *RocketCache) Put(r spacex.Rocket) {
	if r.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rockets[r.ID] = r
}

// Len returns the number of cached rockets.
func (c *RocketCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rockets)
}

// Names returns a copy of the id to name lookup used by the grids.
func (c *RocketCache) Names() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.rockets))
	for id, r := range c.rockets {
		out[id] = r.Name
	}
	return out
}

// Snapshot returns a copy of the cache contents.
func (c *RocketCache) Snapshot() map[string]spacex.Rocket {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.rockets)
}

// merge stores all records at once.
func (c *RocketCache) merge(rockets []spacex.Rocket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range rockets {
		c.rockets[r.ID] = r
	}
}
