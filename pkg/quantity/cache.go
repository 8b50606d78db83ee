package quantity

import (
	"sync"

	"github.com/matzehuels/ifcqto/pkg/ifc"
)

// VolumeCache memoizes [ReadVolume] by element id. A cache belongs to one
// loaded model; the model graph is immutable, so entries never go stale and
// are dropped together when the model is released (or on [VolumeCache.Reset]).
//
// VolumeCache is safe for concurrent use.
type VolumeCache struct {
	mu      sync.RWMutex
	entries map[int64]Volume
	hits    int
	misses  int
}

// NewVolumeCache creates an empty cache.
func NewVolumeCache() *VolumeCache {
	return &VolumeCache{entries: make(map[int64]Volume)}
}

// Get returns the volume of el, reading and storing it on first use.
func (c *VolumeCache) Get(el *ifc.Element) Volume {
	c.mu.RLock()
	v, ok := c.entries[el.ID]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return v
	}

	v = ReadVolume(el)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.entries[el.ID]; ok {
		c.hits++
		return cached
	}
	c.entries[el.ID] = v
	c.misses++
	return v
}

// Len returns the number of cached elements.
func (c *VolumeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns the hit and miss counts since creation or the last reset.
func (c *VolumeCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Reset drops all entries and counters.
func (c *VolumeCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int64]Volume)
	c.hits, c.misses = 0, 0
}
