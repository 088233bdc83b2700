package cache

import (
	"sync"

	"github.com/flowarts/pictograph/internal/placement"
)

// KeyCache holds a table's key set between writes so repeated resolves do
// not re-read every key from the database.
type KeyCache struct {
	m     sync.Mutex
	keys  placement.KeySet
	valid bool
}

func NewKeyCache() *KeyCache {
	return &KeyCache{}
}

// Get returns a copy of the cached key set, if any.
func (c *KeyCache) Get() (placement.KeySet, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if !c.valid {
		return nil, false
	}
	return copyKeys(c.keys), true
}

func (c *KeyCache) Set(keys placement.KeySet) {
	c.m.Lock()
	defer c.m.Unlock()
	c.keys = copyKeys(keys)
	c.valid = true
}

// Add records a newly written key without invalidating the cache.
func (c *KeyCache) Add(key string) {
	c.m.Lock()
	defer c.m.Unlock()
	if c.valid {
		c.keys[key] = struct{}{}
	}
}

func (c *KeyCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.keys = nil
	c.valid = false
}

func copyKeys(keys placement.KeySet) placement.KeySet {
	out := make(placement.KeySet, len(keys))
	for k := range keys {
		out[k] = struct{}{}
	}
	return out
}
