package server

import (
	"sync"
	"time"
)

// pageCache holds the markup each served page was rendered with until its
// session connects and adopts it.
type pageCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]pageEntry
}

type pageEntry struct {
	markup  string
	created time.Time
}

func newPageCache(ttl time.Duration) *pageCache {
	return &pageCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]pageEntry),
	}
}

// put stores markup under id and drops expired entries.
func (c *pageCache) put(id, markup string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.created) > c.ttl {
			delete(c.entries, key)
		}
	}
	c.entries[id] = pageEntry{markup: markup, created: now}
}

// take removes and returns the markup stored under id.
func (c *pageCache) take(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return "", false
	}
	delete(c.entries, id)
	if c.now().Sub(e.created) > c.ttl {
		return "", false
	}
	return e.markup, true
}

func (c *pageCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
