// Package uicache caches resolved click coordinates so repeat commands
// against the same target skip the expensive resolution path entirely.
package uicache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long a cached coordinate stays valid.
const DefaultTTL = 5 * time.Minute

// key identifies one cached coordinate. Both parts are stored lowercased so
// lookups are case-insensitive.
type key struct {
	App    string
	Target string
}

type entry struct {
	x, y    int
	savedAt time.Time
}

// Cache is a TTL-bounded map from (application, target description) to a
// screen coordinate. Entries past their TTL are treated as absent and
// removed lazily on lookup; there is no background sweep and no size bound.
type Cache struct {
	mu      sync.Mutex
	entries map[key]entry
	ttl     time.Duration
	hits    int
	misses  int
	now     func() time.Time // replaced in tests
}

// New creates a cache. A non-positive ttl uses DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[key]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached coordinate for (app, target). An expired entry
// counts as a miss and is deleted as a side effect of the lookup.
func (c *Cache) Get(app, target string) (x, y int, ok bool) {
	k := key{App: strings.ToLower(app), Target: strings.ToLower(target)}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, present := c.entries[k]
	if present && c.now().Sub(e.savedAt) < c.ttl {
		c.hits++
		return e.x, e.y, true
	}
	if present {
		delete(c.entries, k)
	}
	c.misses++
	return 0, 0, false
}

// Set inserts or overwrites the coordinate for (app, target), timestamped now.
func (c *Cache) Set(app, target string, x, y int) {
	k := key{App: strings.ToLower(app), Target: strings.ToLower(target)}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = entry{x: x, y: y, savedAt: c.now()}
}

// InvalidateApp removes all entries for the given app (case-insensitive)
// and returns how many were removed.
func (c *Cache) InvalidateApp(app string) int {
	appLower := strings.ToLower(app)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k := range c.entries {
		if k.App == appLower {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// InvalidateAll clears the cache and returns how many entries were removed.
func (c *Cache) InvalidateAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := len(c.entries)
	c.entries = make(map[key]entry)
	return removed
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Entries    int     `yaml:"entries"     json:"entries"`
	Hits       int     `yaml:"hits"        json:"hits"`
	Misses     int     `yaml:"misses"      json:"misses"`
	HitRate    float64 `yaml:"hit_rate"    json:"hit_rate"` // percent
	TTLSeconds int     `yaml:"ttl_seconds" json:"ttl_seconds"`
}

// Stats returns current counters. HitRate is a percentage over all lookups.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Entries:    len(c.entries),
		Hits:       c.hits,
		Misses:     c.misses,
		TTLSeconds: int(c.ttl.Seconds()),
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total) * 100
	}
	return s
}
