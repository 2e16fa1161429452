package widgets

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/goliatone/go-board/components/board"
)

// RenderKey identifies one rendered frame of a component. Markup depends on
// the final size and on everything that feeds the chart options.
type RenderKey struct {
	Component string
	Size      board.Size
	Digest    string
}

// RenderCache memoizes final-frame markup across redraws at the same size.
type RenderCache interface {
	GetOrRender(key RenderKey, render func() (string, error)) (string, error)
	Forget(component string)
}

// ChartCache is an in-memory render cache. Entries expire after ttl; a
// non-positive ttl keeps them until the component is forgotten.
type ChartCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[RenderKey]cachedRender
	hits    int
}

type cachedRender struct {
	html    string
	expires time.Time
}

// NewChartCache builds a cache with the provided TTL.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[RenderKey]cachedRender),
	}
}

// GetOrRender returns a cached entry or renders and stores a new one.
// Failed renders are not cached.
func (c *ChartCache) GetOrRender(key RenderKey, render func() (string, error)) (string, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && c.ttl > 0 && c.now().After(entry.expires) {
		delete(c.entries, key)
		ok = false
	}
	if ok {
		c.hits++
	}
	c.mu.Unlock()
	if ok {
		return entry.html, nil
	}

	html, err := render()
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.entries[key] = cachedRender{html: html, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return html, nil
}

// Forget drops every entry of a component, e.g. when it is destroyed.
func (c *ChartCache) Forget(component string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.Component == component {
			delete(c.entries, key)
		}
	}
}

// Len reports the number of stored entries.
func (c *ChartCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Hits reports how many renders were served from the cache.
func (c *ChartCache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// optionsDigest hashes the settings and resolved series of a chart.
func optionsDigest(settings map[string]any, series []ChartSeries) string {
	b, err := json.Marshal(struct {
		Settings map[string]any `json:"settings"`
		Series   []ChartSeries  `json:"series"`
	}{settings, series})
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
