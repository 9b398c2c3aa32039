// Package cache memoizes rendered SVG documents. A deep plant can
// carry hundreds of thousands of vertices, and previews request the
// same geometry repeatedly between rebuilds.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/piedoom/go-planty/plant"
)

// RenderCache caches rendered documents keyed by a hash of the plant's
// identity, its options and the build timestamp. A rebuild or an
// options edit changes the key, so stale renders are never served.
type RenderCache struct {
	mu        sync.RWMutex
	cache     map[string]string
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewRenderCache creates a cache holding at most maxSize documents.
// When full, an arbitrary entry is evicted. Set maxSize to 0 for an
// unbounded cache.
func NewRenderCache(maxSize int) *RenderCache {
	return &RenderCache{
		cache:   make(map[string]string),
		maxSize: maxSize,
	}
}

// Key builds the cache key for one render of a plant.
func Key(id uuid.UUID, o plant.Options, builtAt time.Time) string {
	h := sha256.New()
	h.Write(id[:])

	buf := make([]byte, 8)
	for _, f := range []float64{o.RotationAngle, o.SegmentLength, o.LineWidth} {
		binary.BigEndian.PutUint64(buf, math.Float64bits(f))
		h.Write(buf)
	}
	binary.BigEndian.PutUint64(buf, uint64(o.Iterations))
	h.Write(buf)
	binary.BigEndian.PutUint64(buf, uint64(builtAt.UnixNano()))
	h.Write(buf)

	h.Write([]byte(o.LineColor))
	h.Write([]byte(o.Axiom))
	for _, r := range o.Rules {
		h.Write([]byte(r))
		h.Write([]byte{0})
	}

	return string(h.Sum(nil))
}

// Get retrieves a cached document.
func (c *RenderCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if doc, ok := c.cache[key]; ok {
		c.hits++
		return doc, true
	}
	c.misses++
	return "", false
}

// Put stores a rendered document.
func (c *RenderCache) Put(key, doc string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			c.evictions++
			break
		}
	}
	c.cache[key] = doc
}

// GetOrRender retrieves from cache or renders and caches the result.
func (c *RenderCache) GetOrRender(key string, render func() string) string {
	if doc, ok := c.Get(key); ok {
		return doc
	}
	doc := render()
	c.Put(key, doc)
	return doc
}

// Clear removes all entries from the cache.
func (c *RenderCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]string)
}

// Size returns the current number of cached documents.
func (c *RenderCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Stats returns cache statistics.
func (c *RenderCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}
