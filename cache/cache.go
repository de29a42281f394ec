// Package cache provides the in-memory result cache for crawl envelopes,
// keyed by a canonical serialization of (URL, option set).
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/crawlio/crawlio/models"
)

// entry holds a cached result with its creation timestamp.
type entry struct {
	result    *models.CrawlResult
	createdAt time.Time
}

// Cache is a TTL-bounded in-memory cache for crawl results.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	ttl        time.Duration
}

// New creates a Cache holding at most maxEntries results for up to ttl each.
// A background goroutine evicts expired entries every 5 minutes.
func New(maxEntries int, ttl time.Duration) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}

	go c.cleanupLoop()
	return c
}

// Key derives the cache key from the target URL and the full option set.
// Options marshal with deterministic field order (and sorted map keys), so
// two requests with equal URL and options always share a key — they are
// cache-equivalent by construction. MaxAge is a read policy, not part of the
// rendered content, so it is excluded from the key.
func Key(url string, opts *models.CrawlOptions) string {
	k := *opts
	k.MaxAge = 0
	canonical, err := json.Marshal(&k)
	if err != nil {
		canonical = nil
	}

	h := sha256.New()
	h.Write([]byte(url))
	h.Write([]byte("|"))
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached result if it exists and is younger than both the
// cache TTL and maxAge. maxAge is in milliseconds; maxAge <= 0 disables the
// lookup entirely (callers default it, so only an explicit negative reaches
// here in practice). Returns the result and whether it was a hit.
func (c *Cache) Get(key string, maxAgeMs int) (*models.CrawlResult, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	age := time.Since(e.createdAt)
	if age > c.ttl {
		return nil, false
	}
	if age > time.Duration(maxAgeMs)*time.Millisecond {
		return nil, false
	}

	return e.result, true
}

// Set stores a result. If the cache is at capacity, a random entry is evicted
// to make room (map iteration order is random in Go).
func (c *Cache) Set(key string, result *models.CrawlResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		result:    result,
		createdAt: time.Now(),
	}
}

// cleanupLoop evicts entries older than the TTL every 5 minutes.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-c.ttl)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
