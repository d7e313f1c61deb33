// Package contentcache holds full, parsed SessionContent in memory with a
// size-bounded, time-expiring policy so that browsing one session's full
// transcript does not retain every session's transcript forever.
package contentcache

import (
	"time"

	"github.com/ccboard/ccboard/internal/models"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// defaultSize caps the number of sessions held at once; a typical session
// transcript runs a few hundred KB to a few MB, so a full cache holds
// anywhere from under 100MB to around 1GB depending on transcript size.
const defaultSize = 256

// defaultTTL evicts an entry this long after it was last stored with Put.
// Reading an entry with Get does not extend its lifetime, so an entry that
// is read continuously still expires this long after its last Put.
const defaultTTL = 5 * time.Minute

// Cache wraps an expirable LRU keyed by SessionID.
type Cache struct {
	lru *lru.LRU[models.SessionID, models.SessionContent]
}

// New returns a Cache using the default size and TTL.
func New() *Cache {
	return NewWithLimits(defaultSize, defaultTTL)
}

// NewWithLimits returns a Cache with custom bounds, used by tests that
// need a small cache to exercise eviction deterministically.
func NewWithLimits(size int, ttl time.Duration) *Cache {
	return &Cache{lru: lru.NewLRU[models.SessionID, models.SessionContent](size, nil, ttl)}
}

// Get returns the cached content for id, if present and not expired.
func (c *Cache) Get(id models.SessionID) (models.SessionContent, bool) {
	return c.lru.Get(id)
}

// Put stores content for id, evicting the least-recently-used entry if the
// cache is at capacity.
func (c *Cache) Put(id models.SessionID, content models.SessionContent) {
	c.lru.Add(id, content)
}

// Invalidate removes id from the cache, used when its source file changes
// on disk so a stale transcript is never served after a reload.
func (c *Cache) Invalidate(id models.SessionID) {
	c.lru.Remove(id)
}

// Len returns the current number of cached entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}
