package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/sebasr/sensores-dashboard/internal/store"
)

type memoryEntry struct {
	records    []store.Record
	capturedAt time.Time
}

// MemoryCache is the in-process QueryCache. Expired entries are evicted
// lazily on read; correctness only depends on the age check, not on
// eviction timing.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates a memory cache. A non-positive ttl selects
// DefaultTTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements QueryCache.Get.
func (c *MemoryCache) Get(key string) ([]store.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.capturedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return store.CloneRecords(entry.records), true
}

// Put implements QueryCache.Put.
func (c *MemoryCache) Put(key string, records []store.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		records:    store.CloneRecords(records),
		capturedAt: c.now(),
	}
}

// InvalidateCollection implements QueryCache.InvalidateCollection.
func (c *MemoryCache) InvalidateCollection(collection string) {
	prefix := collectionPrefix(collection)

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Clear implements QueryCache.Clear.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]memoryEntry)
}
