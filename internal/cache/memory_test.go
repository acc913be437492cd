package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebasr/sensores-dashboard/internal/store"
)

func testRecords() []store.Record {
	return []store.Record{
		{ID: "r1", Fields: store.Fields{"value": 1.0}},
		{ID: "r2", Fields: store.Fields{"value": 2.0}},
	}
}

// frozenCache returns a memory cache whose clock only advances through the
// returned function.
func frozenCache(ttl time.Duration) (*MemoryCache, func(d time.Duration)) {
	c := NewMemoryCache(ttl)
	current := time.Unix(1700000000, 0)
	c.now = func() time.Time { return current }
	return c, func(d time.Duration) { current = current.Add(d) }
}

func TestMemoryCache_HitWithinTTL(t *testing.T) {
	c, advance := frozenCache(30 * time.Second)

	c.Put("readings:q", testRecords())
	advance(29 * time.Second)

	got, ok := c.Get("readings:q")
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestMemoryCache_MissAtTTLBoundary(t *testing.T) {
	c, advance := frozenCache(30 * time.Second)

	c.Put("readings:q", testRecords())
	advance(30 * time.Second)

	_, ok := c.Get("readings:q")
	assert.False(t, ok)
}

func TestMemoryCache_MissAfterTTL(t *testing.T) {
	c, advance := frozenCache(30 * time.Second)

	c.Put("readings:q", testRecords())
	advance(31 * time.Second)

	_, ok := c.Get("readings:q")
	assert.False(t, ok)
}

func TestMemoryCache_PutRestampsAge(t *testing.T) {
	c, advance := frozenCache(30 * time.Second)

	c.Put("readings:q", testRecords())
	advance(20 * time.Second)
	c.Put("readings:q", testRecords())
	advance(20 * time.Second)

	_, ok := c.Get("readings:q")
	assert.True(t, ok, "second put should have reset the entry age")
}

func TestMemoryCache_InvalidateCollection(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	c.Put(QueryKey("readings", nil), testRecords())
	c.Put(DocKey("readings", "r1"), testRecords()[:1])
	c.Put(QueryKey("devices", nil), testRecords())

	c.InvalidateCollection("readings")

	_, ok := c.Get(QueryKey("readings", nil))
	assert.False(t, ok)
	_, ok = c.Get(DocKey("readings", "r1"))
	assert.False(t, ok)

	// Other collections keep their entries.
	_, ok = c.Get(QueryKey("devices", nil))
	assert.True(t, ok)
}

func TestMemoryCache_InvalidatePrefixDoesNotCrossCollections(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	c.Put(QueryKey("readings", nil), testRecords())
	c.Put(QueryKey("readings_archive", nil), testRecords())

	c.InvalidateCollection("readings")

	_, ok := c.Get(QueryKey("readings_archive", nil))
	assert.True(t, ok, "similarly named collection must survive invalidation")
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	c.Put(QueryKey("readings", nil), testRecords())
	c.Put(QueryKey("devices", nil), testRecords())

	c.Clear()

	_, ok := c.Get(QueryKey("readings", nil))
	assert.False(t, ok)
	_, ok = c.Get(QueryKey("devices", nil))
	assert.False(t, ok)
}

func TestMemoryCache_ReturnsClones(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	c.Put("readings:q", testRecords())

	first, ok := c.Get("readings:q")
	require.True(t, ok)
	first[0].Fields["value"] = 99.0

	second, ok := c.Get("readings:q")
	require.True(t, ok)
	assert.Equal(t, 1.0, second[0].Fields["value"], "cached records must be isolated from callers")
}

func TestQueryKey_Deterministic(t *testing.T) {
	constraints := []store.Constraint{
		store.Where("deviceId", store.OpEqual, "d1"),
		store.OrderBy("ts", store.Descending),
		store.Limit(10),
	}
	same := []store.Constraint{
		store.Where("deviceId", store.OpEqual, "d1"),
		store.OrderBy("ts", store.Descending),
		store.Limit(10),
	}

	assert.Equal(t, QueryKey("readings", constraints), QueryKey("readings", same))
}

func TestQueryKey_DistinguishesConstraintOrder(t *testing.T) {
	a := []store.Constraint{store.Where("a", store.OpEqual, 1), store.Limit(5)}
	b := []store.Constraint{store.Limit(5), store.Where("a", store.OpEqual, 1)}

	assert.NotEqual(t, QueryKey("readings", a), QueryKey("readings", b))
}

func TestDocKey_Shape(t *testing.T) {
	assert.Equal(t, "devices:doc:abc", DocKey("devices", "abc"))
}
