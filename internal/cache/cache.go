// Package cache provides the time-boxed query cache in front of the
// document store.
package cache

import (
	"time"

	"github.com/sebasr/sensores-dashboard/internal/store"
)

// DefaultTTL is the fixed lifetime of a cache entry.
const DefaultTTL = 30 * time.Second

// QueryCache maps derived query keys to captured result sets. Entries are
// valid while younger than the TTL; mutations must invalidate the affected
// collection so later reads observe the write. Implementations are
// constructor-injected, never package-level singletons, so tests can run
// against isolated instances.
type QueryCache interface {
	// Get returns the cached records and true on a fresh hit.
	Get(key string) ([]store.Record, bool)

	// Put overwrites any existing entry, stamping the current time.
	Put(key string, records []store.Record)

	// InvalidateCollection removes every entry derived from the collection.
	InvalidateCollection(collection string)

	// Clear drops all entries.
	Clear()
}

// QueryKey derives the cache key for a collection query. The constraint
// serialization is order-sensitive and stable, so logically identical
// queries always map to the same key.
func QueryKey(collection string, constraints []store.Constraint) string {
	return collection + ":" + store.Serialize(constraints)
}

// DocKey derives the cache key for a single-document lookup.
func DocKey(collection, id string) string {
	return collection + ":doc:" + id
}

// collectionPrefix is the shared prefix of every key derived from a
// collection, for both query and document keys.
func collectionPrefix(collection string) string {
	return collection + ":"
}
