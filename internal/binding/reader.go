// Package binding provides the reactive data-access layer between the HTTP
// views and the document store: read-through caching, value-sensitive
// refetching, live subscriptions and cache-invalidating mutations.
package binding

import (
	"context"

	"github.com/sebasr/sensores-dashboard/internal/cache"
	"github.com/sebasr/sensores-dashboard/internal/store"
)

// Reader is the read-through cache path shared by the bindings and the
// request handlers: check the cache, fall through to the gateway on a miss,
// repopulate. Bypassing skips the cache read but still repopulates, so a
// forced refresh warms the cache for everyone else.
type Reader struct {
	gateway store.Gateway
	cache   cache.QueryCache
}

// NewReader creates a reader over a gateway and cache.
func NewReader(gateway store.Gateway, qc cache.QueryCache) *Reader {
	return &Reader{gateway: gateway, cache: qc}
}

// ReadMany runs a collection query through the cache.
func (r *Reader) ReadMany(ctx context.Context, collection string, constraints []store.Constraint, bypassCache bool) ([]store.Record, error) {
	key := cache.QueryKey(collection, constraints)
	if !bypassCache {
		if records, ok := r.cache.Get(key); ok {
			return records, nil
		}
	}

	records, err := r.gateway.ReadMany(ctx, collection, constraints)
	if err != nil {
		return nil, err
	}
	r.cache.Put(key, records)
	return records, nil
}

// ReadOne runs a single-document lookup through the cache. Absence is
// cached too: a missing document stays a (nil, nil) answer until the entry
// expires or the collection is invalidated.
func (r *Reader) ReadOne(ctx context.Context, collection, id string, bypassCache bool) (*store.Record, error) {
	key := cache.DocKey(collection, id)
	if !bypassCache {
		if records, ok := r.cache.Get(key); ok {
			if len(records) == 0 {
				return nil, nil
			}
			rec := records[0]
			return &rec, nil
		}
	}

	record, err := r.gateway.ReadOne(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		r.cache.Put(key, []store.Record{})
		return nil, nil
	}
	r.cache.Put(key, []store.Record{*record})
	return record, nil
}

// Gateway exposes the underlying gateway for callers that need watches.
func (r *Reader) Gateway() store.Gateway {
	return r.gateway
}

// Cache exposes the underlying query cache.
func (r *Reader) Cache() cache.QueryCache {
	return r.cache
}
