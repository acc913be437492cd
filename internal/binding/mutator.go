package binding

import (
	"context"

	"github.com/sebasr/sensores-dashboard/internal/cache"
	"github.com/sebasr/sensores-dashboard/internal/store"
)

// Mutator wraps the gateway write operations with cache invalidation: a
// successful mutation drops every cache entry of the affected collection
// before returning, so the next read observes the write. A failed mutation
// leaves the cache untouched.
type Mutator struct {
	gateway store.Gateway
	cache   cache.QueryCache
}

// NewMutator creates a mutator over a gateway and cache.
func NewMutator(gateway store.Gateway, qc cache.QueryCache) *Mutator {
	return &Mutator{gateway: gateway, cache: qc}
}

// Create stores a new document and invalidates the collection.
func (m *Mutator) Create(ctx context.Context, collection string, fields store.Fields) (string, error) {
	id, err := m.gateway.Create(ctx, collection, fields)
	if err != nil {
		return "", err
	}
	m.cache.InvalidateCollection(collection)
	return id, nil
}

// Update applies a partial update and invalidates the collection.
func (m *Mutator) Update(ctx context.Context, collection, id string, fields store.Fields) error {
	if err := m.gateway.Update(ctx, collection, id, fields); err != nil {
		return err
	}
	m.cache.InvalidateCollection(collection)
	return nil
}

// Gateway exposes the underlying gateway for uncached reads.
func (m *Mutator) Gateway() store.Gateway {
	return m.gateway
}

// Delete removes a document and invalidates the collection.
func (m *Mutator) Delete(ctx context.Context, collection, id string) error {
	if err := m.gateway.Delete(ctx, collection, id); err != nil {
		return err
	}
	m.cache.InvalidateCollection(collection)
	return nil
}
