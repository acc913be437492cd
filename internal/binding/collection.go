package binding

import (
	"context"
	"sync"

	"github.com/sebasr/sensores-dashboard/internal/cache"
	"github.com/sebasr/sensores-dashboard/internal/store"
)

// Result is the state a fetch binding exposes to its consumer.
type Result struct {
	Data    []store.Record
	Loading bool
	Err     string
}

// CollectionBinding is a cached fetch-on-change binding over one collection
// query. Bind re-runs the fetch only when the target changes by value (the
// serialized constraint key, not the slice instance), so rebuilding an
// equal constraint list reuses the cached entry instead of hitting the
// network. A generation counter guarantees that a stale in-flight fetch
// never overwrites the state of a newer target.
type CollectionBinding struct {
	mu sync.Mutex

	reader *Reader

	collection  string
	constraints []store.Constraint
	key         string
	bound       bool

	gen     uint64
	data    []store.Record
	loading bool
	err     string
	closed  bool

	updates chan struct{}
}

// NewCollectionBinding creates an unbound collection binding.
func NewCollectionBinding(reader *Reader) *CollectionBinding {
	return &CollectionBinding{
		reader:  reader,
		updates: make(chan struct{}, 1),
	}
}

// Bind points the binding at a collection query. A target equal by value to
// the current one is a no-op; a changed target starts a fresh fetch and
// clears the previous error.
func (b *CollectionBinding) Bind(ctx context.Context, collection string, constraints []store.Constraint) {
	key := cache.QueryKey(collection, constraints)

	b.mu.Lock()
	if b.closed || (b.bound && key == b.key) {
		b.mu.Unlock()
		return
	}
	b.collection = collection
	b.constraints = append([]store.Constraint(nil), constraints...)
	b.key = key
	b.bound = true
	b.mu.Unlock()

	b.fetch(ctx, false)
}

// Refetch forces a gateway call for the current target, bypassing the cache
// read but repopulating the cache with the result.
func (b *CollectionBinding) Refetch(ctx context.Context) {
	b.mu.Lock()
	bound := b.bound && !b.closed
	b.mu.Unlock()
	if bound {
		b.fetch(ctx, true)
	}
}

// Snapshot returns the current binding state.
func (b *CollectionBinding) Snapshot() Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Result{
		Data:    store.CloneRecords(b.data),
		Loading: b.loading,
		Err:     b.err,
	}
}

// Updates returns a coalescing channel that receives a signal whenever the
// binding state changes.
func (b *CollectionBinding) Updates() <-chan struct{} {
	return b.updates
}

// Close detaches the binding. A pending fetch resolving afterwards is a
// no-op; the underlying request is not cancelled.
func (b *CollectionBinding) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

func (b *CollectionBinding) fetch(ctx context.Context, bypassCache bool) {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.err = ""

	// A fresh cache entry resolves synchronously without entering the
	// loading state.
	if !bypassCache {
		if records, ok := b.reader.Cache().Get(b.key); ok {
			b.data = records
			b.loading = false
			b.mu.Unlock()
			b.notify()
			return
		}
	}

	collection := b.collection
	constraints := b.constraints
	b.loading = true
	b.mu.Unlock()
	b.notify()

	go func() {
		records, err := b.reader.ReadMany(ctx, collection, constraints, true)

		b.mu.Lock()
		if b.closed || gen != b.gen {
			b.mu.Unlock()
			return
		}
		b.loading = false
		if err != nil {
			b.err = err.Error()
		} else {
			b.data = records
		}
		b.mu.Unlock()
		b.notify()
	}()
}

func (b *CollectionBinding) notify() {
	select {
	case b.updates <- struct{}{}:
	default:
	}
}
