package binding

import (
	"context"
	"sync"

	"github.com/sebasr/sensores-dashboard/internal/cache"
	"github.com/sebasr/sensores-dashboard/internal/store"
)

// DocResult is the state a document binding exposes. Data is nil while
// loading and for a document that does not exist.
type DocResult struct {
	Data    *store.Record
	Loading bool
	Err     string
}

// DocumentBinding is the single-document counterpart of CollectionBinding:
// cached fetch-on-change keyed by (collection, id), with the same stale
// fetch suppression.
type DocumentBinding struct {
	mu sync.Mutex

	reader *Reader

	collection string
	id         string
	bound      bool

	gen     uint64
	data    *store.Record
	loading bool
	err     string
	closed  bool

	updates chan struct{}
}

// NewDocumentBinding creates an unbound document binding.
func NewDocumentBinding(reader *Reader) *DocumentBinding {
	return &DocumentBinding{
		reader:  reader,
		updates: make(chan struct{}, 1),
	}
}

// Bind points the binding at a document. Re-binding to the same
// (collection, id) is a no-op.
func (b *DocumentBinding) Bind(ctx context.Context, collection, id string) {
	b.mu.Lock()
	if b.closed || (b.bound && collection == b.collection && id == b.id) {
		b.mu.Unlock()
		return
	}
	b.collection = collection
	b.id = id
	b.bound = true
	b.mu.Unlock()

	b.fetch(ctx, false)
}

// Refetch forces a gateway call bypassing the cache read.
func (b *DocumentBinding) Refetch(ctx context.Context) {
	b.mu.Lock()
	bound := b.bound && !b.closed
	b.mu.Unlock()
	if bound {
		b.fetch(ctx, true)
	}
}

// Snapshot returns the current binding state.
func (b *DocumentBinding) Snapshot() DocResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	res := DocResult{Loading: b.loading, Err: b.err}
	if b.data != nil {
		rec := b.data.Clone()
		res.Data = &rec
	}
	return res
}

// Updates returns the coalescing change notification channel.
func (b *DocumentBinding) Updates() <-chan struct{} {
	return b.updates
}

// Close detaches the binding; pending fetches become no-ops.
func (b *DocumentBinding) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

func (b *DocumentBinding) fetch(ctx context.Context, bypassCache bool) {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.err = ""

	if !bypassCache {
		if records, ok := b.reader.Cache().Get(cache.DocKey(b.collection, b.id)); ok {
			if len(records) == 0 {
				b.data = nil
			} else {
				rec := records[0]
				b.data = &rec
			}
			b.loading = false
			b.mu.Unlock()
			b.notify()
			return
		}
	}

	collection, id := b.collection, b.id
	b.loading = true
	b.mu.Unlock()
	b.notify()

	go func() {
		record, err := b.reader.ReadOne(ctx, collection, id, true)

		b.mu.Lock()
		if b.closed || gen != b.gen {
			b.mu.Unlock()
			return
		}
		b.loading = false
		if err != nil {
			b.err = err.Error()
		} else {
			b.data = record
		}
		b.mu.Unlock()
		b.notify()
	}()
}

func (b *DocumentBinding) notify() {
	select {
	case b.updates <- struct{}{}:
	default:
	}
}
