package binding

import (
	"context"
	"sync"

	"github.com/sebasr/sensores-dashboard/internal/cache"
	"github.com/sebasr/sensores-dashboard/internal/store"
)

// LiveBinding keeps exactly one live collection subscription open at a
// time. Switching targets closes the previous subscription before opening
// the next, and Close is a deterministic teardown: after it returns no
// further state updates happen. Subscriptions bypass the cache entirely;
// they are fresh by construction.
type LiveBinding struct {
	mu sync.Mutex

	gateway store.Gateway

	key         string
	unsubscribe func()
	gen         uint64

	data   []store.Record
	closed bool

	updates chan struct{}
}

// NewLiveBinding creates an inactive live binding.
func NewLiveBinding(gateway store.Gateway) *LiveBinding {
	return &LiveBinding{
		gateway: gateway,
		updates: make(chan struct{}, 1),
	}
}

// Watch subscribes to a collection query, replacing data on every emission.
// Watching the current target again is a no-op; a new target tears the old
// subscription down first so a stale subscription can never update state
// after the target changed.
func (b *LiveBinding) Watch(ctx context.Context, collection string, constraints []store.Constraint) {
	key := cache.QueryKey(collection, constraints)

	b.mu.Lock()
	if b.closed || key == b.key {
		b.mu.Unlock()
		return
	}

	previous := b.unsubscribe
	b.unsubscribe = nil
	b.key = key
	b.gen++
	gen := b.gen
	b.mu.Unlock()

	if previous != nil {
		previous()
	}

	unsubscribe := b.gateway.WatchCollection(ctx, collection, constraints, func(records []store.Record) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.closed || gen != b.gen {
			return
		}
		b.data = records
		b.notifyLocked()
	})

	b.mu.Lock()
	if b.closed || gen != b.gen {
		// Target changed while subscribing; drop the fresh subscription.
		b.mu.Unlock()
		unsubscribe()
		return
	}
	b.unsubscribe = unsubscribe
	b.mu.Unlock()
}

// Data returns the latest emitted result set.
func (b *LiveBinding) Data() []store.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return store.CloneRecords(b.data)
}

// Updates returns the coalescing emission channel.
func (b *LiveBinding) Updates() <-chan struct{} {
	return b.updates
}

// Close tears down the active subscription. Safe to call more than once.
func (b *LiveBinding) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (b *LiveBinding) notifyLocked() {
	select {
	case b.updates <- struct{}{}:
	default:
	}
}

// LiveDocumentBinding is the single-document variant of LiveBinding. The
// emitted record becomes nil when the document is deleted.
type LiveDocumentBinding struct {
	mu sync.Mutex

	gateway store.Gateway

	key         string
	unsubscribe func()
	gen         uint64

	data    *store.Record
	emitted bool
	closed  bool

	updates chan struct{}
}

// NewLiveDocumentBinding creates an inactive live document binding.
func NewLiveDocumentBinding(gateway store.Gateway) *LiveDocumentBinding {
	return &LiveDocumentBinding{
		gateway: gateway,
		updates: make(chan struct{}, 1),
	}
}

// Watch subscribes to a single document, with the same target-switch and
// teardown discipline as LiveBinding.Watch.
func (b *LiveDocumentBinding) Watch(ctx context.Context, collection, id string) {
	key := cache.DocKey(collection, id)

	b.mu.Lock()
	if b.closed || key == b.key {
		b.mu.Unlock()
		return
	}

	previous := b.unsubscribe
	b.unsubscribe = nil
	b.key = key
	b.gen++
	gen := b.gen
	b.mu.Unlock()

	if previous != nil {
		previous()
	}

	unsubscribe := b.gateway.WatchDocument(ctx, collection, id, func(record *store.Record) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.closed || gen != b.gen {
			return
		}
		b.data = record
		b.emitted = true
		b.notifyLocked()
	})

	b.mu.Lock()
	if b.closed || gen != b.gen {
		b.mu.Unlock()
		unsubscribe()
		return
	}
	b.unsubscribe = unsubscribe
	b.mu.Unlock()
}

// Data returns the latest emitted record and whether an emission has
// happened yet; a (nil, true) answer means the document was deleted.
func (b *LiveDocumentBinding) Data() (*store.Record, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, b.emitted
	}
	rec := b.data.Clone()
	return &rec, b.emitted
}

// Updates returns the coalescing emission channel.
func (b *LiveDocumentBinding) Updates() <-chan struct{} {
	return b.updates
}

// Close tears down the active subscription.
func (b *LiveDocumentBinding) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (b *LiveDocumentBinding) notifyLocked() {
	select {
	case b.updates <- struct{}{}:
	default:
	}
}
