package store

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// changeNotifier fans out per-collection change notifications to active
// watches. Mutations emit after they succeed; each subscriber re-runs its
// query and delivers the fresh result set. Handlers run on their own
// goroutines; a panicking handler never takes the process down.
type changeNotifier struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]func()
}

func newChangeNotifier() *changeNotifier {
	return &changeNotifier{subs: make(map[string]map[uint64]func())}
}

// subscribe registers fire for a collection and returns an unsubscribe
// function. Unsubscribing is synchronous: once it returns, fire is no longer
// invoked by future emits.
func (n *changeNotifier) subscribe(collection string, fire func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	if n.subs[collection] == nil {
		n.subs[collection] = make(map[uint64]func())
	}
	n.subs[collection][id] = fire

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs[collection], id)
	}
}

// emit notifies every subscriber of the collection.
func (n *changeNotifier) emit(collection string) {
	n.mu.Lock()
	fires := make([]func(), 0, len(n.subs[collection]))
	for _, fire := range n.subs[collection] {
		fires = append(fires, fire)
	}
	n.mu.Unlock()

	for _, fire := range fires {
		go func(fn func()) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("collection", collection).
						Errorf("store: watch handler panic: %v", r)
				}
			}()
			fn()
		}(fire)
	}
}
