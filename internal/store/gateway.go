package store

import (
	"context"
	"fmt"
)

// RemoteError wraps a transport or backend failure from the document store.
// Callers are expected to handle it; it never carries a not-found condition
// (absence is represented as nil results).
type RemoteError struct {
	Op         string
	Collection string
	Err        error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Collection, e.Err)
}

// Unwrap exposes the underlying transport error.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

func remoteErr(op, collection string, err error) *RemoteError {
	return &RemoteError{Op: op, Collection: collection, Err: err}
}

// ChangeFunc receives the full current result set of a watched query.
type ChangeFunc func(records []Record)

// DocChangeFunc receives the current state of a watched document; nil when
// the document has been deleted.
type DocChangeFunc func(record *Record)

// Gateway defines the uniform operations against the remote document store,
// addressed by collection name and document id.
type Gateway interface {
	// ReadOne returns the document or (nil, nil) when it does not exist.
	ReadOne(ctx context.Context, collection, id string) (*Record, error)

	// ReadMany applies the constraints server-side. An empty constraint
	// list returns the whole collection.
	ReadMany(ctx context.Context, collection string, constraints []Constraint) ([]Record, error)

	// Create stores a new document and returns the server-generated id.
	// Created/updated timestamps are set to the call time.
	Create(ctx context.Context, collection string, fields Fields) (string, error)

	// Update applies a partial field update. The updated timestamp is reset;
	// unspecified fields are untouched. Updating an absent document is a
	// silent no-op at this layer.
	Update(ctx context.Context, collection, id string, fields Fields) error

	// Delete removes a document. Repeated deletes succeed silently.
	Delete(ctx context.Context, collection, id string) error

	// WatchCollection invokes onChange with the full current result set on
	// subscribe and after every visible change. Transport errors inside the
	// watch are logged, never re-thrown, and do not end the subscription.
	// The returned function cancels the subscription.
	WatchCollection(ctx context.Context, collection string, constraints []Constraint, onChange ChangeFunc) func()

	// WatchDocument is the single-document variant; onChange receives nil
	// when the document is deleted.
	WatchDocument(ctx context.Context, collection, id string, onChange DocChangeFunc) func()
}
