package store

import "context"

// MockGateway is a mock implementation of Gateway for testing
type MockGateway struct {
	ReadOneFunc         func(ctx context.Context, collection, id string) (*Record, error)
	ReadManyFunc        func(ctx context.Context, collection string, constraints []Constraint) ([]Record, error)
	CreateFunc          func(ctx context.Context, collection string, fields Fields) (string, error)
	UpdateFunc          func(ctx context.Context, collection, id string, fields Fields) error
	DeleteFunc          func(ctx context.Context, collection, id string) error
	WatchCollectionFunc func(ctx context.Context, collection string, constraints []Constraint, onChange ChangeFunc) func()
	WatchDocumentFunc   func(ctx context.Context, collection, id string, onChange DocChangeFunc) func()
}

// NewMockGateway creates a new mock gateway with empty-result defaults
func NewMockGateway() *MockGateway {
	return &MockGateway{
		ReadOneFunc: func(_ context.Context, _, _ string) (*Record, error) {
			return nil, nil
		},
		ReadManyFunc: func(_ context.Context, _ string, _ []Constraint) ([]Record, error) {
			return []Record{}, nil
		},
		CreateFunc: func(_ context.Context, _ string, _ Fields) (string, error) {
			return "mock-id", nil
		},
		UpdateFunc: func(_ context.Context, _, _ string, _ Fields) error {
			return nil
		},
		DeleteFunc: func(_ context.Context, _, _ string) error {
			return nil
		},
		WatchCollectionFunc: func(_ context.Context, _ string, _ []Constraint, _ ChangeFunc) func() {
			return func() {}
		},
		WatchDocumentFunc: func(_ context.Context, _, _ string, _ DocChangeFunc) func() {
			return func() {}
		},
	}
}

// ReadOne implements Gateway.ReadOne
func (m *MockGateway) ReadOne(ctx context.Context, collection, id string) (*Record, error) {
	return m.ReadOneFunc(ctx, collection, id)
}

// ReadMany implements Gateway.ReadMany
func (m *MockGateway) ReadMany(ctx context.Context, collection string, constraints []Constraint) ([]Record, error) {
	return m.ReadManyFunc(ctx, collection, constraints)
}

// Create implements Gateway.Create
func (m *MockGateway) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	return m.CreateFunc(ctx, collection, fields)
}

// Update implements Gateway.Update
func (m *MockGateway) Update(ctx context.Context, collection, id string, fields Fields) error {
	return m.UpdateFunc(ctx, collection, id, fields)
}

// Delete implements Gateway.Delete
func (m *MockGateway) Delete(ctx context.Context, collection, id string) error {
	return m.DeleteFunc(ctx, collection, id)
}

// WatchCollection implements Gateway.WatchCollection
func (m *MockGateway) WatchCollection(ctx context.Context, collection string, constraints []Constraint, onChange ChangeFunc) func() {
	return m.WatchCollectionFunc(ctx, collection, constraints, onChange)
}

// WatchDocument implements Gateway.WatchDocument
func (m *MockGateway) WatchDocument(ctx context.Context, collection, id string, onChange DocChangeFunc) func() {
	return m.WatchDocumentFunc(ctx, collection, id, onChange)
}
