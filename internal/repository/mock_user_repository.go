package repository

import (
	"context"

	"github.com/sebasr/sensores-dashboard/internal/models"
)

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	CreateFunc          func(ctx context.Context, user *models.User) error
	GetByIDFunc         func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*models.User, error)
	UpdateLastLoginFunc func(ctx context.Context, id string) error
}

// NewMockUserRepository creates a new mock user repository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		CreateFunc: func(_ context.Context, _ *models.User) error {
			return nil
		},
		GetByIDFunc: func(_ context.Context, _ string) (*models.User, error) {
			return nil, ErrUserNotFound
		},
		GetByEmailFunc: func(_ context.Context, _ string) (*models.User, error) {
			return nil, ErrUserNotFound
		},
		UpdateLastLoginFunc: func(_ context.Context, _ string) error {
			return nil
		},
	}
}

// Create implements UserRepository.Create
func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.CreateFunc(ctx, user)
}

// GetByID implements UserRepository.GetByID
func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}

// GetByEmail implements UserRepository.GetByEmail
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

// UpdateLastLogin implements UserRepository.UpdateLastLogin
func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	return m.UpdateLastLoginFunc(ctx, id)
}
