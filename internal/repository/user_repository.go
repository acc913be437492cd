// Package repository provides data access for dashboard accounts.
package repository

import (
	"context"
	"errors"

	"github.com/sebasr/sensores-dashboard/internal/models"
)

var (
	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when registering an email that is taken
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user and fills in its generated ID
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateLastLogin updates the user's last login timestamp
	UpdateLastLogin(ctx context.Context, id string) error
}
