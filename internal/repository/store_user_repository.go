package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sebasr/sensores-dashboard/internal/models"
	"github.com/sebasr/sensores-dashboard/internal/store"
)

// UsersCollection is the document collection holding accounts.
const UsersCollection = "users"

// StoreUserRepository implements UserRepository on top of the document store.
type StoreUserRepository struct {
	gateway store.Gateway
}

// NewStoreUserRepository creates a new document store backed user repository
func NewStoreUserRepository(gateway store.Gateway) *StoreUserRepository {
	return &StoreUserRepository{gateway: gateway}
}

// Create implements UserRepository.Create. Email uniqueness is enforced with
// a lookup before insert; races between concurrent registrations of the same
// address are resolved by the unique index the deployment applies to the
// collection.
func (r *StoreUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	existing, err := r.GetByEmail(ctx, user.Email)
	if err != nil && err != ErrUserNotFound {
		return err
	}
	if existing != nil {
		return ErrDuplicateEmail
	}

	id, err := r.gateway.Create(ctx, UsersCollection, user.Fields())
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	user.ID = id
	return nil
}

// GetByID implements UserRepository.GetByID
func (r *StoreUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	rec, err := r.gateway.ReadOne(ctx, UsersCollection, id)
	if err != nil {
		return nil, fmt.Errorf("reading user: %w", err)
	}
	if rec == nil {
		return nil, ErrUserNotFound
	}
	return models.UserFromRecord(rec), nil
}

// GetByEmail implements UserRepository.GetByEmail
func (r *StoreUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	records, err := r.gateway.ReadMany(ctx, UsersCollection, []store.Constraint{
		store.Where("email", store.OpEqual, models.NormalizeEmail(email)),
		store.Limit(1),
	})
	if err != nil {
		return nil, fmt.Errorf("looking up user by email: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrUserNotFound
	}
	return models.UserFromRecord(&records[0]), nil
}

// UpdateLastLogin implements UserRepository.UpdateLastLogin
func (r *StoreUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	return r.gateway.Update(ctx, UsersCollection, id, store.Fields{
		"lastLoginAt": time.Now().UnixMilli(),
	})
}
