package models

import (
	"errors"
	"strings"
	"time"

	"github.com/sebasr/sensores-dashboard/internal/store"
)

// User represents a dashboard account.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Validate checks required fields before persisting.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("email is invalid")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}

// NormalizeEmail lowercases and trims the email so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Fields maps the user to document store fields.
func (u *User) Fields() store.Fields {
	fields := store.Fields{
		"email":        NormalizeEmail(u.Email),
		"name":         u.Name,
		"passwordHash": u.PasswordHash,
	}
	if u.LastLoginAt != nil {
		fields["lastLoginAt"] = u.LastLoginAt.UnixMilli()
	}
	return fields
}

// UserFromRecord builds a User from a stored record.
func UserFromRecord(rec *store.Record) *User {
	if rec == nil {
		return nil
	}
	email, _ := rec.String("email")
	name, _ := rec.String("name")
	hash, _ := rec.String("passwordHash")
	u := &User{
		ID:           rec.ID,
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.UnixMilli(rec.CreatedAt),
		UpdatedAt:    time.UnixMilli(rec.UpdatedAt),
	}
	if at, ok := NormalizeTimestamp(rec.Fields["lastLoginAt"]); ok {
		u.LastLoginAt = &at
	}
	return u
}
