package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebasr/sensores-dashboard/internal/store"
)

func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{name: "valid", user: User{Email: "ada@example.com", PasswordHash: "h"}},
		{name: "missing email", user: User{PasswordHash: "h"}, wantErr: true},
		{name: "blank email", user: User{Email: "   ", PasswordHash: "h"}, wantErr: true},
		{name: "malformed email", user: User{Email: "ada.example.com", PasswordHash: "h"}, wantErr: true},
		{name: "missing hash", user: User{Email: "ada@example.com"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  Ada@Example.COM "))
	assert.Equal(t, "ada@example.com", NormalizeEmail("ada@example.com"))
}

func TestUser_Fields(t *testing.T) {
	at := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	u := User{
		Email:        "Ada@Example.com",
		Name:         "Ada",
		PasswordHash: "$2a$10$hash",
		LastLoginAt:  &at,
	}

	fields := u.Fields()
	assert.Equal(t, "ada@example.com", fields["email"])
	assert.Equal(t, "Ada", fields["name"])
	assert.Equal(t, "$2a$10$hash", fields["passwordHash"])
	assert.Equal(t, at.UnixMilli(), fields["lastLoginAt"])
}

func TestUser_Fields_OmitsAbsentLastLogin(t *testing.T) {
	u := User{Email: "ada@example.com", PasswordHash: "h"}

	assert.NotContains(t, u.Fields(), "lastLoginAt")
}

func TestUserFromRecord(t *testing.T) {
	rec := &store.Record{
		ID: "u1",
		Fields: store.Fields{
			"email":        "ada@example.com",
			"name":         "Ada",
			"passwordHash": "$2a$10$hash",
			"lastLoginAt":  int64(1704196800000),
		},
		CreatedAt: 1704110400000,
		UpdatedAt: 1704196800000,
	}

	u := UserFromRecord(rec)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, "$2a$10$hash", u.PasswordHash)
	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, int64(1704196800000), u.LastLoginAt.UnixMilli())
	assert.Equal(t, int64(1704110400000), u.CreatedAt.UnixMilli())
}

func TestUserFromRecord_Nil(t *testing.T) {
	assert.Nil(t, UserFromRecord(nil))
}
