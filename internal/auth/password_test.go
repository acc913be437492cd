package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		expectError error
	}{
		{"valid password", "securePassword123", nil},
		{"minimum length", "12345678", nil},
		{"maximum length", strings.Repeat("a", 72), nil},
		{"empty", "", ErrPasswordEmpty},
		{"too short", "1234567", ErrPasswordTooShort},
		{"too long", strings.Repeat("a", 73), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Empty(t, hash)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
		})
	}
}

func TestHashPassword_SaltedHashesDiffer(t *testing.T) {
	hash1, err := HashPassword("repeatable-password")
	require.NoError(t, err)
	hash2, err := HashPassword("repeatable-password")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("securePassword123")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("securePassword123", hash))
	assert.False(t, VerifyPassword("wrongPassword", hash))
	assert.False(t, VerifyPassword("SECUREPASSWORD123", hash))
	assert.False(t, VerifyPassword("", hash))
	assert.False(t, VerifyPassword("securePassword123", ""))
	assert.False(t, VerifyPassword("securePassword123", "not-a-bcrypt-hash"))
}
