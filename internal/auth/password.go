// Package auth provides password hashing and JWT access tokens.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the shortest password accepted at registration.
	MinPasswordLength = 8
	// MaxPasswordLength mirrors bcrypt's 72-byte input limit.
	MaxPasswordLength = 72
)

var (
	// ErrPasswordEmpty is returned when the password is empty
	ErrPasswordEmpty = errors.New("password cannot be empty")
	// ErrPasswordTooShort is returned when the password is too short
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when the password is too long
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
)

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	switch {
	case len(password) == 0:
		return "", ErrPasswordEmpty
	case len(password) < MinPasswordLength:
		return "", ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether the plaintext password matches the hash.
func VerifyPassword(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
