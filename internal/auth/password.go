package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"planner/internal/models"
)

// PasswordCost is the bcrypt work factor used for new hashes.
const PasswordCost = 10

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// HashPassword returns a salted bcrypt hash of password. Passwords longer
// than MaxPasswordBytes are rejected with a *models.ValidationError.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", errPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", errPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

var errPasswordTooLong = &models.ValidationError{Field: "password", Reason: "must be at most 72 bytes"}

// CheckPassword compares password with a stored hash. A mismatch yields
// ErrInvalidCredentials; any other failure is returned wrapped.
func CheckPassword(hash, password string) error {
	// Nothing longer could have been hashed.
	if len(password) > MaxPasswordBytes {
		return ErrInvalidCredentials
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}
