// Package cryptox covers credential hashing and opaque session tokens.
package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for new hashes. Stored hashes carry
// their own cost, so raising this never invalidates existing records.
const bcryptCost = bcrypt.DefaultCost

var (
	// ErrPasswordMismatch reports that the password does not match the
	// stored hash.
	ErrPasswordMismatch = errors.New("cryptox: password does not match")

	// ErrInvalidHash reports a stored hash that bcrypt cannot read. This
	// is a data problem, never a wrong password.
	ErrInvalidHash = errors.New("cryptox: stored hash is not a valid bcrypt hash")
)

// HashPassword returns a bcrypt hash of the password, salt included in
// the encoded form.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt
// hash. A corrupt hash surfaces as ErrInvalidHash so callers don't
// confuse it with bad credentials.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
}
