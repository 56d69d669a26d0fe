// Package hash provides password hashing and verification backed by bcrypt.
package hash

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash is returned by Verify when the stored hash is not a
// parseable bcrypt hash. It is distinct from a plain password mismatch,
// which is reported as (false, nil).
var ErrMalformedHash = errors.New("malformed password hash")

// Hasher defines the interface for password hashing and verification.
type Hasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Verify reports whether the plaintext password matches the stored hash.
	Verify(password, hashed string) (bool, error)
}

// bcryptHasher implements the Hasher interface.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt-backed Hasher with the given cost factor.
// Costs outside the valid bcrypt range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

// Hash generates a salted bcrypt hash of the password.
// The salt is randomized per call, so hashing the same password twice
// yields different strings that both verify.
func (h *bcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify compares the plaintext password against a stored bcrypt hash.
// A mismatch is (false, nil); a hash that bcrypt cannot parse at all is
// (false, ErrMalformedHash).
func (h *bcryptHasher) Verify(password, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
}
