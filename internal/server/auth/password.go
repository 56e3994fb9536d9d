package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 12

// PasswordHasher hashes and verifies passwords with bcrypt. The cost is a
// struct field rather than a constant so tests can use the cheap minimum
// cost without changing the logic under test.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given work factor. Costs
// outside bcrypt's supported range fall back to DefaultBcryptCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt digest of plaintext. The digest embeds a random
// salt, so equal inputs produce different digests.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext is the password that produced digest.
// A malformed digest (corrupted storage) yields false, never an error.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
