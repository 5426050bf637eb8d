package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Supported password hashing algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// ErrUnknownAlgorithm is returned for an unsupported PASSWORD_HASHER value.
var ErrUnknownAlgorithm = errors.New("unknown password hashing algorithm")

// Hasher hashes and verifies passwords.
// Verify returns (false, nil) for a wrong password and an error only for a malformed hash.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// BcryptHasher hashes passwords with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher. Out of range costs fall back to DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash creates a salted bcrypt hash.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

// Verify checks if the password matches the bcrypt hash.
func (h *BcryptHasher) Verify(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrInvalidHash
	}
}

// PasswordHasher hashes with the configured algorithm and verifies hashes
// of any supported algorithm, dispatching on the hash prefix.
type PasswordHasher struct {
	primary Hasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

// NewPasswordHasher builds a hasher for the given algorithm name.
func NewPasswordHasher(algorithm string, bcryptCost int) (*PasswordHasher, error) {
	h := &PasswordHasher{
		bcrypt: NewBcryptHasher(bcryptCost),
		argon2: NewArgon2Hasher(),
	}

	switch strings.ToLower(algorithm) {
	case AlgorithmBcrypt, "":
		h.primary = h.bcrypt
	case AlgorithmArgon2id:
		h.primary = h.argon2
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}

	return h, nil
}

// Hash hashes password with the configured algorithm.
func (h *PasswordHasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

// Verify checks password against a hash produced by any supported algorithm.
func (h *PasswordHasher) Verify(password, encodedHash string) (bool, error) {
	switch {
	case strings.HasPrefix(encodedHash, argon2Prefix):
		return h.argon2.Verify(password, encodedHash)
	case isBcryptHash(encodedHash):
		return h.bcrypt.Verify(password, encodedHash)
	default:
		return false, ErrInvalidHash
	}
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
