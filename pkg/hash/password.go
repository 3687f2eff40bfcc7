package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeBcrypt = "bcrypt"
	SchemeSHA256 = "sha256"
)

var ErrEmptyPassword = errors.New("password cannot be empty")

// PasswordHasher provides hashing logic to securely store passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches the stored hash.
	Verify(password, hash string) (bool, error)
	// NeedsUpgrade reports whether hash was produced by an older scheme.
	NeedsUpgrade(hash string) bool
}

// NewHasher returns the hasher for the configured scheme.
func NewHasher(scheme string, cost int) (PasswordHasher, error) {
	switch scheme {
	case SchemeBcrypt, "":
		return NewBcryptHasher(cost), nil
	case SchemeSHA256:
		return NewSHA256Hasher(), nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// SHA256Hasher produces unsalted hex encoded SHA256 digests. It exists so
// accounts created by the legacy site keep logging in.
type SHA256Hasher struct{}

func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

func (h *SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h *SHA256Hasher) Verify(password, hash string) (bool, error) {
	computed, err := h.Hash(password)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1, nil
}

func (h *SHA256Hasher) NeedsUpgrade(string) bool {
	return false
}

// BcryptHasher hashes with bcrypt and still accepts legacy SHA256 digests.
type BcryptHasher struct {
	cost   int
	legacy *SHA256Hasher
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &BcryptHasher{cost: cost, legacy: NewSHA256Hasher()}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	b, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt generate failed: %w", err)
	}

	return string(b), nil
}

func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	if !isBcrypt(hash) {
		return h.legacy.Verify(password, hash)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("bcrypt compare failed: %w", err)
	}

	return true, nil
}

func (h *BcryptHasher) NeedsUpgrade(hash string) bool {
	return !isBcrypt(hash)
}

// bcryptMaxInput is the longest input bcrypt accepts.
const bcryptMaxInput = 72

// bcryptInput replaces passwords bcrypt would reject with the base64 of
// their sha256 digest.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}

	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
