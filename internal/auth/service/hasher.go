package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/kalpajyotisaikia/sharpy-auth-service/config"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a plaintext credential into a stored digest and
// checks candidates against it.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// NewPasswordHasher picks the hasher for the configured scheme. Bcrypt is
// the default; the legacy scheme exists only to verify digests migrated
// from the old deployment.
func NewPasswordHasher(scheme string) PasswordHasher {
	if scheme == config.PasswordSchemeLegacySHA256 {
		return LegacySHA256Hasher{}
	}
	return NewBcryptHasher()
}

// LegacySHA256Hasher reproduces the old deployment's digests: a bare
// SHA-256 hex string with no salt and no work factor. Stored digests are
// vulnerable to precomputation attacks; do not select this scheme for new
// databases. Hashing never fails, and the empty string hashes to the empty
// string's digest so registration code stays branch-free.
type LegacySHA256Hasher struct{}

func (LegacySHA256Hasher) Hash(plaintext string) (string, error) {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:]), nil
}

func (h LegacySHA256Hasher) Verify(plaintext, digest string) bool {
	computed, _ := h.Hash(plaintext)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// BcryptHasher is the salted adaptive default.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() BcryptHasher {
	return BcryptHasher{cost: bcrypt.DefaultCost}
}

func (h BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
