// Package password hashes and verifies user passwords.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinLength = 8

	temporaryLength   = 8
	temporaryAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost, or bcrypt.DefaultCost when cost is
// out of range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IsHash reports whether stored looks like a bcrypt hash.
func IsHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// Verify compares plain against stored. Stored values that are not bcrypt
// hashes are legacy plaintext; needsUpgrade is true when such a value
// matched.
func (h *Hasher) Verify(stored, plain string) (ok bool, needsUpgrade bool, err error) {
	if !IsHash(stored) {
		match := subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
		return match, match, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, false, nil
}

// Temporary returns a random lowercase alphanumeric password.
func Temporary() (string, error) {
	limit := big.NewInt(int64(len(temporaryAlphabet)))
	b := make([]byte, temporaryLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = temporaryAlphabet[n.Int64()]
	}
	return string(b), nil
}
