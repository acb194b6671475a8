package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past 72 bytes; truncate explicitly so hashing and
// comparison agree on the effective password.
const maxPasswordBytes = 72

// BcryptHasher hashes passwords with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost      int
	dummyHash []byte
}

// NewBcryptHasher creates a hasher. A zero or negative cost falls back to the
// bcrypt default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("tasknest-dummy-password"), cost)
	if err != nil {
		// GenerateFromPassword only fails on an out-of-range cost, which the
		// clamp above rules out.
		panic(err)
	}
	return &BcryptHasher{cost: cost, dummyHash: dummy}
}

// Hash returns the bcrypt hash of password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncate(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether password matches the stored hash.
func (h *BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password)) == nil
}

// DummyCompare runs a comparison against a throwaway hash. Used when no
// account matched so the caller's latency does not reveal which emails exist.
func (h *BcryptHasher) DummyCompare(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, truncate(password))
}

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
