package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Both email and username are unique.
// PasswordHash is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Repository exposes persistence for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// PasswordHasher hashes and verifies credentials. DummyCompare burns the same
// time as a real comparison so lookups on unknown emails are not
// distinguishable by response latency.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
	DummyCompare(password string)
}
