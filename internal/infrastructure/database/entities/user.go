package entities

import (
	"time"

	"github.com/google/uuid"

	"tasknest/internal/domain/user"
)

// User represents the database schema for accounts
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
	Email        string    `gorm:"type:varchar(320);uniqueIndex;not null"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(100);not null"`
}

// TableName specifies the table name for User.
func (User) TableName() string {
	return "users"
}

// ToDomain converts the entity to the domain model.
func (e *User) ToDomain() *user.User {
	return &user.User{
		ID:           e.ID,
		Email:        e.Email,
		Username:     e.Username,
		PasswordHash: e.PasswordHash,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// UserFromDomain converts a domain user to its entity.
func UserFromDomain(u *user.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
	}
}
