package domain

import (
	"context"
	"time"
)

// MaxUserNameLength caps the user name field.
const MaxUserNameLength = 80

// User represents a registered account. Image holds the storage key of the
// profile picture, empty when none was uploaded.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Address      string
	Image        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}
