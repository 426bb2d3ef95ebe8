package domain

import (
	"context"
	"time"
)

// User is an identity record. Users are created by the auth layer; the post
// service only ever reads them.
type User struct {
	ID           int64
	Username     string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Create inserts the user, assigning its ID and creation timestamp.
	Create(ctx context.Context, u *User) error
}
