package identity

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no user matches.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateUsername is returned when a create collides with an existing
// username.
var ErrDuplicateUsername = errors.New("username already exists")

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}
