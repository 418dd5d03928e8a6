package users

import "context"

// UserRepo is the credential store. Implementations normalise emails before
// using them as keys.
type UserRepo interface {
	// Insert stores a new user. It is the atomicity boundary for duplicate
	// detection: it fails with errors.ErrConflict when the normalised email is
	// already present, and never overwrites.
	Insert(ctx context.Context, user *User) error
	// GetByEmail returns errors.ErrNotFound when no user has the email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID returns errors.ErrNotFound when no user has the id.
	GetByID(ctx context.Context, id string) (*User, error)
}
