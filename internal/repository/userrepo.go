// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
)

// UserRepository provides access to marketplace accounts.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByUsername loads a user by username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetByEmail loads a user by e-mail address.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// UpdatePassword replaces the password hash and salt of a user.
	UpdatePassword(ctx context.Context, id uuid.UUID, hash, salt []byte) error
	// UpdateEmail changes the e-mail address; a taken address yields ErrAlreadyExists.
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	// UpdateUsername changes the username; a taken name yields ErrAlreadyExists.
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) error
}

// UnitOfWork runs fn inside a single transaction. Repositories called with the
// context passed to fn take part in that transaction; nested calls reuse it.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
