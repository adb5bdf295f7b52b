package user_repo

import (
	"context"
	"errors"

	"shop/internal/auth/domain"
)

// ErrEmailTaken is returned when the unique constraint on the email column
// rejects an insert.
var ErrEmailTaken = errors.New("email already registered")

type UserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// CreateUser inserts the credential record and returns its generated ID.
	CreateUser(ctx context.Context, user *domain.User) (int64, error)
	// DeleteByID removes the credential record; used to roll back a
	// registration whose remote half failed.
	DeleteByID(ctx context.Context, id int64) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
