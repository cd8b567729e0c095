package ports

import (
	"context"

	"github.com/worksy/marketplace/internal/core/domain"
)

// UserRepository defines persistence of user credentials and profiles.
type UserRepository interface {
	// Create inserts a user. Implementations must return domain.ErrDuplicateEmail
	// when the store's unique constraint on email rejects the write.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
