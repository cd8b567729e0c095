package ports

import (
	"context"
	"time"

	"github.com/worksy/marketplace/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     domain.Role
	Skills   []string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Identifier resolves a bearer token to the user it names.
type Identifier interface {
	Identify(ctx context.Context, token string) (*domain.User, error)
}

type AuthService interface {
	Identifier
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Logout(ctx context.Context, token string) error
}
