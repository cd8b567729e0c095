package ports

import (
	"context"
	"time"

	"github.com/worksy/marketplace/internal/core/domain"
)

// TokenClaims is the verified payload of a session token.
type TokenClaims struct {
	SubjectID string
	Role      domain.Role
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (token string, claims TokenClaims, err error)
	// Verify returns domain.ErrUnauthenticated for any invalid, tampered or
	// expired token.
	Verify(token string) (TokenClaims, error)
}

// PasswordHasher is a one-way salted hash and its verifier.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// RevocationList remembers logged-out token ids until they would have expired.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// ResetTokenStore keeps single-use password reset tokens.
type ResetTokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	// Consume returns the user id bound to token and deletes it. It returns
	// domain.ErrInvalidResetToken when the token is unknown or expired.
	Consume(ctx context.Context, token string) (string, error)
}

// ResetRequest is handed to a ResetNotifier after a reset token is issued.
type ResetRequest struct {
	Email     string
	FullName  string
	Token     string
	ExpiresAt time.Time
}

// ResetNotifier delivers a password reset token to its owner.
type ResetNotifier interface {
	NotifyReset(ctx context.Context, req ResetRequest) error
}
