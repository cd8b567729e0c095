package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/worksy/marketplace/internal/core/domain"
	"github.com/worksy/marketplace/internal/core/ports"
)

const (
	minPasswordLen  = 6
	maxPasswordLen  = 72 // bcrypt ignores everything past 72 bytes
	defaultResetTTL = 30 * time.Minute
	resetTokenBytes = 32
)

// AuthDeps groups the collaborators of AuthService.
type AuthDeps struct {
	Users    ports.UserRepository
	Hasher   ports.PasswordHasher
	Tokens   ports.TokenIssuer
	Revoked  ports.RevocationList
	Resets   ports.ResetTokenStore
	Notifier ports.ResetNotifier
	ResetTTL time.Duration
}

// AuthService turns credentials into sessions and answers who a token is for.
type AuthService struct {
	users     ports.UserRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	revoked   ports.RevocationList
	resets    ports.ResetTokenStore
	notifier  ports.ResetNotifier
	resetTTL  time.Duration
	dummyHash string
	log       zerolog.Logger
}

func NewAuthService(deps AuthDeps, log zerolog.Logger) *AuthService {
	s := &AuthService{
		users:    deps.Users,
		hasher:   deps.Hasher,
		tokens:   deps.Tokens,
		revoked:  deps.Revoked,
		resets:   deps.Resets,
		notifier: deps.Notifier,
		resetTTL: deps.ResetTTL,
		log:      log,
	}
	if s.hasher == nil {
		s.hasher = NewBcryptHasher(0)
	}
	if s.revoked == nil {
		s.revoked = noRevocations{}
	}
	if s.resetTTL <= 0 {
		s.resetTTL = defaultResetTTL
	}
	// Compared against on unknown emails so both login failures cost one hash.
	s.dummyHash, _ = s.hasher.Hash("worksy-unknown-account")
	return s
}

// Register creates an account with one of the signup roles.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.create(ctx, in, domain.SignupRoles)
}

// Provision creates an account with any role, admin included. It is meant
// for operator tooling only and is not reachable over HTTP.
func (s *AuthService) Provision(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.create(ctx, in, []domain.Role{domain.RoleFreelancer, domain.RoleStagiaire, domain.RoleEntreprise, domain.RoleAdmin})
}

func (s *AuthService) create(ctx context.Context, in ports.RegisterInput, roles []domain.Role) (*domain.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = domain.NormalizeEmail(in.Email)
	if err := validateRegistration(in, roles); err != nil {
		return nil, err
	}

	// Fast path for a friendly error; the unique index is the real guard.
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Skills:       cleanList(in.Skills),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("register: create: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created.Public(), nil
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Compare(s.dummyHash, password)
			s.log.Debug().Msg("login rejected")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: lookup: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		s.log.Debug().Str("user_id", user.ID).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("token_id", claims.TokenID).Msg("user logged in")
	return &ports.LoginResult{Token: token, ExpiresAt: claims.ExpiresAt, User: user.Public()}, nil
}

// Identify validates token and re-fetches the user it names, so the role
// returned is always the stored one.
func (s *AuthService) Identify(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("identify: revocation check: %w", err)
	}
	if revoked {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("identify: lookup: %w", err)
	}
	return user.Public(), nil
}

// RequestPasswordReset issues a single-use reset token for email and hands
// it to the notifier.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := newResetToken()
	if err != nil {
		return fmt.Errorf("password reset: %w", err)
	}
	if err := s.resets.Save(ctx, token, user.ID, s.resetTTL); err != nil {
		return fmt.Errorf("password reset: save token: %w", err)
	}

	req := ports.ResetRequest{
		Email:     user.Email,
		FullName:  user.FullName,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.resetTTL),
	}
	if err := s.notifier.NotifyReset(ctx, req); err != nil {
		return fmt.Errorf("password reset: notify: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset requested")
	return nil
}

// ResetPassword consumes a reset token and replaces the account password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domain.ErrInvalidResetToken
	}
	// Checked before consuming so a rejected password does not burn the token.
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	userID, err := s.resets.Consume(ctx, token)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("password reset: hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidResetToken
		}
		return fmt.Errorf("password reset: update: %w", err)
	}

	s.log.Info().Str("user_id", userID).Msg("password reset completed")
	return nil
}

// Logout revokes token until it would have expired on its own.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}
	if err := s.revoked.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: revoke: %w", err)
	}

	s.log.Info().Str("user_id", claims.SubjectID).Str("token_id", claims.TokenID).Msg("user logged out")
	return nil
}

func validateRegistration(in ports.RegisterInput, roles []domain.Role) error {
	switch {
	case in.FullName == "":
		return fmt.Errorf("%w: fullName is required", domain.ErrValidation)
	case in.Email == "":
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	case !validEmail(in.Email):
		return fmt.Errorf("%w: email must be a valid email", domain.ErrValidation)
	case in.Role == "":
		return fmt.Errorf("%w: role is required", domain.ErrValidation)
	case !in.Role.In(roles...):
		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		return fmt.Errorf("%w: role must be one of: %s", domain.ErrValidation, strings.Join(names, ", "))
	}
	return validatePassword(in.Password)
}

func validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, maxPasswordLen)
	}
	return nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// cleanList trims entries and drops blanks.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func newResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type noRevocations struct{}

func (noRevocations) Revoke(context.Context, string, time.Time) error { return nil }
func (noRevocations) IsRevoked(context.Context, string) (bool, error) { return false, nil }
