package domain

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")

	ErrOfferNotFound  = errors.New("offer not found")
	ErrPostNotFound   = errors.New("post not found")
	ErrAlreadyApplied = errors.New("already applied to this offer")
)
