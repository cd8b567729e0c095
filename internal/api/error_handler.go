package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/worksy/marketplace/internal/api/metrics"
	"github.com/worksy/marketplace/internal/api/middleware"
	"github.com/worksy/marketplace/internal/core/domain"
)

// Error kinds rendered in the envelope.
const (
	KindValidation        = "validation_error"
	KindDuplicateEmail    = "duplicate_email"
	KindInvalidCredential = "invalid_credentials"
	KindInvalidResetToken = "invalid_reset_token"
	KindNotFound          = "not_found"
	KindUnauthenticated   = "unauthenticated"
	KindForbidden         = "forbidden"
	KindConflict          = "conflict"
	KindRateLimited       = "rate_limited"
	KindInternal          = "internal"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Kind string `json:"kind"`
	Msg  string `json:"msg"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and kind.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"kind": "...", "msg": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (unknown route, wrong method, oversized body).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Kind: kindForStatus(he.Code), Msg: fmt.Sprintf("%v", he.Message)}
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, errorResponse{Kind: KindValidation, Msg: validationMessage(err)}
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusBadRequest, errorResponse{Kind: KindDuplicateEmail, Msg: "Email already exists"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, errorResponse{Kind: KindInvalidCredential, Msg: "Invalid email or password"}
	case errors.Is(err, domain.ErrInvalidResetToken):
		return http.StatusBadRequest, errorResponse{Kind: KindInvalidResetToken, Msg: "Reset token is invalid or expired"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Kind: KindNotFound, Msg: "User not found"}
	case errors.Is(err, domain.ErrOfferNotFound):
		return http.StatusNotFound, errorResponse{Kind: KindNotFound, Msg: "Offer not found"}
	case errors.Is(err, domain.ErrPostNotFound):
		return http.StatusNotFound, errorResponse{Kind: KindNotFound, Msg: "Post not found"}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Kind: KindUnauthenticated, Msg: "Unauthorized"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Kind: KindForbidden, Msg: "Forbidden"}
	case errors.Is(err, domain.ErrAlreadyApplied):
		return http.StatusConflict, errorResponse{Kind: KindConflict, Msg: "Already applied to this offer"}
	case errors.Is(err, middleware.ErrRateLimited):
		metrics.RateLimitedTotal.Inc()
		return http.StatusTooManyRequests, errorResponse{Kind: KindRateLimited, Msg: "Too many requests"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Kind: KindInternal, Msg: "Internal server error"}
}

// validationMessage drops the sentinel prefix so the client sees only the
// field detail.
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")
	if msg == domain.ErrValidation.Error() {
		return "Invalid request"
	}
	return msg
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthenticated
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	return KindInternal
}
