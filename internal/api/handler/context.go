package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/worksy/marketplace/internal/api/middleware"
	"github.com/worksy/marketplace/internal/core/domain"
)

// currentUser returns the caller resolved by the Auth middleware and fails
// fast when the route was mounted without it.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

type messageResponse struct {
	Msg string `json:"msg"`
}

// errorResponse documents the error envelope rendered by api.NewHTTPErrorHandler.
type errorResponse struct {
	Kind string `json:"kind"`
	Msg  string `json:"msg"`
}
