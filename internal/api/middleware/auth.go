package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/worksy/marketplace/internal/core/domain"
	"github.com/worksy/marketplace/internal/core/ports"
)

// Context keys set by Auth.
const (
	ContextUser  = "user"
	ContextRole  = "role"
	ContextToken = "token"
)

// Auth resolves the bearer token through identifier and injects the stored
// user, its role and the raw token into the context.
func Auth(identifier ports.Identifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrUnauthenticated
			}
			token := strings.TrimSpace(parts[1])

			user, err := identifier.Identify(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(ContextUser, user)
			c.Set(ContextRole, user.Role)
			c.Set(ContextToken, token)

			return next(c)
		}
	}
}

// CurrentUser returns the user injected by Auth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(ContextUser).(*domain.User)
	return user, ok && user != nil
}

// BearerToken returns the raw token accepted by Auth.
func BearerToken(c echo.Context) string {
	token, _ := c.Get(ContextToken).(string)
	return token
}
