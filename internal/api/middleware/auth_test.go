package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/worksy/marketplace/internal/core/domain"
)

type stubIdentifier struct {
	users map[string]*domain.User
	calls int
}

func (s *stubIdentifier) Identify(_ context.Context, token string) (*domain.User, error) {
	s.calls++
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, domain.ErrUnauthenticated
}

func newIdentifier() *stubIdentifier {
	return &stubIdentifier{users: map[string]*domain.User{
		"good": {ID: "u1", FullName: "Alice", Role: domain.RoleFreelancer},
	}}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(newIdentifier())(func(c echo.Context) error {
		called = true
		user, ok := CurrentUser(c)
		if !ok || user.ID != "u1" {
			t.Fatalf("user not set: %+v", user)
		}
		if c.Get(ContextRole) != domain.RoleFreelancer {
			t.Fatalf("role not set")
		}
		if BearerToken(c) != "good" {
			t.Fatalf("token not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		header string
		calls  int
	}{
		{"missing header", "", 0},
		{"wrong scheme", "Token good", 0},
		{"empty token", "Bearer   ", 0},
		{"unknown token", "Bearer bad", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			ident := newIdentifier()
			handler := Auth(ident)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
			if ident.calls != tc.calls {
				t.Fatalf("expected %d identify calls, got %d", tc.calls, ident.calls)
			}
		})
	}
}
