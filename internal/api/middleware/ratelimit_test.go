package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_Burst(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)

	if !rl.Allow("1.1.1.1") || !rl.Allow("1.1.1.1") {
		t.Fatal("burst should be allowed")
	}
	if rl.Allow("1.1.1.1") {
		t.Fatal("third request should be limited")
	}
	if !rl.Allow("2.2.2.2") {
		t.Fatal("other clients have their own bucket")
	}
}

func TestRateLimiter_ZeroBurstAllowsOne(t *testing.T) {
	rl := NewRateLimiter(0.001, 0)
	if !rl.Allow("a") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("a") {
		t.Fatal("second request should be limited")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	e := echo.New()
	handler := rl.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	newCtx := func(addr string) echo.Context {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		return e.NewContext(req, httptest.NewRecorder())
	}

	if err := handler(newCtx("10.0.0.1:1234")); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if err := handler(newCtx("10.0.0.1:5678")); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if err := handler(newCtx("10.0.0.2:1234")); err != nil {
		t.Fatalf("other client should pass: %v", err)
	}
}
