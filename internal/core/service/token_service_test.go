package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/worksy/marketplace/internal/core/domain"
)

func TestNewTokenService_RequiresSecret(t *testing.T) {
	if _, err := NewTokenService("", time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestTokenService_IssueVerify(t *testing.T) {
	svc, _ := NewTokenService("secret", time.Hour)
	user := &domain.User{ID: "u1", Role: domain.RoleEntreprise}

	token, issued, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.TokenID == "" {
		t.Fatalf("expected a token id")
	}
	if got := issued.ExpiresAt.Sub(issued.IssuedAt); got != time.Hour {
		t.Fatalf("expected 1h validity, got %v", got)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.SubjectID != "u1" || claims.Role != domain.RoleEntreprise || claims.TokenID != issued.TokenID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_DefaultTTL(t *testing.T) {
	svc, _ := NewTokenService("secret", 0)
	if svc.TTL() != 24*time.Hour {
		t.Fatalf("expected 24h default, got %v", svc.TTL())
	}
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc, _ := NewTokenService("secret", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, _ := svc.Issue(&domain.User{ID: "u1", Role: domain.RoleFreelancer})
	svc.now = time.Now

	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	issuer, _ := NewTokenService("secret", time.Hour)
	other, _ := NewTokenService("other", time.Hour)
	token, _, _ := issuer.Issue(&domain.User{ID: "u1", Role: domain.RoleFreelancer})

	if _, err := other.Verify(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTokenService_RejectsTokenWithoutExpiry(t *testing.T) {
	svc, _ := NewTokenService("secret", time.Hour)
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:  tokenIssuer,
			Subject: "u1",
			ID:      "jti",
		},
	})
	signed, _ := raw.SignedString([]byte("secret"))

	if _, err := svc.Verify(signed); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	svc, _ := NewTokenService("secret", time.Hour)
	raw := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "u1",
			ID:        "jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, _ := raw.SignedString([]byte("secret"))

	if _, err := svc.Verify(signed); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
