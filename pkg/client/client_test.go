package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_LoginAndMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["email"] != "alice@x.io" || r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("unexpected login request: %v", body)
			}
			_, _ = w.Write([]byte(`{"msg":"Login successful","token":"T","expiresAt":"2026-01-02T00:00:00Z","user":{"id":"u1","role":"freelancer"}}`))
		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer T" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"kind":"unauthenticated","msg":"Unauthorized"}`))
				return
			}
			_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"alice@x.io","role":"freelancer"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	token := ""
	c := New(srv.URL+"/", WithHTTPClient(srv.Client()), WithTokenSource(func() string { return token }))

	if _, err := c.Me(context.Background()); !IsKind(err, "unauthenticated") {
		t.Fatalf("expected unauthenticated, got %v", err)
	}

	res, err := c.Login(context.Background(), "alice@x.io", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "T" || res.User.Role != RoleFreelancer || res.ExpiresAt.IsZero() {
		t.Fatalf("unexpected login response: %+v", res)
	}

	token = res.Token
	me, err := c.Me(context.Background())
	if err != nil || me.Email != "alice@x.io" {
		t.Fatalf("me: %v %+v", err, me)
	}
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"kind":"invalid_credentials","msg":"Invalid email or password"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithHTTPClient(srv.Client())).Login(context.Background(), "a@x.io", "bad")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T %v", err, err)
	}
	if apiErr.Status != 400 || apiErr.Kind != "invalid_credentials" || apiErr.Error() != "Invalid email or password" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	err := New(srv.URL, WithHTTPClient(srv.Client())).Logout(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Error() != "Request failed (502)" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_OffersQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if r.Header.Get("Authorization") != "" {
			t.Errorf("no token should be sent without a session")
		}
		_, _ = w.Write([]byte(`[{"id":"o1","type":"stage"}]`))
	}))
	defer srv.Close()

	offers, err := New(srv.URL, WithHTTPClient(srv.Client())).Offers(context.Background(), "stage")
	if err != nil || len(offers) != 1 || offers[0].ID != "o1" {
		t.Fatalf("offers: %v %+v", err, offers)
	}
	if gotQuery != "type=stage" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}
