package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"

	"github.com/worksy/marketplace/internal/api"
	"github.com/worksy/marketplace/internal/core/ports"
	"github.com/worksy/marketplace/internal/core/service"
	"github.com/worksy/marketplace/internal/infrastructure/db/memory"
	"github.com/worksy/marketplace/pkg/session"
)

type captureResets struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (c *captureResets) NotifyReset(_ context.Context, req ports.ResetRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[req.Email] = req.Token
	return nil
}

func (c *captureResets) token(email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens[email]
}

type harness struct {
	t           *testing.T
	srv         *httptest.Server
	sessionPath string
	resets      *captureResets
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.New()
	tokens, err := service.NewTokenService("cli-test-secret", 0)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	resets := &captureResets{tokens: map[string]string{}}
	auth := service.NewAuthService(service.AuthDeps{
		Users:    store.Users(),
		Hasher:   service.NewBcryptHasher(bcrypt.MinCost),
		Tokens:   tokens,
		Revoked:  store.Revocations(),
		Resets:   store.ResetTokens(),
		Notifier: resets,
	}, zerolog.Nop())

	e := api.NewRouter(api.Deps{
		Auth:         auth,
		Offers:       service.NewOfferService(store.Offers(), zerolog.Nop()),
		Applications: service.NewApplicationService(store.Offers(), store.Applications(), zerolog.Nop()),
		Posts:        service.NewPostService(store.Posts(), zerolog.Nop()),
		Logger:       zerolog.Nop(),
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return &harness{
		t:           t,
		srv:         srv,
		sessionPath: filepath.Join(t.TempDir(), "session.yaml"),
		resets:      resets,
	}
}

// run executes one CLI invocation and returns its exit code and output.
func (h *harness) run(args ...string) (int, string, string) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	app := &App{
		Stdout: &stdout,
		Stderr: &stderr,
		Lookuper: envconfig.MapLookuper(map[string]string{
			"WORKSY_API":     h.srv.URL,
			"WORKSY_SESSION": h.sessionPath,
		}),
		HTTPClient: h.srv.Client(),
	}
	code := app.Run(context.Background(), args)
	return code, stdout.String(), stderr.String()
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	code, out, errOut := h.run(args...)
	if code != exitOK {
		h.t.Fatalf("%v: exit %d, stderr %q", args, code, errOut)
	}
	return out
}

func (h *harness) session() session.Session {
	return session.Open(session.NewFileBackend(h.sessionPath)).Current()
}

func TestAliceScenario(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("register", "-name", "Alice", "-email", "alice@x.com", "-password", "secret1", "-role", "freelancer")
	if !strings.Contains(out, "User registered") {
		t.Fatalf("unexpected register output %q", out)
	}

	code, _, errOut := h.run("login", "-email", "alice@x.com", "-password", "wrong")
	if code != exitError || !strings.Contains(errOut, "Invalid email or password") {
		t.Fatalf("expected rejected login, got %d %q", code, errOut)
	}
	if s := h.session(); s.Token != "" || s.Role != "" || s.User != nil {
		t.Fatalf("failed login must not touch the session, got %+v", s)
	}

	out = h.mustRun("login", "-email", "alice@x.com", "-password", "secret1")
	if !strings.Contains(out, "Login successful") || !strings.Contains(out, "Redirect: /dashboard") {
		t.Fatalf("unexpected login output %q", out)
	}
	s := h.session()
	if !s.Authenticated() || s.Role != "freelancer" || s.User.Email != "alice@x.com" {
		t.Fatalf("unexpected session after login %+v", s)
	}

	out = h.mustRun("me")
	if !strings.Contains(out, `"email": "alice@x.com"`) || !strings.Contains(out, `"role": "freelancer"`) {
		t.Fatalf("unexpected me output %q", out)
	}

	if out = h.mustRun("visit", "/profile"); !strings.HasPrefix(out, "Allow") {
		t.Fatalf("expected Allow, got %q", out)
	}
	if out = h.mustRun("visit", "/admin-dashboard"); !strings.HasPrefix(out, "RedirectToDefault /dashboard") {
		t.Fatalf("expected RedirectToDefault, got %q", out)
	}

	if out = h.mustRun("logout"); !strings.Contains(out, "Logged out") {
		t.Fatalf("unexpected logout output %q", out)
	}
	if s := h.session(); s.Token != "" || s.Role != "" || s.User != nil {
		t.Fatalf("logout must clear all fields, got %+v", s)
	}
	if out = h.mustRun("visit", "/profile"); !strings.HasPrefix(out, "RedirectToLogin /login") {
		t.Fatalf("expected RedirectToLogin, got %q", out)
	}
}

func TestFailedLoginKeepsPreviousSession(t *testing.T) {
	h := newHarness(t)
	h.mustRun("register", "-name", "Alice", "-email", "alice@x.com", "-password", "secret1", "-role", "freelancer")
	h.mustRun("login", "-email", "alice@x.com", "-password", "secret1")
	before := h.session()

	if code, _, _ := h.run("login", "-email", "alice@x.com", "-password", "nope"); code != exitError {
		t.Fatalf("expected exit %d, got %d", exitError, code)
	}
	after := h.session()
	if after.Token != before.Token || after.Role != before.Role {
		t.Fatalf("session changed after failed login: %+v -> %+v", before, after)
	}
}

func TestLogoutRevokesTokenOnServer(t *testing.T) {
	h := newHarness(t)
	h.mustRun("register", "-name", "Alice", "-email", "alice@x.com", "-password", "secret1", "-role", "freelancer")
	h.mustRun("login", "-email", "alice@x.com", "-password", "secret1")
	before := h.session()

	h.mustRun("logout")

	// Put the old session back and check the server no longer accepts its token.
	if err := session.Open(session.NewFileBackend(h.sessionPath)).SetSession(before); err != nil {
		t.Fatalf("restore session: %v", err)
	}
	code, _, errOut := h.run("me")
	if code != exitError || !strings.Contains(errOut, "session expired") {
		t.Fatalf("expected revoked token to be rejected, got %d %q", code, errOut)
	}
	if s := h.session(); s.Token != "" {
		t.Fatalf("rejected token should clear the session, got %+v", s)
	}
}

func TestReturnToAfterLogin(t *testing.T) {
	h := newHarness(t)
	h.mustRun("register", "-name", "Acme", "-email", "hr@acme.io", "-password", "secret1", "-role", "entreprise")

	out := h.mustRun("visit", "/Entreprise-Dashboard/")
	if !strings.Contains(out, "RedirectToLogin /login (from /Entreprise-Dashboard/)") {
		t.Fatalf("unexpected visit output %q", out)
	}

	out = h.mustRun("login", "-email", "hr@acme.io", "-password", "secret1")
	if !strings.Contains(out, "Redirect: /Entreprise-Dashboard/") {
		t.Fatalf("login should return to the saved view, got %q", out)
	}

	out = h.mustRun("login", "-email", "hr@acme.io", "-password", "secret1")
	if !strings.Contains(out, "Redirect: /dashboard") {
		t.Fatalf("return location should be used once, got %q", out)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	h := newHarness(t)
	h.mustRun("register", "-name", "Alice", "-email", "alice@x.com", "-password", "secret1", "-role", "freelancer")

	if out := h.mustRun("forgot", "-email", "alice@x.com"); !strings.Contains(out, "Reset link sent") {
		t.Fatalf("unexpected forgot output %q", out)
	}
	token := h.resets.token("alice@x.com")
	if token == "" {
		t.Fatalf("no reset token captured")
	}

	h.mustRun("reset", "-token", token, "-password", "newsecret")
	h.mustRun("login", "-email", "alice@x.com", "-password", "newsecret")

	if code, _, _ := h.run("reset", "-token", token, "-password", "another1"); code != exitError {
		t.Fatalf("reset token must be single use")
	}
}

func TestForgotUnknownEmail(t *testing.T) {
	h := newHarness(t)
	code, _, errOut := h.run("forgot", "-email", "ghost@x.com")
	if code != exitError || errOut == "" {
		t.Fatalf("expected not-found error, got %d %q", code, errOut)
	}
}

func TestStatusAndUsage(t *testing.T) {
	h := newHarness(t)

	if out := h.mustRun("status"); !strings.Contains(out, "Logged out") {
		t.Fatalf("unexpected status %q", out)
	}
	if code, _, _ := h.run(); code != exitUsage {
		t.Fatalf("no command should exit %d, got %d", exitUsage, code)
	}
	if code, _, _ := h.run("teleport"); code != exitUsage {
		t.Fatalf("unknown command should exit %d, got %d", exitUsage, code)
	}
	if code, _, errOut := h.run("login", "-email", "a@x.io"); code != exitUsage || !strings.Contains(errOut, "missing -password") {
		t.Fatalf("missing flag should exit %d, got %d %q", exitUsage, code, errOut)
	}
	if code, _, _ := h.run("visit", "/nowhere"); code != exitError {
		t.Fatalf("unknown route should fail, got %d", code)
	}
}

func TestOffersAndApply(t *testing.T) {
	h := newHarness(t)
	h.mustRun("register", "-name", "Acme", "-email", "hr@acme.io", "-password", "secret1", "-role", "entreprise")
	h.mustRun("register", "-name", "Alice", "-email", "alice@x.com", "-password", "secret1", "-role", "freelancer")

	if out := h.mustRun("offers"); strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected empty offers list, got %q", out)
	}

	h.mustRun("login", "-email", "alice@x.com", "-password", "secret1")
	code, _, errOut := h.run("apply", "does-not-exist")
	if code != exitError || errOut == "" {
		t.Fatalf("apply to unknown offer should fail, got %d %q", code, errOut)
	}
}
