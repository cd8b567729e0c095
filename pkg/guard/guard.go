// Package guard decides whether a session may enter a view.
package guard

import (
	"errors"
	"slices"
	"strings"

	"github.com/worksy/marketplace/pkg/client"
	"github.com/worksy/marketplace/pkg/session"
)

const (
	LoginPath   = "/login"
	DefaultPath = "/dashboard"
)

var ErrUnknownRoute = errors.New("unknown route")

type Outcome int

const (
	Allow Outcome = iota
	RedirectToLogin
	RedirectToDefault
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "Allow"
	case RedirectToLogin:
		return "RedirectToLogin"
	case RedirectToDefault:
		return "RedirectToDefault"
	}
	return "Unknown"
}

// Decision is where a visit ends up. From is set on RedirectToLogin so the
// caller can return there after signing in.
type Decision struct {
	Outcome  Outcome
	Location string
	From     string
}

// Policy describes one view. A nil AllowedRoles admits any role; Guest views
// are for signed-out visitors only.
type Policy struct {
	RequireAuth  bool
	AllowedRoles []string
	Guest        bool
}

// Decide applies p to s. Only the token decides whether s is signed in;
// the role is checked against AllowedRoles after that.
func Decide(s session.Session, p Policy) Decision {
	if p.RequireAuth && s.Token == "" {
		return Decision{Outcome: RedirectToLogin, Location: LoginPath}
	}
	if p.AllowedRoles != nil && !slices.Contains(p.AllowedRoles, s.Role) {
		return Decision{Outcome: RedirectToDefault, Location: DefaultPath}
	}
	return Decision{Outcome: Allow}
}

// Guest sends signed-in users away from login and signup.
func Guest(s session.Session) Decision {
	if s.Token != "" {
		return Decision{Outcome: RedirectToDefault, Location: DefaultPath}
	}
	return Decision{Outcome: Allow}
}

// Routes maps normalized paths to their policy.
type Routes map[string]Policy

// DefaultRoutes is the web frontend's view table.
var DefaultRoutes = Routes{
	"/":                     {},
	"/offers":               {},
	"/posts":                {},
	"/forgot-password":      {},
	"/dashboard":            {RequireAuth: true},
	"/profile":              {RequireAuth: true},
	"/user-dashboard":       {RequireAuth: true, AllowedRoles: []string{client.RoleFreelancer, client.RoleStagiaire}},
	"/admin-dashboard":      {RequireAuth: true, AllowedRoles: []string{client.RoleAdmin}},
	"/entreprise-dashboard": {RequireAuth: true, AllowedRoles: []string{client.RoleEntreprise}},
	"/login":                {Guest: true},
	"/signup":               {Guest: true},
}

// Resolve looks up path and applies its guard. Matching ignores case, a
// trailing slash and any query string.
func (r Routes) Resolve(path string, s session.Session) (Decision, error) {
	p, ok := r[Normalize(path)]
	if !ok {
		return Decision{}, ErrUnknownRoute
	}
	if p.Guest {
		return Guest(s), nil
	}
	d := Decide(s, p)
	if d.Outcome == RedirectToLogin {
		d.From = path
	}
	return d, nil
}

// AfterLogin picks the landing location once a login succeeds: the saved
// returnTo when it names a known non-guest view, otherwise the default.
func (r Routes) AfterLogin(returnTo string) string {
	if returnTo == "" {
		return DefaultPath
	}
	p, ok := r[Normalize(returnTo)]
	if !ok || p.Guest {
		return DefaultPath
	}
	return returnTo
}

// Normalize lowercases path and strips the query and trailing slash.
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
