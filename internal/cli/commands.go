package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/worksy/marketplace/pkg/client"
	"github.com/worksy/marketplace/pkg/guard"
	"github.com/worksy/marketplace/pkg/session"
)

func runRegister(ctx context.Context, r *runner, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	role := fs.String("role", "", "freelancer, stagiaire or entreprise")
	skills := fs.String("skills", "", "comma separated skills")
	if err := parseFlags(r, fs, args, map[string]*string{"name": name, "email": email, "password": password, "role": role}); err != nil {
		return err
	}

	req := client.RegisterRequest{FullName: *name, Email: *email, Password: *password, Role: *role}
	if *skills != "" {
		req.Skills = strings.Split(*skills, ",")
	}
	u, err := r.api.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "User registered: %s (%s)\n", u.Email, u.Role)
	return nil
}

// runLogin replaces the session only after the server accepts the
// credentials. The role stored is the one the server reports.
func runLogin(ctx context.Context, r *runner, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := parseFlags(r, fs, args, map[string]*string{"email": email, "password": password}); err != nil {
		return err
	}

	res, err := r.api.Login(ctx, *email, *password)
	if err != nil {
		r.log.Debug().Err(err).Msg("login rejected")
		return err
	}
	if res.Token == "" || res.User == nil {
		return errors.New("login response is missing the token or user")
	}

	if err := r.store.SetSession(session.Session{Token: res.Token, Role: res.User.Role, User: res.User}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	fmt.Fprintf(r.out, "%s as %s (%s)\n", res.Msg, res.User.Email, res.User.Role)
	fmt.Fprintf(r.out, "Redirect: %s\n", r.routes.AfterLogin(r.store.TakeReturnTo()))
	return nil
}

// runLogout always clears the local session, even when the server call fails.
func runLogout(ctx context.Context, r *runner, _ []string) error {
	if r.store.Current().Token == "" {
		fmt.Fprintln(r.out, "Not logged in")
		return r.store.Clear()
	}

	serverErr := r.api.Logout(ctx)
	if err := r.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if serverErr != nil && !client.IsKind(serverErr, "unauthenticated") {
		fmt.Fprintln(r.errOut, "warning: server logout failed:", serverErr)
	}
	fmt.Fprintln(r.out, "Logged out")
	return nil
}

// runMe refreshes the cached user from the server. A rejected token clears
// the session.
func runMe(ctx context.Context, r *runner, _ []string) error {
	cur := r.store.Current()
	if cur.Token == "" {
		return errors.New("not logged in")
	}

	u, err := r.api.Me(ctx)
	if err != nil {
		if client.IsKind(err, "unauthenticated") {
			if clearErr := r.store.Clear(); clearErr != nil {
				return fmt.Errorf("clear session: %w", clearErr)
			}
			return errors.New("session expired, please log in again")
		}
		return err
	}

	if err := r.store.SetSession(session.Session{Token: cur.Token, Role: u.Role, User: u}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return printJSON(r.out, u)
}

func runForgot(ctx context.Context, r *runner, args []string) error {
	fs := flag.NewFlagSet("forgot", flag.ContinueOnError)
	email := fs.String("email", "", "email")
	if err := parseFlags(r, fs, args, map[string]*string{"email": email}); err != nil {
		return err
	}

	msg, err := r.api.Forgot(ctx, *email)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, msg)
	return nil
}

func runReset(ctx context.Context, r *runner, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	token := fs.String("token", "", "reset token from the emailed link")
	password := fs.String("password", "", "new password")
	if err := parseFlags(r, fs, args, map[string]*string{"token": token, "password": password}); err != nil {
		return err
	}

	if err := r.api.Reset(ctx, *token, *password); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "Password updated")
	return nil
}

// runVisit resolves a view against the current session. A redirect to login
// remembers the path so the next login lands there.
func runVisit(_ context.Context, r *runner, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	path := args[0]

	d, err := r.routes.Resolve(path, r.store.Current())
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	switch d.Outcome {
	case guard.Allow:
		fmt.Fprintf(r.out, "%s %s\n", d.Outcome, guard.Normalize(path))
	case guard.RedirectToLogin:
		if err := r.store.SetReturnTo(d.From); err != nil {
			r.log.Warn().Err(err).Msg("could not save return location")
		}
		fmt.Fprintf(r.out, "%s %s (from %s)\n", d.Outcome, d.Location, d.From)
	default:
		fmt.Fprintf(r.out, "%s %s\n", d.Outcome, d.Location)
	}
	return nil
}

func runStatus(_ context.Context, r *runner, _ []string) error {
	s := r.store.Current()
	if !s.Authenticated() {
		fmt.Fprintln(r.out, "Logged out")
		return nil
	}
	fmt.Fprintf(r.out, "Logged in as %s (%s)\n", s.User.Email, s.Role)
	return nil
}

func runOffers(ctx context.Context, r *runner, args []string) error {
	fs := flag.NewFlagSet("offers", flag.ContinueOnError)
	offerType := fs.String("type", "", "filter by type")
	if err := parseFlags(r, fs, args, nil); err != nil {
		return err
	}

	offers, err := r.api.Offers(ctx, *offerType)
	if err != nil {
		return err
	}
	return printJSON(r.out, offers)
}

func runApply(ctx context.Context, r *runner, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	app, err := r.api.Apply(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Applied to %s (%s)\n", app.OfferID, app.Status)
	return nil
}

func runPosts(ctx context.Context, r *runner, _ []string) error {
	posts, err := r.api.Posts(ctx)
	if err != nil {
		return err
	}
	return printJSON(r.out, posts)
}
