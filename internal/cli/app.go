// Package cli is the terminal client: it signs in against the API, keeps the
// session in a file and answers which views the session may open.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/worksy/marketplace/pkg/client"
	"github.com/worksy/marketplace/pkg/guard"
	"github.com/worksy/marketplace/pkg/logger"
	"github.com/worksy/marketplace/pkg/session"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errUsage marks errors that should print usage and exit 2.
var errUsage = errors.New("usage")

// App runs one CLI invocation. Zero fields fall back to the process
// environment and standard streams.
type App struct {
	Stdout     io.Writer
	Stderr     io.Writer
	Lookuper   envconfig.Lookuper
	HTTPClient *http.Client
	Routes     guard.Routes
}

type command struct {
	usage string
	run   func(ctx context.Context, r *runner, args []string) error
}

var commands = map[string]command{
	"register": {"register -name NAME -email EMAIL -password PASS -role ROLE [-skills a,b]", runRegister},
	"login":    {"login -email EMAIL -password PASS", runLogin},
	"logout":   {"logout", runLogout},
	"me":       {"me", runMe},
	"forgot":   {"forgot -email EMAIL", runForgot},
	"reset":    {"reset -token TOKEN -password PASS", runReset},
	"visit":    {"visit PATH", runVisit},
	"status":   {"status", runStatus},
	"offers":   {"offers [-type stage|freelance|emploi]", runOffers},
	"apply":    {"apply OFFER_ID", runApply},
	"posts":    {"posts", runPosts},
}

// runner carries what every command needs.
type runner struct {
	out    io.Writer
	errOut io.Writer
	api    *client.Client
	store  *session.Store
	routes guard.Routes
	log    zerolog.Logger
}

// Run parses args (without the program name) and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	stdout, stderr := a.Stdout, a.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	lookuper := a.Lookuper
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}

	settings, err := loadSettings(ctx, lookuper)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitError
	}

	fs := flag.NewFlagSet("worksy", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", settings.API, "API base URL (env WORKSY_API)")
	sessionPath := fs.String("session", settings.Session, "session file (env WORKSY_SESSION)")
	fs.Usage = func() { printUsage(stderr) }
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return exitUsage
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		printUsage(stderr)
		return exitUsage
	}

	if *sessionPath == "" {
		*sessionPath = defaultSessionPath()
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Level(logger.ParseLevel(settings.LogLevel)).
		With().Timestamp().Logger()

	store := session.Open(session.NewFileBackend(*sessionPath))
	opts := []client.Option{client.WithTokenSource(store.Token)}
	if a.HTTPClient != nil {
		opts = append(opts, client.WithHTTPClient(a.HTTPClient))
	}

	routes := a.Routes
	if routes == nil {
		routes = guard.DefaultRoutes
	}

	r := &runner{
		out:    stdout,
		errOut: stderr,
		api:    client.New(*apiURL, opts...),
		store:  store,
		routes: routes,
		log:    log,
	}
	log.Debug().Str("api", *apiURL).Str("session", *sessionPath).Str("command", rest[0]).Msg("running")

	if err := cmd.run(ctx, r, rest[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, "usage: worksy", cmd.usage)
			return exitUsage
		}
		fmt.Fprintln(stderr, "error:", err)
		return exitError
	}
	return exitOK
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: worksy [-api URL] [-session FILE] <command> [flags]")
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(w, "  "+commands[name].usage)
	}
}

// parseFlags parses a subcommand's flags and requires each named flag to be
// non-empty.
func parseFlags(r *runner, fs *flag.FlagSet, args []string, required map[string]*string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	for name, v := range required {
		if strings.TrimSpace(*v) == "" {
			fmt.Fprintf(r.errOut, "missing -%s\n", name)
			return errUsage
		}
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
