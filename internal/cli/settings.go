package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sethvargo/go-envconfig"
)

// Settings are the CLI defaults read from the environment. The -api and
// -session flags override them.
type Settings struct {
	API      string `env:"WORKSY_API, default=http://localhost:8080"`
	Session  string `env:"WORKSY_SESSION"`
	LogLevel string `env:"WORKSY_LOG_LEVEL, default=warn"`
}

func loadSettings(ctx context.Context, lookuper envconfig.Lookuper) (*Settings, error) {
	var s Settings
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("cli: failed to load settings: %w", err)
	}
	return &s, nil
}

// defaultSessionPath is <user config dir>/worksy/session.yaml, falling back
// to the working directory.
func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".worksy-session.yaml"
	}
	return filepath.Join(dir, "worksy", "session.yaml")
}
