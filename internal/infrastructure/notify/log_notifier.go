// Package notify delivers password reset links.
package notify

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/worksy/marketplace/internal/core/ports"
)

// LogNotifier writes reset notifications to the log instead of sending mail.
// The token itself is never logged; Deliver receives it.
type LogNotifier struct {
	logger  zerolog.Logger
	baseURL string
	// Deliver, when set, receives the reset link. The CLI and tests use it.
	Deliver func(email, link string)
}

func NewLogNotifier(logger zerolog.Logger, baseURL string) *LogNotifier {
	return &LogNotifier{logger: logger, baseURL: baseURL}
}

func (n *LogNotifier) NotifyReset(_ context.Context, req ports.ResetRequest) error {
	n.logger.Info().
		Str("email", req.Email).
		Time("expires_at", req.ExpiresAt).
		Msg("password reset link issued")
	if n.Deliver != nil {
		n.Deliver(req.Email, n.link(req.Token))
	}
	return nil
}

func (n *LogNotifier) link(token string) string {
	base := n.baseURL
	if base == "" {
		base = "/reset-password"
	}
	return base + "?token=" + url.QueryEscape(token)
}

// LogLinks returns a Deliver hook that writes the whole reset link, token
// included, to logger. Development only.
func LogLinks(logger zerolog.Logger) func(email, link string) {
	return func(email, link string) {
		logger.Warn().Str("email", email).Str("reset_link", link).Msg("development reset link")
	}
}
