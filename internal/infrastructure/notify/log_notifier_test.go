package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/worksy/marketplace/internal/core/ports"
)

func TestLogNotifier_NeverLogsToken(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf), "https://worksy.io/reset-password")

	var gotEmail, gotLink string
	n.Deliver = func(email, link string) { gotEmail, gotLink = email, link }

	err := n.NotifyReset(context.Background(), ports.ResetRequest{
		Email:     "alice@x.io",
		Token:     "secret-token",
		ExpiresAt: time.Now().Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if strings.Contains(buf.String(), "secret-token") {
		t.Fatalf("token leaked into log: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "alice@x.io") {
		t.Fatalf("expected email in log: %s", buf.String())
	}
	if gotEmail != "alice@x.io" || gotLink != "https://worksy.io/reset-password?token=secret-token" {
		t.Fatalf("unexpected delivery: %q %q", gotEmail, gotLink)
	}
}

func TestLogLinks_WritesLink(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.Nop(), "")
	n.Deliver = LogLinks(zerolog.New(&buf))

	err := n.NotifyReset(context.Background(), ports.ResetRequest{Email: "alice@x.io", Token: "tok en"})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if !strings.Contains(buf.String(), "/reset-password?token=tok+en") || !strings.Contains(buf.String(), "alice@x.io") {
		t.Fatalf("expected link in log: %s", buf.String())
	}
}
