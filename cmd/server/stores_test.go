package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/worksy/marketplace/internal/core/domain"
	"github.com/worksy/marketplace/internal/core/ports"
	"github.com/worksy/marketplace/internal/pkg/config"
)

func TestOpenStores_Memory(t *testing.T) {
	st, err := openStores(context.Background(), &config.Config{Store: config.StoreMemory}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.close()

	if len(st.checks) != 0 {
		t.Fatalf("memory store should have no readiness checks, got %d", len(st.checks))
	}
	u, err := st.users.Create(context.Background(), &domain.User{Email: "alice@x.io", Role: domain.RoleFreelancer})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := st.users.FindByID(context.Background(), u.ID); err != nil {
		t.Fatalf("find: %v", err)
	}
}

func TestNewResetNotifier_DevelopmentLogsLink(t *testing.T) {
	req := ports.ResetRequest{Email: "alice@x.io", Token: "tok"}

	var dev bytes.Buffer
	n := newResetNotifier(&config.Config{Env: "development", ResetURL: "/reset-password"}, zerolog.New(&dev))
	if err := n.NotifyReset(context.Background(), req); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if !strings.Contains(dev.String(), "/reset-password?token=tok") {
		t.Fatalf("development should log the link: %s", dev.String())
	}

	var prod bytes.Buffer
	n = newResetNotifier(&config.Config{Env: "production", ResetURL: "/reset-password"}, zerolog.New(&prod))
	if err := n.NotifyReset(context.Background(), req); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if strings.Contains(prod.String(), "tok") {
		t.Fatalf("production must not log the token: %s", prod.String())
	}
}
