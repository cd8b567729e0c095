package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Mongo.Database != "worksy" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour || cfg.ResetTokenTTL != 30*time.Minute {
		t.Fatalf("unexpected ttls: %v %v", cfg.TokenTTL, cfg.ResetTokenTTL)
	}
	if cfg.AuthRateLimit != 5 || cfg.AuthRateBurst != 10 {
		t.Fatalf("unexpected rate limit: %v %d", cfg.AuthRateLimit, cfg.AuthRateBurst)
	}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development by default")
	}
	if cfg.Store != StoreMongo {
		t.Fatalf("expected mongo store by default, got %q", cfg.Store)
	}
}

func TestLoad_Store(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
		"STORE":      " Memory ",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != StoreMemory {
		t.Fatalf("expected memory store, got %q", cfg.Store)
	}

	_, err = LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
		"STORE":      "postgres",
	}))
	if !errors.Is(err, ErrUnknownStore) {
		t.Fatalf("expected ErrUnknownStore, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "s3cret",
		"ENV":            "production",
		"TOKEN_TTL":      "1h",
		"REDIS_PASSWORD": "pw",
		"REDIS_DB":       "2",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IsDevelopment() || cfg.TokenTTL != time.Hour || cfg.Redis.Password != "pw" || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	for _, env := range []map[string]string{{}, {"JWT_SECRET": "  "}} {
		if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(env)); !errors.Is(err, ErrMissingJWTSecret) {
			t.Fatalf("expected ErrMissingJWTSecret for %v, got %v", env, err)
		}
	}
}
