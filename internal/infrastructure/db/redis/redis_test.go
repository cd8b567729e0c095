package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/worksy/marketplace/internal/core/domain"
)

var testClient *redis.Client

func TestMain(m *testing.M) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		fmt.Println("REDIS_ADDR not set, skipping redis integration tests")
		os.Exit(0)
	}

	client, err := Connect(context.Background(), Config{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	if err != nil {
		fmt.Printf("connect: %v\n", err)
		os.Exit(1)
	}
	testClient = client

	code := m.Run()
	_ = client.Close()
	os.Exit(code)
}

func TestRevocationList(t *testing.T) {
	ctx := context.Background()
	list := NewRevocationList(testClient)
	id := fmt.Sprintf("jti-%d", time.Now().UnixNano())

	revoked, err := list.IsRevoked(ctx, id)
	if err != nil || revoked {
		t.Fatalf("fresh id should not be revoked: %v %v", revoked, err)
	}
	if err := list.Revoke(ctx, id, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err = list.IsRevoked(ctx, id)
	if err != nil || !revoked {
		t.Fatalf("expected revoked: %v %v", revoked, err)
	}

	ttl, err := testClient.TTL(ctx, revokedKey(id)).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl %v: %v", ttl, err)
	}
}

func TestRevocationList_ExpiredTokenIsNoop(t *testing.T) {
	ctx := context.Background()
	list := NewRevocationList(testClient)
	id := fmt.Sprintf("jti-old-%d", time.Now().UnixNano())

	if err := list.Revoke(ctx, id, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if n, _ := testClient.Exists(ctx, revokedKey(id)).Result(); n != 0 {
		t.Fatal("expected no key for an already expired token")
	}
}

func TestResetTokenStore_SingleUse(t *testing.T) {
	ctx := context.Background()
	store := NewResetTokenStore(testClient)
	token := fmt.Sprintf("tok-%d", time.Now().UnixNano())

	if err := store.Save(ctx, token, "user-1", time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	if n, _ := testClient.Exists(ctx, "reset:"+token).Result(); n != 0 {
		t.Fatal("raw token must not be used as a key")
	}

	userID, err := store.Consume(ctx, token)
	if err != nil || userID != "user-1" {
		t.Fatalf("consume: %q %v", userID, err)
	}
	if _, err := store.Consume(ctx, token); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken on reuse, got %v", err)
	}
}
