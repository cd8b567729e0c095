package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/worksy/marketplace/internal/api/handler"
	"github.com/worksy/marketplace/internal/core/ports"
	"github.com/worksy/marketplace/internal/infrastructure/db/memory"
	"github.com/worksy/marketplace/internal/infrastructure/db/mongo"
	"github.com/worksy/marketplace/internal/infrastructure/db/redis"
	"github.com/worksy/marketplace/internal/infrastructure/notify"
	"github.com/worksy/marketplace/internal/pkg/config"
)

// stores are the storage ports the server runs on.
type stores struct {
	users        ports.UserRepository
	offers       ports.OfferRepository
	applications ports.ApplicationRepository
	posts        ports.PostRepository
	revoked      ports.RevocationList
	resets       ports.ResetTokenStore
	checks       []handler.DependencyCheck
	close        func()
}

// openStores connects the backend named by cfg.Store. The memory store keeps
// everything in process and has no readiness checks.
func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.Store == config.StoreMemory {
		log.Warn().Msg("using in-memory store, data is lost on exit")
		mem := memory.New()
		return &stores{
			users:        mem.Users(),
			offers:       mem.Offers(),
			applications: mem.Applications(),
			posts:        mem.Posts(),
			revoked:      mem.Revocations(),
			resets:       mem.ResetTokens(),
			close:        func() {},
		}, nil
	}

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		_ = mongo.Disconnect(mongoClient)
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		_ = mongo.Disconnect(mongoClient)
		return nil, err
	}

	return &stores{
		users:        mongo.NewUserRepository(db),
		offers:       mongo.NewOfferRepository(db),
		applications: mongo.NewApplicationRepository(db),
		posts:        mongo.NewPostRepository(db),
		revoked:      redis.NewRevocationList(rdb),
		resets:       redis.NewResetTokenStore(rdb),
		checks:       []handler.DependencyCheck{handler.MongoCheck(db), handler.RedisCheck(rdb)},
		close: func() {
			if err := mongo.Disconnect(mongoClient); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect failed")
			}
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close failed")
			}
		},
	}, nil
}

// newResetNotifier logs reset requests. In development the full link is
// logged too, since no mail is sent.
func newResetNotifier(cfg *config.Config, log zerolog.Logger) *notify.LogNotifier {
	n := notify.NewLogNotifier(log, cfg.ResetURL)
	if cfg.IsDevelopment() {
		n.Deliver = notify.LogLinks(log)
	}
	return n
}
