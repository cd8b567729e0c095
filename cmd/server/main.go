package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/worksy/marketplace/internal/api"
	"github.com/worksy/marketplace/internal/api/middleware"
	"github.com/worksy/marketplace/internal/core/service"
	"github.com/worksy/marketplace/internal/pkg/config"
	"github.com/worksy/marketplace/pkg/logger"
)

// @title                      Worksy Marketplace API
// @version                    1.0
// @description                Accounts, offers, applications and posts for the Worksy marketplace.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true, Output: os.Stderr})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "worksy-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("failed to open stores")
	}
	defer st.close()

	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token service")
	}

	auth := service.NewAuthService(service.AuthDeps{
		Users:    st.users,
		Hasher:   service.NewBcryptHasher(0),
		Tokens:   tokens,
		Revoked:  st.revoked,
		Resets:   st.resets,
		Notifier: newResetNotifier(cfg, log),
		ResetTTL: cfg.ResetTokenTTL,
	}, log)

	e := api.NewRouter(api.Deps{
		Auth:         auth,
		Offers:       service.NewOfferService(st.offers, log),
		Applications: service.NewApplicationService(st.offers, st.applications, log),
		Posts:        service.NewPostService(st.posts, log),
		Checks:       st.checks,
		Logger:       log,
		AuthLimiter:  middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst),
		CORSOrigins:  api.ParseOrigins(cfg.CORSOrigins),
		Metrics:      true,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("worksy api started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	log.Info().Msg("worksy api stopped cleanly")
}
