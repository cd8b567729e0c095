// Command provision creates accounts directly in the store, including admins,
// which cannot sign up over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/worksy/marketplace/internal/core/domain"
	"github.com/worksy/marketplace/internal/core/ports"
	"github.com/worksy/marketplace/internal/core/service"
	"github.com/worksy/marketplace/internal/infrastructure/db/mongo"
	"github.com/worksy/marketplace/internal/pkg/config"
	"github.com/worksy/marketplace/pkg/logger"
)

func main() {
	var (
		name     = flag.String("name", "", "full name (required)")
		email    = flag.String("email", "", "email (required)")
		password = flag.String("password", os.Getenv("PROVISION_PASSWORD"), "password (default: env PROVISION_PASSWORD)")
		role     = flag.String("role", string(domain.RoleAdmin), "account role")
		skills   = flag.String("skills", "", "comma separated skills")
	)
	flag.Parse()

	_ = godotenv.Load()

	log := logger.Init(logger.Options{Pretty: true, Output: os.Stderr, Service: "worksy-provision"})

	if *name == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer mongo.Disconnect(client)

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create mongo indexes")
	}

	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token service")
	}
	auth := service.NewAuthService(service.AuthDeps{
		Users:  mongo.NewUserRepository(db),
		Hasher: service.NewBcryptHasher(0),
		Tokens: tokens,
	}, log)

	in := ports.RegisterInput{
		FullName: *name,
		Email:    *email,
		Password: *password,
		Role:     domain.Role(*role),
	}
	if *skills != "" {
		in.Skills = strings.Split(*skills, ",")
	}

	user, err := auth.Provision(ctx, in)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to provision account")
	}
	fmt.Printf("created %s %s (%s)\n", user.Role, user.Email, user.ID)
}
