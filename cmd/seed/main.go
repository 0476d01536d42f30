// seed creates the first system administrator, so that public admin sign-up
// can stay disabled in production.
//
// Usage: SEED_ADMIN_EMAIL=... SEED_ADMIN_PASSWORD=... go run ./cmd/seed
// SEED_ADMIN_NAME and SEED_ADMIN_ADDRESS are optional. Running it twice is harmless.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/jhoicas/storerating-api/internal/application/auth"
	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/application/validation"
	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/infrastructure/postgres"
	"github.com/jhoicas/storerating-api/pkg/config"
	"github.com/jhoicas/storerating-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SEED_ADMIN_NAME", "System Administrator")

	in := dto.CreateUserRequest{
		SignupRequest: dto.SignupRequest{
			Name:     v.GetString("SEED_ADMIN_NAME"),
			Email:    v.GetString("SEED_ADMIN_EMAIL"),
			Password: v.GetString("SEED_ADMIN_PASSWORD"),
			Address:  v.GetString("SEED_ADMIN_ADDRESS"),
		},
		Role: string(entity.RoleSystemAdmin),
	}
	if err := validation.Struct(&in); err != nil {
		var verrs *validation.Errors
		if errors.As(err, &verrs) {
			for _, f := range verrs.Fields {
				log.Error().Str("field", f.Field).Msg(f.Message)
			}
		}
		log.Fatal().Msg("invalid SEED_ADMIN_* settings")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.Config{
		JWTSecret:        cfg.JWT.Secret,
		JWTIssuer:        cfg.JWT.Issuer,
		AccessTTLMinutes: cfg.JWT.Expiration,
		BcryptCost:       cfg.Auth.BcryptCost,
	})

	user, err := authUC.CreateUser(ctx, in)
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		log.Info().Str("email", in.Email).Msg("administrator already exists")
	case err != nil:
		log.Fatal().Err(err).Msg("create administrator")
	default:
		log.Info().Str("id", user.ID).Str("email", user.Email).Msg("administrator created")
	}
}
