package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/storerating-api/docs"
	appanalytics "github.com/jhoicas/storerating-api/internal/application/analytics"
	"github.com/jhoicas/storerating-api/internal/application/auth"
	"github.com/jhoicas/storerating-api/internal/application/usecase"
	"github.com/jhoicas/storerating-api/internal/infrastructure/cache"
	"github.com/jhoicas/storerating-api/internal/infrastructure/memory"
	"github.com/jhoicas/storerating-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/storerating-api/internal/infrastructure/pdf"
	"github.com/jhoicas/storerating-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/storerating-api/internal/interfaces/http"
	"github.com/jhoicas/storerating-api/pkg/config"
	"github.com/jhoicas/storerating-api/pkg/logger"
)

// @title                       Store Rating API
// @version                     1.0
// @description                 Users rate stores from 1 to 5; owners follow their store, administrators manage everything.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("starting application")

	ctx := context.Background()
	checks := map[string]httpRouter.HealthCheck{}

	var (
		repos usecase.Repos
		tx    usecase.TxRunner
	)
	switch cfg.Storage.Driver {
	case "memory":
		db := memory.New()
		repos = memory.Repositories(db)
		tx = memory.NewTxRunner(db)
		log.Warn().Msg("in-memory storage: data is lost on restart")
	default:
		if cfg.DB.MigrateOnStart {
			if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("apply migrations")
			}
			log.Info().Msg("migrations applied")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to PostgreSQL")
		}
		defer pool.Close()
		repos = postgres.Repositories(pool)
		tx = postgres.NewTxRunner(pool)
		checks["database"] = pool.Ping
	}

	var dashboardCache appanalytics.Cache = cache.Noop{}
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.App.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to Redis")
		}
		defer rc.Close()
		dashboardCache = rc
		checks["cache"] = rc.Ping
	}

	m := metrics.New("storerating")

	authUC := auth.NewAuthUseCase(repos.Users, auth.Config{
		JWTSecret:        cfg.JWT.Secret,
		JWTIssuer:        cfg.JWT.Issuer,
		AccessTTLMinutes: cfg.JWT.Expiration,
		BcryptCost:       cfg.Auth.BcryptCost,
		AllowAdminSignup: cfg.Auth.AllowAdminSignup,
	})
	dashboardUC := appanalytics.NewDashboardUseCase(
		repos.Users, repos.Stores, repos.Ratings,
		dashboardCache, cfg.Cache.DashboardTTL,
		infrapdf.NewStoreReportRenderer(),
	)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	}, log, m, checks)

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: []byte(docs.SwaggerInfo.ReadDoc()),
		Path:        "docs",
		Title:       "Store Rating API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(repos.Users, repos.Stores, tx),
		StoreUC:     usecase.NewStoreUseCase(repos.Users, repos.Stores, repos.Ratings, tx),
		RatingUC:    usecase.NewRatingUseCase(repos.Stores, repos.Ratings),
		DashboardUC: dashboardUC,
		Metrics:     m,
		Cookie: httpRouter.CookieConfig{
			Secure: cfg.Cookie.Secure,
			Domain: cfg.Cookie.Domain,
			TTL:    cfg.Auth.RefreshTokenTTL,
		},
		LoginRateLimit: cfg.Auth.LoginRateLimit,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
