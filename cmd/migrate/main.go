// migrate applies or rolls back the embedded PostgreSQL schema.
//
// Usage:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down [n]   (default 1)
//	go run ./cmd/migrate version
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/storerating-api/internal/infrastructure/postgres"
	"github.com/jhoicas/storerating-api/pkg/config"
	"github.com/jhoicas/storerating-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate up | down [n] | version")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	mg, err := postgres.NewMigrator(cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("open migrator")
	}
	defer mg.Close()

	switch os.Args[1] {
	case "up":
		err = mg.Up()
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil {
				log.Fatal().Str("steps", os.Args[2]).Msg("steps must be a number")
			}
		}
		err = mg.Down(steps)
	case "version":
	default:
		log.Fatal().Str("command", os.Args[1]).Msg("unknown command")
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("migration failed")
	}

	v, dirty, err := mg.Version()
	if err != nil {
		log.Fatal().Err(err).Msg("read schema version")
	}
	log.Info().Uint("version", v).Bool("dirty", dirty).Msg("schema version")
}
