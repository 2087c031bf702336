// cmd/migrate applies or reverts the SQL migrations under MIGRATIONS_PATH.
// Uso: go run ./cmd/migrate [-down N]
package main

import (
	"flag"
	"os"
	"time"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/config"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/infra"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	down := flag.Int("down", 0, "number of migrations to revert (0 applies all pending)")
	path := flag.String("path", "", "migrations directory (defaults to MIGRATIONS_PATH)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *path == "" {
		*path = cfg.MigrationsPath
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	if *down > 0 {
		if err := infra.RollbackMigrations(db, *path, *down); err != nil {
			log.Fatal().Err(err).Msg("rollback failed")
		}
		log.Info().Int("steps", *down).Msg("migraciones revertidas")
		return
	}
	if err := infra.RunMigrations(db, *path); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}
