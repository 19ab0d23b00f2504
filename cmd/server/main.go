// Package main implements the entry point for the Astra API server, which
// registers users, derives their astrological profile, and generates
// personalized life blueprint content through interchangeable AI providers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/dhruvat/astra-api/internal/config"
	"github.com/dhruvat/astra-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// run loads configuration, wires the application, and either executes a
// migration command or starts the HTTP server.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)
	slog.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("default_provider", cfg.LLM.DefaultProvider))

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	if migrateCmd != "" {
		defer func() {
			if err := db.Close(); err != nil {
				appLogger.Error("closing database", slog.String("error", err.Error()))
			}
		}()
		return runMigrationCommand(db, migrateCmd, appLogger)
	}

	if err := migrateUp(db, appLogger); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer app.cleanup()

	return app.Run(ctx)
}
