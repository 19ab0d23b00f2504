package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/dhruvat/astra-api/internal/platform/postgres/migrations"
)

// slogGooseLogger forwards goose output to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// setupGoose points goose at the embedded migrations.
func setupGoose() error {
	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	return nil
}

// migrateUp applies all pending migrations. Called on every server start so
// a fresh database is ready without a separate migration step.
func migrateUp(db *sql.DB, logger *slog.Logger) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	logger.Info("database migrations applied")
	return nil
}

// runMigrationCommand executes a single migration command and returns.
func runMigrationCommand(db *sql.DB, command string, logger *slog.Logger) error {
	if err := setupGoose(); err != nil {
		return err
	}

	var err error
	switch command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
	if err != nil {
		return fmt.Errorf("running migration command %q: %w", command, err)
	}

	logger.Info("migration command completed", slog.String("command", command))
	return nil
}
