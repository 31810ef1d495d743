package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/dialogcards/internal/config"
	"github.com/phrazzld/dialogcards/internal/platform/postgres"
	"github.com/pressly/goose/v3"
)

// migrationCommands lists the goose commands accepted by -migrate.
var migrationCommands = []string{"up", "down", "reset", "status", "version"}

// ErrPendingMigrations is returned by -verify-migrations when the database
// is behind the embedded migrations.
var ErrPendingMigrations = errors.New("database has pending migrations")

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf implements goose.Logger. It does not exit; the failing goose call
// returns an error that main reports.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// handleMigrations runs the migration operation selected by opts.
func handleMigrations(ctx context.Context, cfg *config.Config, l *slog.Logger, opts cliOptions) error {
	migrationLogger := l.With(
		slog.String("component", "migrations"),
		slog.String("correlation_id", uuid.NewString()),
	)

	if opts.migrate != "" && !isMigrationCommand(opts.migrate) {
		return fmt.Errorf("unknown migration command: %s (expected one of %s)",
			opts.migrate, strings.Join(migrationCommands, ", "))
	}

	migrationLogger.Info("Opening database connection for migrations",
		slog.String("url", maskDatabaseURL(cfg.Database.URL)))

	db, err := setupAppDatabase(ctx, cfg.Database, migrationLogger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			migrationLogger.Warn("Error closing database connection", slog.String("error", cerr.Error()))
		}
	}()

	goose.SetLogger(&slogGooseLogger{logger: migrationLogger})
	if err := postgres.ConfigureMigrations(); err != nil {
		return fmt.Errorf("failed to configure migrations: %w", err)
	}

	if opts.verifyMigrations {
		return verifyAppliedMigrations(db, migrationLogger)
	}
	return executeMigration(db, opts.migrate, migrationLogger)
}

func isMigrationCommand(command string) bool {
	return slices.Contains(migrationCommands, command)
}

// executeMigration runs one goose command against db. goose must already be
// configured with postgres.ConfigureMigrations.
func executeMigration(db *sql.DB, command string, l *slog.Logger) error {
	start := time.Now()
	l = l.With(slog.String("command", command))

	before, versionErr := goose.GetDBVersion(db)
	if versionErr != nil {
		l.Warn("Failed to retrieve current migration version", slog.String("error", versionErr.Error()))
	}

	var err error
	switch command {
	case "up":
		err = goose.Up(db, postgres.MigrationsDir)
	case "down":
		err = goose.Down(db, postgres.MigrationsDir)
	case "reset":
		err = goose.Reset(db, postgres.MigrationsDir)
	case "status":
		err = goose.Status(db, postgres.MigrationsDir)
	case "version":
		err = goose.Version(db, postgres.MigrationsDir)
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}

	if err != nil {
		l.Error("Migration command failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	after, afterErr := goose.GetDBVersion(db)
	if versionErr == nil && afterErr == nil && after != before {
		l.Info("Database schema version changed",
			slog.Int64("previous_version", before),
			slog.Int64("new_version", after))
	}

	l.Info("Migration command executed successfully",
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// verifyAppliedMigrations checks that the database is at the newest embedded
// migration version.
func verifyAppliedMigrations(db *sql.DB, l *slog.Logger) error {
	migrations, err := goose.CollectMigrations(postgres.MigrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return fmt.Errorf("failed to collect migrations: %w", err)
	}
	latest, err := migrations.Last()
	if err != nil {
		return fmt.Errorf("failed to determine latest migration: %w", err)
	}

	current, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to retrieve database version: %w", err)
	}

	if current < latest.Version {
		l.Error("Migrations pending",
			slog.Int64("database_version", current),
			slog.Int64("latest_version", latest.Version))
		return fmt.Errorf("%w: at version %d, latest is %d", ErrPendingMigrations, current, latest.Version)
	}

	l.Info("All migrations applied",
		slog.Int64("version", current),
		slog.Int("migration_count", len(migrations)))
	return nil
}

// maskDatabaseURL hides the password in a database URL for logging.
func maskDatabaseURL(dbURL string) string {
	parsed, err := url.Parse(dbURL)
	if err != nil || parsed.Scheme == "" {
		return "invalid-url"
	}
	return parsed.Redacted()
}
