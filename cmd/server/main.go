// Package main implements the dialog cards API server, which serves decks of
// two-sided dialog cards and tracks each learner's study session on them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/dialogcards/internal/config"
	"github.com/phrazzld/dialogcards/internal/platform/logger"
	"github.com/phrazzld/dialogcards/internal/redact"
)

// cliOptions holds the command line flags.
type cliOptions struct {
	migrate          string
	verifyMigrations bool
}

func parseFlags(args []string) (cliOptions, error) {
	var opts cliOptions

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.migrate, "migrate", "",
		"run a migration command (up, down, reset, status, version) and exit")
	fs.BoolVar(&opts.verifyMigrations, "verify-migrations", false,
		"check that every embedded migration has been applied and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, l, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if opts.migrate != "" || opts.verifyMigrations {
		if err := handleMigrations(context.Background(), cfg, l, opts); err != nil {
			l.Error("migration failed", redact.ErrorAttr(err))
			os.Exit(1)
		}
		return
	}

	if err := run(context.Background(), cfg, l); err != nil {
		l.Error("server exited with error", redact.ErrorAttr(err))
		os.Exit(1)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))
	l.Debug("Auth configuration",
		slog.Bool("jwt_secret_present", cfg.Auth.JWTSecret != ""),
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	return cfg, l, nil
}

// run connects to the database, wires the application and serves HTTP until
// the process is signalled or ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, l *slog.Logger) error {
	db, err := setupAppDatabase(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
