package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/dialogcards/internal/config"
	"github.com/phrazzld/dialogcards/internal/events"
	"github.com/phrazzld/dialogcards/internal/platform/postgres"
	"github.com/phrazzld/dialogcards/internal/redact"
	"github.com/phrazzld/dialogcards/internal/service"
	"github.com/phrazzld/dialogcards/internal/service/auth"
	"github.com/phrazzld/dialogcards/internal/store"
)

// application holds the shared dependencies of the server so that they can
// be wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	deckStore    store.DeckStore
	sessionStore store.SessionStore

	jwtService     auth.JWTService
	deckService    service.DeckService
	sessionService service.SessionService

	eventEmitter *events.InMemoryEventEmitter
	broadcaster  *events.Broadcaster
}

// newApplication wires stores, services and the event emitter on top of an
// established database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.deckStore = postgres.NewPostgresDeckStore(db, logger)
	app.sessionStore = postgres.NewPostgresSessionStore(db, logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLoggingHandler(logger))
	app.broadcaster = events.NewBroadcaster(events.DefaultSubscriberBuffer, logger)
	app.eventEmitter.RegisterHandler(app.broadcaster)

	app.deckService, err = service.NewDeckService(app.deckStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}

	app.sessionService, err = service.NewSessionService(
		app.deckStore,
		app.sessionStore,
		service.NewSQLSessionTransactor(db, app.sessionStore),
		app.eventEmitter,
		cfg.Session,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until shutdown and then releases resources.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", redact.ErrorAttr(err))
		}
	}

	app.logger.Info("Application shutdown completed")
}
