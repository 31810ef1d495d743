package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/dialogcards/internal/api"
	apiMiddleware "github.com/phrazzld/dialogcards/internal/api/middleware"
	"github.com/phrazzld/dialogcards/internal/api/shared"
	"github.com/phrazzld/dialogcards/internal/redact"
)

const healthCheckTimeout = 2 * time.Second

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	deckHandler := api.NewDeckHandler(app.deckService, app.logger)
	sessionHandler := api.NewSessionHandler(app.sessionService, app.logger)
	progressHandler := api.NewProgressHandler(app.broadcaster, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/decks", func(r chi.Router) {
			r.Post("/", deckHandler.CreateDeck)
			r.Get("/", deckHandler.ListDecks)

			r.Route("/{deckID}", func(r chi.Router) {
				r.Get("/", deckHandler.GetDeck)
				r.Delete("/", deckHandler.DeleteDeck)

				r.Get("/session", sessionHandler.GetSession)
				r.Delete("/session", sessionHandler.ResetSession)
				r.Post("/session/actions", sessionHandler.ApplyAction)
			})
		})

		r.Get("/progress/stream", progressHandler.Stream)
	})

	r.Get("/health", app.handleHealth)

	return r
}

// handleHealth reports whether the server can reach its database.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if app.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := app.db.PingContext(ctx); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("Failed to write health check response", redact.ErrorAttr(err))
	}
}
