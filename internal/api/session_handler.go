package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/dialogcards/internal/api/shared"
	"github.com/phrazzld/dialogcards/internal/platform/logger"
	"github.com/phrazzld/dialogcards/internal/service"
)

// SessionHandler handles a learner's study session on a deck.
type SessionHandler struct {
	sessionService service.SessionService
	logger         *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger.With(slog.String("component", "session_handler")),
	}
}

// GetSession handles GET /decks/{deckID}/session.
// It resumes the stored session or presents a fresh one without saving it.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, deckID, ok := handleLearnerIDAndPathUUID(w, r, "deckID", log)
	if !ok {
		return
	}

	view, err := h.sessionService.GetSession(r.Context(), learnerID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// ApplyAction handles POST /decks/{deckID}/session/actions.
// A valid action that has no effect in the current state answers 200 with
// applied set to false.
func (h *SessionHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, deckID, ok := handleLearnerIDAndPathUUID(w, r, "deckID", log)
	if !ok {
		return
	}

	var req SessionActionRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleValidationError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleValidationError(w, r, err)
		return
	}

	action, err := service.ParseAction(req.Action)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.sessionService.Apply(r.Context(), learnerID, deckID, action)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("session action handled",
		slog.String("action", string(action)),
		slog.Bool("applied", result.Applied))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ResetSession handles DELETE /decks/{deckID}/session.
func (h *SessionHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, deckID, ok := handleLearnerIDAndPathUUID(w, r, "deckID", log)
	if !ok {
		return
	}

	if err := h.sessionService.ResetSession(r.Context(), learnerID, deckID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
