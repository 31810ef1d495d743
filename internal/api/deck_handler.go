package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/dialogcards/internal/api/shared"
	"github.com/phrazzld/dialogcards/internal/platform/logger"
	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/service"
	"github.com/phrazzld/dialogcards/internal/store"
)

// DeckHandler handles deck authoring requests.
type DeckHandler struct {
	deckService service.DeckService
	logger      *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(deckService service.DeckService, logger *slog.Logger) *DeckHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DeckHandler")
	}

	return &DeckHandler{
		deckService: deckService,
		logger:      logger.With(slog.String("component", "deck_handler")),
	}
}

// CreateDeck handles POST /decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateDeckRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleValidationError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleValidationError(w, r, err)
		return
	}

	deck, err := h.deckService.CreateDeck(r.Context(), req.ToInput())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("deck created", slog.String("deck_id", deck.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, deckToResponse(deck))
}

// ListDecks handles GET /decks?mode=&limit=&offset=.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", service.DefaultListLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if limit == 0 {
		limit = service.DefaultListLimit
	}
	limit = min(limit, service.MaxListLimit)
	mode := domain.Mode(r.URL.Query().Get("mode"))

	decks, err := h.deckService.ListDecks(r.Context(), store.DeckFilter{
		Mode:   mode,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		message := ""
		if MapErrorToStatusCode(err) == http.StatusInternalServerError {
			message = "Failed to list decks"
		}
		HandleAPIError(w, r, err, message)
		return
	}

	resp := DeckListResponse{
		Decks:  make([]DeckSummaryResponse, 0, len(decks)),
		Mode:   string(mode),
		Limit:  limit,
		Offset: offset,
	}
	for _, d := range decks {
		resp.Decks = append(resp.Decks, deckToSummary(d))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetDeck handles GET /decks/{deckID}.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, ok := handlePathUUID(w, r, "deckID", log)
	if !ok {
		return
	}

	deck, err := h.deckService.GetDeck(r.Context(), deckID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(deck))
}

// DeleteDeck handles DELETE /decks/{deckID}.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, ok := handlePathUUID(w, r, "deckID", log)
	if !ok {
		return
	}

	if err := h.deckService.DeleteDeck(r.Context(), deckID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
