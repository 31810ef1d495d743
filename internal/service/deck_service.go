package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/platform/logger"
	"github.com/phrazzld/dialogcards/internal/redact"
	"github.com/phrazzld/dialogcards/internal/store"
)

// Paging limits for ListDecks.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// CreateDeckInput carries the fields of a new deck. A nil Behaviour selects
// domain.DefaultBehaviour.
type CreateDeckInput struct {
	Title       string
	Description string
	Mode        domain.Mode
	Behaviour   *domain.Behaviour
	Cards       []domain.CardDefinition
}

// DeckService provides deck authoring operations.
type DeckService interface {
	// CreateDeck validates and stores a new deck.
	// Returns an error matching domain.ErrValidation for invalid input.
	CreateDeck(ctx context.Context, input CreateDeckInput) (*domain.Deck, error)

	// GetDeck returns the deck or ErrDeckNotFound.
	GetDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// ListDecks returns a page of decks, newest first, optionally restricted
	// to one mode. Limits outside 1..MaxListLimit are replaced with
	// DefaultListLimit or MaxListLimit. An unknown mode is a validation error.
	ListDecks(ctx context.Context, filter store.DeckFilter) ([]*domain.Deck, error)

	// DeleteDeck removes the deck and every learner's progress on it.
	DeleteDeck(ctx context.Context, id uuid.UUID) error
}

type deckServiceImpl struct {
	decks  store.DeckStore
	logger *slog.Logger
}

// Verify interface compliance at compile time
var _ DeckService = (*deckServiceImpl)(nil)

// NewDeckService creates a DeckService.
func NewDeckService(decks store.DeckStore, logger *slog.Logger) (DeckService, error) {
	if decks == nil {
		return nil, domain.NewValidationError("decks", "cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		decks:  decks,
		logger: logger.With(slog.String("component", "deck_service")),
	}, nil
}

func (s *deckServiceImpl) CreateDeck(ctx context.Context, input CreateDeckInput) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	behaviour := domain.DefaultBehaviour()
	if input.Behaviour != nil {
		behaviour = *input.Behaviour
	}

	deck, err := domain.NewDeck(input.Title, input.Description, input.Mode, behaviour, input.Cards)
	if err != nil {
		log.Debug("rejected deck", slog.String("reason", err.Error()))
		return nil, domain.NewValidationError("deck", err.Error(), err)
	}

	if err := s.decks.Create(ctx, deck); err != nil {
		log.Error("failed to store deck",
			slog.String("deck_id", deck.ID.String()),
			redact.ErrorAttr(err))
		return nil, newServiceError("deck", "create", err)
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("mode", string(deck.Mode)),
		slog.Int("cards", len(deck.Cards)))
	return deck, nil
}

func (s *deckServiceImpl) GetDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	deck, err := s.decks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDeckNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load deck",
			slog.String("deck_id", id.String()),
			redact.ErrorAttr(err))
		return nil, newServiceError("deck", "get", err)
	}
	return deck, nil
}

func (s *deckServiceImpl) ListDecks(ctx context.Context, filter store.DeckFilter) ([]*domain.Deck, error) {
	if filter.Mode != "" && !filter.Mode.Valid() {
		return nil, domain.NewValidationError("mode", "must be normal or repetition", domain.ErrInvalidMode)
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}
	filter.Offset = max(filter.Offset, 0)

	decks, err := s.decks.List(ctx, filter)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list decks", redact.ErrorAttr(err))
		return nil, newServiceError("deck", "list", err)
	}
	return decks, nil
}

func (s *deckServiceImpl) DeleteDeck(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.decks.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDeckNotFound
		}
		log.Error("failed to delete deck",
			slog.String("deck_id", id.String()),
			redact.ErrorAttr(err))
		return newServiceError("deck", "delete", err)
	}

	log.Info("deck deleted", slog.String("deck_id", id.String()))
	return nil
}
