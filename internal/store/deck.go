package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/dialogcards/internal/domain"
)

// DeckFilter selects a page of decks. An empty Mode matches every deck.
type DeckFilter struct {
	Mode   domain.Mode
	Limit  int
	Offset int
}

// DeckStore defines the interface for deck persistence.
// A deck is stored as a whole: its behaviour and card definitions are never
// updated independently of the deck row.
type DeckStore interface {
	// Create saves a new deck. The deck must be valid according to domain rules.
	// Returns ErrDuplicate if a deck with the same ID already exists.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck with all of its card definitions.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// List returns the decks matching filter ordered by creation time, newest
	// first. Card definitions are included so callers can report deck sizes.
	List(ctx context.Context, filter DeckFilter) ([]*domain.Deck, error)

	// Delete removes a deck. Stored session state for the deck is removed
	// by the database through ON DELETE CASCADE.
	// Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
