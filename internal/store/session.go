package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/dialogcards/internal/domain"
)

// SessionStore defines the interface for persisted session state, keyed by
// learner and deck. At most one state exists per pair.
type SessionStore interface {
	// Get retrieves the stored state.
	// Returns ErrSessionNotFound if nothing is stored for the pair.
	Get(ctx context.Context, learnerID, deckID uuid.UUID) (*domain.SessionState, error)

	// GetForUpdate behaves like Get but locks the row until the surrounding
	// transaction ends. It must be called on a store returned by WithTx.
	GetForUpdate(ctx context.Context, learnerID, deckID uuid.UUID) (*domain.SessionState, error)

	// Save inserts or replaces the stored state.
	// Returns ErrInvalidEntity if the state fails validation.
	Save(ctx context.Context, learnerID, deckID uuid.UUID, state *domain.SessionState) error

	// Delete removes the stored state. Deleting a missing state is not an error.
	Delete(ctx context.Context, learnerID, deckID uuid.UUID) error

	// WithTx returns a new SessionStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	WithTx(tx *sql.Tx) SessionStore
}
