package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/redact"
	"github.com/phrazzld/dialogcards/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// If logger is nil, the default logger is used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// Create implements store.DeckStore.Create
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	behaviour, err := json.Marshal(deck.Behaviour)
	if err != nil {
		return fmt.Errorf("failed to encode deck behaviour: %w", err)
	}
	cards, err := json.Marshal(deck.Cards)
	if err != nil {
		return fmt.Errorf("failed to encode deck cards: %w", err)
	}

	query, args, err := psql.Insert(decksTable).
		Columns(deckColumns...).
		Values(
			deck.ID,
			deck.Title,
			deck.Description,
			string(deck.Mode),
			behaviour,
			cards,
			deck.CreatedAt,
			deck.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deck insert: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "failed to create deck",
			slog.String("deck_id", deck.ID.String()),
			redact.ErrorAttr(err))
		return MapError(err)
	}

	s.logger.DebugContext(ctx, "deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.Int("cards", len(deck.Cards)))
	return nil
}

// GetByID implements store.DeckStore.GetByID
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	query, args, err := psql.Select(deckColumns...).
		From(decksTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build deck query: %w", err)
	}

	deck, err := scanDeck(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.ErrorContext(ctx, "failed to get deck",
				slog.String("deck_id", id.String()),
				redact.ErrorAttr(err))
		}
		return nil, mapEntityError(err, store.ErrDeckNotFound)
	}

	return deck, nil
}

// List implements store.DeckStore.List
func (s *PostgresDeckStore) List(ctx context.Context, filter store.DeckFilter) ([]*domain.Deck, error) {
	builder := psql.Select(deckColumns...).
		From(decksTable).
		OrderBy("created_at DESC", "id").
		Limit(uint64(max(filter.Limit, 0))).
		Offset(uint64(max(filter.Offset, 0)))
	if filter.Mode != "" {
		builder = builder.Where(squirrel.Eq{"mode": string(filter.Mode)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build deck list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list decks", redact.ErrorAttr(err))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	decks := make([]*domain.Deck, 0, filter.Limit)
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, MapError(err)
		}
		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		s.logger.ErrorContext(ctx, "failed to iterate decks", redact.ErrorAttr(err))
		return nil, MapError(err)
	}

	return decks, nil
}

// Delete implements store.DeckStore.Delete
func (s *PostgresDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete(decksTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deck delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete deck",
			slog.String("deck_id", id.String()),
			redact.ErrorAttr(err))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrDeckNotFound); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "deck deleted", slog.String("deck_id", id.String()))
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(row rowScanner) (*domain.Deck, error) {
	var (
		deck      domain.Deck
		mode      string
		behaviour []byte
		cards     []byte
	)

	if err := row.Scan(
		&deck.ID,
		&deck.Title,
		&deck.Description,
		&mode,
		&behaviour,
		&cards,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	); err != nil {
		return nil, err
	}

	deck.Mode = domain.Mode(mode)
	if err := json.Unmarshal(behaviour, &deck.Behaviour); err != nil {
		return nil, fmt.Errorf("failed to decode behaviour of deck %s: %w", deck.ID, err)
	}
	if err := json.Unmarshal(cards, &deck.Cards); err != nil {
		return nil, fmt.Errorf("failed to decode cards of deck %s: %w", deck.ID, err)
	}

	return &deck, nil
}
