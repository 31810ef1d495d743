package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/redact"
	"github.com/phrazzld/dialogcards/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface. Each
// learner and deck pair owns one row whose state column holds the
// domain.SessionState document.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the SessionStore interface.
// If logger is nil, the default logger is used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.SessionStore.Get
func (s *PostgresSessionStore) Get(ctx context.Context, learnerID, deckID uuid.UUID) (*domain.SessionState, error) {
	return s.get(ctx, selectSessionState(learnerID, deckID), learnerID, deckID)
}

// GetForUpdate implements store.SessionStore.GetForUpdate
func (s *PostgresSessionStore) GetForUpdate(ctx context.Context, learnerID, deckID uuid.UUID) (*domain.SessionState, error) {
	return s.get(ctx, selectSessionState(learnerID, deckID).Suffix("FOR UPDATE"), learnerID, deckID)
}

// selectSessionState keeps learner_id as $1 and deck_id as $2.
func selectSessionState(learnerID, deckID uuid.UUID) squirrel.SelectBuilder {
	return psql.Select("state").
		From(sessionStatesTable).
		Where(squirrel.Eq{"learner_id": learnerID}).
		Where(squirrel.Eq{"deck_id": deckID})
}

func (s *PostgresSessionStore) get(
	ctx context.Context,
	builder squirrel.SelectBuilder,
	learnerID, deckID uuid.UUID,
) (*domain.SessionState, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build session state query: %w", err)
	}

	var raw []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.ErrorContext(ctx, "failed to load session state",
				slog.String("learner_id", learnerID.String()),
				slog.String("deck_id", deckID.String()),
				redact.ErrorAttr(err))
		}
		return nil, mapEntityError(err, store.ErrSessionNotFound)
	}

	var state domain.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, store.NewStoreError("session", "get", "stored state is not valid JSON", err)
	}

	return &state, nil
}

// Save implements store.SessionStore.Save
func (s *PostgresSessionStore) Save(
	ctx context.Context,
	learnerID, deckID uuid.UUID,
	state *domain.SessionState,
) error {
	if state == nil {
		return fmt.Errorf("%w: nil session state", store.ErrInvalidEntity)
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}

	query, args, err := psql.Insert(sessionStatesTable).
		Columns("learner_id", "deck_id", "state", "updated_at").
		Values(learnerID, deckID, raw, time.Now().UTC()).
		Suffix("ON CONFLICT (learner_id, deck_id) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build session state upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "failed to save session state",
			slog.String("learner_id", learnerID.String()),
			slog.String("deck_id", deckID.String()),
			redact.ErrorAttr(err))
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrDeckNotFound, err)
		}
		return MapError(err)
	}

	s.logger.DebugContext(ctx, "session state saved",
		slog.String("learner_id", learnerID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("round", state.Round),
		slog.Int("position", state.CurrentCardID))
	return nil
}

// Delete implements store.SessionStore.Delete
func (s *PostgresSessionStore) Delete(ctx context.Context, learnerID, deckID uuid.UUID) error {
	query, args, err := psql.Delete(sessionStatesTable).
		Where(squirrel.Eq{"learner_id": learnerID}).
		Where(squirrel.Eq{"deck_id": deckID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build session state delete: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete session state",
			slog.String("learner_id", learnerID.String()),
			slog.String("deck_id", deckID.String()),
			redact.ErrorAttr(err))
		return MapError(err)
	}
	return nil
}
