package service

import (
	"context"
	"database/sql"

	"github.com/phrazzld/dialogcards/internal/store"
)

// SessionTransactor runs fn with a SessionStore bound to a single
// transaction, committing when fn returns nil.
type SessionTransactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context, sessions store.SessionStore) error) error
}

// sqlSessionTransactor implements SessionTransactor with store.RunInTransaction.
type sqlSessionTransactor struct {
	db       *sql.DB
	sessions store.SessionStore
}

// NewSQLSessionTransactor returns a SessionTransactor over db.
func NewSQLSessionTransactor(db *sql.DB, sessions store.SessionStore) SessionTransactor {
	return &sqlSessionTransactor{db: db, sessions: sessions}
}

func (t *sqlSessionTransactor) InTransaction(
	ctx context.Context,
	fn func(ctx context.Context, sessions store.SessionStore) error,
) error {
	return store.RunInTransaction(ctx, t.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, t.sessions.WithTx(tx))
	})
}
