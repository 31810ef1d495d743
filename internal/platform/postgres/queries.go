package postgres

import (
	"github.com/Masterminds/squirrel"
)

// psql builds statements with PostgreSQL $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const (
	decksTable         = "decks"
	sessionStatesTable = "session_states"
)

var deckColumns = []string{
	"id", "title", "description", "mode", "behaviour", "cards", "created_at", "updated_at",
}
