// Package postgres provides PostgreSQL implementations of the store
// interfaces. Decks keep their behaviour and card definitions in JSONB
// columns; session state is one JSONB document per learner and deck.
//
// The schema lives in the embedded migrations directory and is applied with
// goose (see Migrations).
package postgres
