// Package store defines interfaces for data persistence operations.
// The services depend on these interfaces only, so the session engine stays
// independent of the database that keeps decks and learner progress.
package store
