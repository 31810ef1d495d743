// Package service contains the application use cases: authoring decks and
// driving a learner's study session over a deck.
//
// Services depend on the store interfaces only. The session service rebuilds
// the card engine from the deck and the stored snapshot on every request,
// applies a single action and persists the resulting snapshot inside one
// transaction, so concurrent requests for the same learner and deck are
// serialized by the database.
package service
