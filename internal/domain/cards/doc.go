// Package cards implements card selection and progression for dialog card
// decks.
//
// A Pool holds the canonical cards of a deck, addressed by their position in
// the deck. A Manager spreads the pool over one or more Piles and draws the
// selection of cards shown in a round. In normal mode there is a single pile
// and every round shows the whole deck in order. In repetition mode cards
// climb one pile when answered correctly and fall back to the lowest pile when
// answered incorrectly; cards in the top pile are mastered and no longer drawn.
package cards
