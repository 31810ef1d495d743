// Package session implements the study session state machine for a dialog
// card deck.
//
// A Controller walks the selection of the current round one card at a time.
// In normal mode the learner turns cards and navigates freely. In repetition
// mode every card is judged as known or not; judging the last card of a round
// moves the cards between proficiency piles and produces a Summary. The
// session can be captured with CurrentState and resumed with Start.
package session
