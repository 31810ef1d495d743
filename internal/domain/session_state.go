package domain

import "fmt"

// Result is the learner's verdict on one card within a round.
type Result struct {
	CardID  int  `json:"cardId"`
	Correct bool `json:"result"`
}

// SessionState is the resumable snapshot of a study session.
//
// CurrentCardID is a position within CardIDs, not a card id. CardPiles holds
// one slice of card ids per proficiency pile, lowest pile first. Turned records
// whether the current card shows its back side.
type SessionState struct {
	CardIDs       []int    `json:"cardIds"`
	Round         int      `json:"round"`
	CurrentCardID int      `json:"currentCardId"`
	Results       []Result `json:"results"`
	CardPiles     [][]int  `json:"cardPiles"`
	Turned        bool     `json:"turned,omitempty"`
}

// Validate performs structural checks that need no knowledge of the deck.
// Cross-checks against the pool happen when a session is restored.
func (s *SessionState) Validate() error {
	if s.Round < 1 {
		return fmt.Errorf("%w: round %d", ErrInvalidSessionState, s.Round)
	}
	if s.CurrentCardID < 0 {
		return fmt.Errorf("%w: position %d", ErrInvalidSessionState, s.CurrentCardID)
	}
	return nil
}

// Clone returns a deep copy of the snapshot.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}

	clone := &SessionState{
		CardIDs:       append([]int{}, s.CardIDs...),
		Round:         s.Round,
		CurrentCardID: s.CurrentCardID,
		Results:       append([]Result{}, s.Results...),
		CardPiles:     make([][]int, len(s.CardPiles)),
		Turned:        s.Turned,
	}
	for i, pile := range s.CardPiles {
		clone.CardPiles[i] = append([]int{}, pile...)
	}

	return clone
}
