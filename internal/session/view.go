package session

import "github.com/phrazzld/dialogcards/internal/domain"

// View is a read-only projection of a session for the presentation layer.
// CardID is cards.NotFound when no card is on screen.
type View struct {
	State       State       `json:"state"`
	Mode        domain.Mode `json:"mode"`
	Round       int         `json:"round"`
	Position    int         `json:"position"`
	Total       int         `json:"total"`
	CardID      int         `json:"card_id"`
	Turned      bool        `json:"turned"`
	CardsLeft   int         `json:"cards_left"`
	PileSizes   []int       `json:"pile_sizes"`
	CanPrevious bool        `json:"can_previous"`
	CanNext     bool        `json:"can_next"`
	CanJudge    bool        `json:"can_judge"`
	CanRetry    bool        `json:"can_retry"`
	Summary     *Summary    `json:"summary,omitempty"`
}
