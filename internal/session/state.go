package session

// State is the phase a study session is in.
type State int

const (
	// Navigating means a card of the current round is on screen.
	Navigating State = iota

	// RoundComplete means every card of a repetition round has been judged
	// and the round summary is on screen.
	RoundComplete

	// Finished means every card sits in the top pile.
	Finished
)

// String returns the state name used in API responses and logs.
func (s State) String() string {
	switch s {
	case Navigating:
		return "navigating"
	case RoundComplete:
		return "round_complete"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Summary describes the outcome of a completed repetition round.
type Summary struct {
	Round     int `json:"round"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	// NotShown counts pool cards that were not part of the round.
	NotShown int `json:"not_shown"`
	// Mastered counts cards in the top pile after the round.
	Mastered int `json:"mastered"`
	PoolSize int `json:"pool_size"`
	// StreakToMaster is how many correct answers in a row move a card from
	// the lowest pile to the top pile.
	StreakToMaster int  `json:"streak_to_master"`
	Done           bool `json:"done"`
}
