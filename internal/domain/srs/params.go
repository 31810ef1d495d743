package srs

import (
	"errors"

	"github.com/phrazzld/dialogcards/internal/domain"
)

// ErrInvalidPiles is returned when a pile count falls outside the supported range.
var ErrInvalidPiles = errors.New("pile count out of range")

// Params defines all configurable parameters for the proficiency pile algorithm
type Params struct {
	// Piles is the number of proficiency piles. Pile 0 holds unlearned cards
	// and pile Piles-1 holds mastered cards.
	Piles int

	// DemoteTo is the pile an incorrectly answered card falls back to.
	DemoteTo int

	// PromoteBy is how many piles a correctly answered card climbs.
	PromoteBy int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		Piles:     domain.DefaultMaxProficiency,
		DemoteTo:  0,
		PromoteBy: 1,
	}
}

// NewParams creates Params for the given pile count, keeping the default
// promotion and demotion rules.
func NewParams(piles int) (*Params, error) {
	if piles < domain.MinProficiency || piles > domain.MaxProficiencyLimit {
		return nil, ErrInvalidPiles
	}

	params := NewDefaultParams()
	params.Piles = piles
	return params, nil
}
