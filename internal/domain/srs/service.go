// Package srs holds the proficiency pile rules used by repetition decks: where
// a judged card moves and how many cards each pile contributes to a round.
package srs

// Service defines the interface for proficiency pile algorithm operations
type Service interface {
	// Piles returns the number of proficiency piles
	Piles() int

	// NextPile computes the destination pile of a judged card
	NextPile(current int, correct bool) int

	// DrawCount computes how many cards a pile contributes to a round
	DrawCount(size, distance int) int

	// Mastered reports whether pile is the top pile
	Mastered(pile int) bool
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new pile service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new pile service with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// NewServiceForPiles creates a pile service with default rules and the given pile count
func NewServiceForPiles(piles int) (Service, error) {
	params, err := NewParams(piles)
	if err != nil {
		return nil, err
	}
	return NewServiceWithParams(params), nil
}

func (s *defaultService) Piles() int {
	return s.params.Piles
}

func (s *defaultService) NextPile(current int, correct bool) int {
	return nextPile(current, correct, s.params)
}

func (s *defaultService) DrawCount(size, distance int) int {
	return drawCount(size, distance)
}

func (s *defaultService) Mastered(pile int) bool {
	return pile == s.params.Piles-1
}
