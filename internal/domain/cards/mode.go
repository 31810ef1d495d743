package cards

import (
	"math/rand/v2"

	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/domain/srs"
)

// mode is the per-deck-mode part of the manager: how many piles exist,
// how a round is drawn from them, and where a judged card goes.
type mode interface {
	kind() domain.Mode
	pileCount() int
	selection(piles []*Pile, rng *rand.Rand) []int
	// destination returns the pile a judged card moves to, or false when
	// judging does not move cards in this mode.
	destination(current int, correct bool) (int, bool)
}

// normalMode keeps every card in one pile, in pool order.
type normalMode struct{}

func (normalMode) kind() domain.Mode { return domain.ModeNormal }

func (normalMode) pileCount() int { return 1 }

func (normalMode) selection(piles []*Pile, _ *rand.Rand) []int {
	return piles[0].Cards()
}

func (normalMode) destination(current int, _ bool) (int, bool) {
	return current, false
}

// repetitionMode spreads cards over proficiency piles and draws rounds with a
// bias towards the lowest non-empty pile.
type repetitionMode struct {
	rules srs.Service
}

func (m repetitionMode) kind() domain.Mode { return domain.ModeRepetition }

func (m repetitionMode) pileCount() int { return m.rules.Piles() }

// selection never draws from the top pile: those cards are mastered.
func (m repetitionMode) selection(piles []*Pile, rng *rand.Rand) []int {
	first := -1
	for i, pile := range piles {
		if pile.Len() > 0 {
			first = i
			break
		}
	}

	drawn := []int{}
	if first < 0 {
		return drawn
	}

	for j := first; j < len(piles)-1; j++ {
		amount := m.rules.DrawCount(piles[j].Len(), j-first)
		drawn = append(drawn, piles[j].Peek(Top, amount)...)
	}

	shuffle(drawn, rng)
	return drawn
}

func (m repetitionMode) destination(current int, correct bool) (int, bool) {
	return m.rules.NextPile(current, correct), true
}
