package cards

import (
	"math/rand/v2"
	"slices"
)

// Position addresses a place in a Pile. Non-negative values are indices;
// Top, Bottom and Random are symbolic.
type Position int

const (
	// Top is the first element of a pile.
	Top Position = 0

	// Bottom is the end of a pile.
	Bottom Position = -1

	// Random picks a uniformly distributed position.
	Random Position = -2
)

// At returns the Position for index i. Negative indices map to Top.
func At(i int) Position {
	if i < 0 {
		return Top
	}
	return Position(i)
}

// Pile is an ordered sequence of card ids without duplicates.
// A Pile is not safe for concurrent use.
type Pile struct {
	cards []int
	rng   *rand.Rand
}

// NewPile creates a pile from ids, keeping the first occurrence of each id.
// A nil rng uses the global random source.
func NewPile(rng *rand.Rand, ids ...int) *Pile {
	p := &Pile{rng: rng, cards: make([]int, 0, len(ids))}
	for _, id := range ids {
		if !slices.Contains(p.cards, id) {
			p.cards = append(p.cards, id)
		}
	}
	return p
}

// Cards returns a copy of the pile contents, top first.
func (p *Pile) Cards() []int {
	return slices.Clone(p.cards)
}

// Len returns the number of cards in the pile.
func (p *Pile) Len() int {
	return len(p.cards)
}

// Contains reports whether id is in the pile.
func (p *Pile) Contains(id int) bool {
	return slices.Contains(p.cards, id)
}

// Peek returns up to amount ids starting at pos without removing them.
// Bottom peeks at the last amount ids. Out of range positions yield nothing.
func (p *Pile) Peek(pos Position, amount int) []int {
	amount = max(0, amount)

	var start int
	switch pos {
	case Bottom:
		start = max(0, len(p.cards)-amount)
	case Random:
		if len(p.cards) == 0 {
			return []int{}
		}
		start = p.intN(len(p.cards))
	default:
		start = int(pos)
	}

	if start < 0 || start > len(p.cards)-1 {
		return []int{}
	}

	end := min(start+amount, len(p.cards))
	return slices.Clone(p.cards[start:end])
}

// Add inserts ids that are not yet in the pile as one contiguous block at pos.
// Numeric positions are clamped to the pile bounds.
func (p *Pile) Add(ids []int, pos Position) {
	fresh := make([]int, 0, len(ids))
	for _, id := range ids {
		if !p.Contains(id) && !slices.Contains(fresh, id) {
			fresh = append(fresh, id)
		}
	}
	if len(fresh) == 0 {
		return
	}

	var index int
	switch pos {
	case Bottom:
		index = len(p.cards)
	case Random:
		index = p.intN(len(p.cards) + 1)
	default:
		index = min(max(0, int(pos)), len(p.cards))
	}

	p.cards = slices.Insert(p.cards, index, fresh...)
}

// Push adds ids to the top of the pile.
func (p *Pile) Push(ids ...int) {
	p.Add(ids, Top)
}

// Pull removes and returns up to amount consecutive ids starting at pos.
// The amount is clamped to at least one and at most the pile size.
func (p *Pile) Pull(amount int, pos Position) []int {
	if len(p.cards) == 0 {
		return []int{}
	}

	amount = min(max(1, amount), len(p.cards))

	var start int
	switch pos {
	case Bottom:
		start = len(p.cards) - amount
	case Random:
		start = p.intN(len(p.cards) - amount + 1)
	default:
		start = min(max(0, int(pos)), len(p.cards)-1)
	}

	end := min(start+amount, len(p.cards))
	pulled := slices.Clone(p.cards[start:end])
	p.cards = slices.Delete(p.cards, start, end)
	return pulled
}

// Remove deletes ids from the pile. Unknown ids are ignored.
func (p *Pile) Remove(ids ...int) {
	for _, id := range ids {
		if i := slices.Index(p.cards, id); i >= 0 {
			p.cards = slices.Delete(p.cards, i, i+1)
		}
	}
}

// Shuffle reorders the pile in place and returns the new order.
func (p *Pile) Shuffle() []int {
	shuffle(p.cards, p.rng)
	return p.Cards()
}

func (p *Pile) intN(n int) int {
	if p.rng != nil {
		return p.rng.IntN(n)
	}
	return rand.IntN(n)
}

// shuffle is an in-place Fisher-Yates shuffle.
func shuffle(ids []int, rng *rand.Rand) {
	swap := func(i, j int) { ids[i], ids[j] = ids[j], ids[i] }
	if rng != nil {
		rng.Shuffle(len(ids), swap)
		return
	}
	rand.Shuffle(len(ids), swap)
}
