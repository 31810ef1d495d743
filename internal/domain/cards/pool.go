package cards

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/dialogcards/internal/domain"
)

// Card is a materialized dialog card: its definition with the back face
// resolved and a label id the presentation layer can reference.
type Card struct {
	ID      int         `json:"id"`
	LabelID string      `json:"label_id"`
	Front   domain.Face `json:"front"`
	Back    domain.Face `json:"back"`
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithLabelGenerator sets the function used to assign label ids to cards.
func WithLabelGenerator(fn func() string) PoolOption {
	return func(p *Pool) {
		if fn != nil {
			p.newLabel = fn
		}
	}
}

// Pool holds the canonical card definitions of a deck. Card ids are the
// definition indices and never change. Cards are materialized on first access.
type Pool struct {
	defs     []domain.CardDefinition
	newLabel func() string

	mu    sync.Mutex
	cards []*Card
}

// NewPool creates a pool over a copy of defs.
func NewPool(defs []domain.CardDefinition, opts ...PoolOption) *Pool {
	p := &Pool{
		defs:     slices.Clone(defs),
		newLabel: uuid.NewString,
		cards:    make([]*Card, len(defs)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the number of cards in the pool.
func (p *Pool) Size() int {
	return len(p.defs)
}

// CardIDs returns every card id in pool order.
func (p *Pool) CardIDs() []int {
	ids := make([]int, len(p.defs))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// Has reports whether id belongs to the pool.
func (p *Pool) Has(id int) bool {
	return id >= 0 && id < len(p.defs)
}

// Definition returns the raw definition of a card without materializing it.
func (p *Pool) Definition(id int) (domain.CardDefinition, bool) {
	if !p.Has(id) {
		return domain.CardDefinition{}, false
	}
	return p.defs[id], true
}

// Card returns the materialized card for id, building it on first access.
// Repeated calls return the same instance.
func (p *Pool) Card(id int) (*Card, bool) {
	if !p.Has(id) {
		return nil, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if card := p.cards[id]; card != nil {
		return card, true
	}

	def := p.defs[id]
	card := &Card{
		ID:      id,
		LabelID: p.newLabel(),
		Front:   def.Front,
		Back:    def.Back.Resolve(def.Front),
	}
	p.cards[id] = card
	return card, true
}
