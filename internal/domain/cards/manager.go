package cards

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/domain/srs"
)

// NotFound is returned by Find when a card is in no pile.
const NotFound = -1

// Pile restoration errors
var (
	// ErrPileCountMismatch is returned when restored piles do not match the mode's pile count.
	ErrPileCountMismatch = errors.New("pile count mismatch")

	// ErrUnknownCard is returned when restored piles reference an id outside the pool.
	ErrUnknownCard = errors.New("unknown card id")

	// ErrDuplicateCard is returned when a card id appears more than once across piles.
	ErrDuplicateCard = errors.New("duplicate card id")

	// ErrPartitionViolated is returned when restored piles do not cover the whole pool.
	ErrPartitionViolated = errors.New("piles do not partition the pool")
)

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	Mode domain.Mode

	// MaxProficiency is the pile count in repetition mode. Zero selects
	// domain.DefaultMaxProficiency.
	MaxProficiency int

	// Rand drives shuffling. Nil uses the global random source.
	Rand *rand.Rand
}

// Manager owns the proficiency piles of a deck and draws the card selection
// for each round. A Manager is not safe for concurrent use.
type Manager struct {
	pool  *Pool
	mode  mode
	rng   *rand.Rand
	piles []*Pile
}

// NewManager creates a manager over pool with every card in its initial pile.
func NewManager(pool *Pool, cfg ManagerConfig) (*Manager, error) {
	if pool == nil {
		return nil, errors.New("pool cannot be nil")
	}

	var m mode
	switch cfg.Mode {
	case domain.ModeNormal:
		m = normalMode{}
	case domain.ModeRepetition:
		piles := cfg.MaxProficiency
		if piles == 0 {
			piles = domain.DefaultMaxProficiency
		}
		rules, err := srs.NewServiceForPiles(piles)
		if err != nil {
			return nil, fmt.Errorf("%w: %d piles", domain.ErrInvalidProficiency, piles)
		}
		m = repetitionMode{rules: rules}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMode, cfg.Mode)
	}

	manager := &Manager{
		pool: pool,
		mode: m,
		rng:  cfg.Rand,
	}
	manager.Reset()

	return manager, nil
}

// Mode returns the deck mode the manager runs in.
func (m *Manager) Mode() domain.Mode {
	return m.mode.kind()
}

// PileCount returns the number of piles.
func (m *Manager) PileCount() int {
	return len(m.piles)
}

// PoolSize returns the number of cards in the underlying pool.
func (m *Manager) PoolSize() int {
	return m.pool.Size()
}

// Card returns the materialized card for id.
func (m *Manager) Card(id int) (*Card, bool) {
	return m.pool.Card(id)
}

// HasCard reports whether id belongs to the pool.
func (m *Manager) HasCard(id int) bool {
	return m.pool.Has(id)
}

// Reset puts every card back into the lowest pile in pool order.
func (m *Manager) Reset() {
	m.piles = make([]*Pile, m.mode.pileCount())
	m.piles[0] = NewPile(m.rng, m.pool.CardIDs()...)
	for i := 1; i < len(m.piles); i++ {
		m.piles[i] = NewPile(m.rng)
	}
}

// CreateSelection draws the card ids for the next round. Piles are not modified.
func (m *Manager) CreateSelection() []int {
	return m.mode.selection(m.piles, m.rng)
}

// UpdatePiles moves each judged card to its destination pile, appending it at
// the bottom. Ids that are in no pile are skipped. It returns the size of
// every pile afterwards.
func (m *Manager) UpdatePiles(results []domain.Result) []int {
	for _, result := range results {
		current := m.Find(result.CardID)
		if current == NotFound {
			continue
		}

		target, move := m.mode.destination(current, result.Correct)
		if !move {
			continue
		}

		m.piles[current].Remove(result.CardID)
		m.piles[target].Add([]int{result.CardID}, Bottom)
	}

	return m.PileSizes()
}

// Find returns the index of the pile holding id, or NotFound.
func (m *Manager) Find(id int) int {
	for i, pile := range m.piles {
		if pile.Contains(id) {
			return i
		}
	}
	return NotFound
}

// PileSizes returns the number of cards in every pile, lowest pile first.
func (m *Manager) PileSizes() []int {
	sizes := make([]int, len(m.piles))
	for i, pile := range m.piles {
		sizes[i] = pile.Len()
	}
	return sizes
}

// Piles returns a copy of every pile's contents, lowest pile first.
func (m *Manager) Piles() [][]int {
	piles := make([][]int, len(m.piles))
	for i, pile := range m.piles {
		piles[i] = pile.Cards()
	}
	return piles
}

// Mastered returns the number of cards in the top pile.
func (m *Manager) Mastered() int {
	return m.piles[len(m.piles)-1].Len()
}

// RestorePiles replaces the piles with previously saved contents. The input
// must have one slice per pile and hold every pool card exactly once. On
// error the current piles are left untouched.
func (m *Manager) RestorePiles(piles [][]int) error {
	if len(piles) != len(m.piles) {
		return fmt.Errorf("%w: got %d, want %d", ErrPileCountMismatch, len(piles), len(m.piles))
	}

	seen := make(map[int]bool, m.pool.Size())
	for _, pile := range piles {
		for _, id := range pile {
			if !m.pool.Has(id) {
				return fmt.Errorf("%w: %d", ErrUnknownCard, id)
			}
			if seen[id] {
				return fmt.Errorf("%w: %d", ErrDuplicateCard, id)
			}
			seen[id] = true
		}
	}
	if len(seen) != m.pool.Size() {
		return fmt.Errorf("%w: %d of %d cards placed", ErrPartitionViolated, len(seen), m.pool.Size())
	}

	restored := make([]*Pile, len(piles))
	for i, ids := range piles {
		restored[i] = NewPile(m.rng, ids...)
	}
	m.piles = restored

	return nil
}
