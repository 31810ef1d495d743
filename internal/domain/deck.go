package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mode selects how a deck is studied.
type Mode string

const (
	// ModeNormal walks every card in pool order with free navigation.
	ModeNormal Mode = "normal"

	// ModeRepetition moves cards between proficiency piles across rounds.
	ModeRepetition Mode = "repetition"
)

// Valid reports whether the mode is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeNormal || m == ModeRepetition
}

const (
	// DefaultMaxProficiency is the number of piles used in repetition mode
	// when a deck does not configure it.
	DefaultMaxProficiency = 5

	// MinProficiency is the smallest usable pile count: one learning pile and
	// one pile for mastered cards.
	MinProficiency = 2

	// MaxProficiencyLimit caps the pile count a deck may request.
	MaxProficiencyLimit = 10
)

// Deck-specific validation errors
var (
	// ErrDeckIDEmpty is returned when a deck ID is nil.
	ErrDeckIDEmpty = errors.New("deck ID cannot be empty")

	// ErrDeckTitleEmpty is returned when a deck has no title.
	ErrDeckTitleEmpty = errors.New("deck title cannot be empty")

	// ErrDeckNoCards is returned when a deck has no cards.
	ErrDeckNoCards = errors.New("deck must contain at least one card")

	// ErrInvalidMode is returned when a deck mode is unknown.
	ErrInvalidMode = errors.New("invalid deck mode")

	// ErrInvalidProficiency is returned when MaxProficiency is out of range.
	ErrInvalidProficiency = errors.New("invalid max proficiency")
)

// Behaviour holds the per-deck switches that shape a study session.
type Behaviour struct {
	EnableRetry                bool `json:"enable_retry"`
	DisableBackwardsNavigation bool `json:"disable_backwards_navigation"`
	RandomCards                bool `json:"random_cards"`
	MaxProficiency             int  `json:"max_proficiency"`
	QuickProgression           bool `json:"quick_progression"`
}

// DefaultBehaviour returns the behaviour used when a deck does not override it.
func DefaultBehaviour() Behaviour {
	return Behaviour{
		EnableRetry:    true,
		MaxProficiency: DefaultMaxProficiency,
	}
}

// Deck is an authored set of dialog cards together with its study settings.
type Deck struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Mode        Mode             `json:"mode"`
	Behaviour   Behaviour        `json:"behaviour"`
	Cards       []CardDefinition `json:"cards"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewDeck creates a new Deck with a generated ID and timestamps.
// A zero MaxProficiency is replaced with DefaultMaxProficiency.
// Returns an error if validation fails.
func NewDeck(title, description string, mode Mode, behaviour Behaviour, cards []CardDefinition) (*Deck, error) {
	if behaviour.MaxProficiency == 0 {
		behaviour.MaxProficiency = DefaultMaxProficiency
	}

	now := time.Now().UTC()
	deck := &Deck{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Description: description,
		Mode:        mode,
		Behaviour:   behaviour,
		Cards:       cards,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
// Card errors are wrapped with the index of the offending card.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if strings.TrimSpace(d.Title) == "" {
		return ErrDeckTitleEmpty
	}

	if !d.Mode.Valid() {
		return ErrInvalidMode
	}

	if d.Mode == ModeRepetition &&
		(d.Behaviour.MaxProficiency < MinProficiency || d.Behaviour.MaxProficiency > MaxProficiencyLimit) {
		return ErrInvalidProficiency
	}

	if len(d.Cards) == 0 {
		return ErrDeckNoCards
	}

	for i, card := range d.Cards {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
	}

	return nil
}

// PileCount returns how many proficiency piles a session over this deck uses.
func (d *Deck) PileCount() int {
	if d.Mode == ModeRepetition {
		return d.Behaviour.MaxProficiency
	}
	return 1
}
