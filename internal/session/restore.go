package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/phrazzld/dialogcards/internal/domain"
)

// Restore errors describe why a part of a saved session was discarded.
var (
	// ErrEmptySelection is returned when a saved round has no cards.
	ErrEmptySelection = errors.New("saved selection is empty")

	// ErrSelectionCard is returned when a saved round references an unknown
	// or repeated card.
	ErrSelectionCard = errors.New("saved selection contains an invalid card")

	// ErrResultsMismatch is returned when saved results do not line up with
	// the saved selection and position.
	ErrResultsMismatch = errors.New("saved results do not match the selection")
)

// restore resumes from a saved snapshot without side effects on the piles
// beyond seeding them. Parts of the snapshot that do not fit the deck are
// re-derived and logged.
func (c *Controller) restore(prev *domain.SessionState) {
	c.restored = true

	if len(prev.CardPiles) > 0 {
		if err := c.manager.RestorePiles(prev.CardPiles); err != nil {
			c.logger.Warn("discarding saved piles",
				slog.String("error", err.Error()))
			c.manager.Reset()
		}
	} else {
		c.manager.Reset()
	}

	c.round = prev.Round
	if c.round < 1 {
		c.logger.Warn("discarding saved round", slog.Int("round", prev.Round))
		c.round = 1
	}

	if err := c.checkSelection(prev.CardIDs); err != nil {
		c.logger.Warn("discarding saved selection, drawing a new one",
			slog.String("error", err.Error()))
		c.startRound()
		return
	}

	c.selection = slices.Clone(prev.CardIDs)
	c.position = min(max(0, prev.CurrentCardID), len(c.selection)-1)
	c.results = slices.Clone(prev.Results)
	c.turned = prev.Turned
	c.summary = nil
	c.state = Navigating

	if err := c.checkResults(); err != nil {
		c.logger.Warn("discarding saved results",
			slog.String("error", err.Error()),
			slog.Int("results", len(prev.Results)))
		c.results = nil
		c.position = 0
		c.turned = false
	}

	// A fully judged round was already applied to the piles when it completed,
	// so the summary is rebuilt from the current pile sizes.
	if c.manager.Mode() == domain.ModeRepetition && len(c.results) == len(c.selection) {
		c.finishRound(c.buildSummary(c.manager.Mastered()))
	}
}

func (c *Controller) checkSelection(ids []int) error {
	if len(ids) == 0 {
		return ErrEmptySelection
	}

	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if !c.manager.HasCard(id) || seen[id] {
			return fmt.Errorf("%w: %d", ErrSelectionCard, id)
		}
		seen[id] = true
	}

	return nil
}

// checkResults verifies that results are the judgments of the first cards of
// the selection, one per card, up to the current position.
func (c *Controller) checkResults() error {
	if len(c.results) == 0 {
		return nil
	}

	if c.manager.Mode() != domain.ModeRepetition {
		return fmt.Errorf("%w: results recorded outside repetition mode", ErrResultsMismatch)
	}

	if len(c.results) > len(c.selection) {
		return fmt.Errorf("%w: %d results for %d cards", ErrResultsMismatch, len(c.results), len(c.selection))
	}

	for i, r := range c.results {
		if r.CardID != c.selection[i] {
			return fmt.Errorf("%w: result %d is for card %d, expected %d", ErrResultsMismatch, i, r.CardID, c.selection[i])
		}
	}

	complete := len(c.results) == len(c.selection) && c.position == len(c.selection)-1
	if len(c.results) != c.position && !complete {
		return fmt.Errorf("%w: %d results at position %d", ErrResultsMismatch, len(c.results), c.position)
	}

	return nil
}
