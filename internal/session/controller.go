package session

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/domain/cards"
)

// Options configures a Controller.
type Options struct {
	Behaviour domain.Behaviour
	Logger    *slog.Logger
	// Rand drives the RandomCards shuffle. Nil uses the global random source.
	Rand *rand.Rand
}

// Controller drives a single study session over a card manager: it walks the
// selection of the current round, records judgments in repetition mode and
// moves cards between piles when a round completes.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	manager   *cards.Manager
	behaviour domain.Behaviour
	logger    *slog.Logger
	rng       *rand.Rand

	state     State
	round     int
	selection []int
	position  int
	results   []domain.Result
	turned    bool
	summary   *Summary
	restored  bool
}

// New creates a controller. Start must be called before use.
func New(manager *cards.Manager, opts Options) (*Controller, error) {
	if manager == nil {
		return nil, errors.New("manager cannot be nil")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		manager:   manager,
		behaviour: opts.Behaviour,
		logger:    logger.With(slog.String("component", "session_controller")),
		rng:       opts.Rand,
		round:     1,
	}, nil
}

// Start begins a session. With a nil previous state the first round is drawn
// from the manager's current piles. Otherwise the session resumes from prev.
func (c *Controller) Start(prev *domain.SessionState) {
	if prev == nil {
		c.restored = false
		c.round = 1
		c.startRound()
		return
	}

	c.restore(prev)
}

// State returns the current phase of the session.
func (c *Controller) State() State {
	return c.state
}

// Round returns the current round number, starting at 1.
func (c *Controller) Round() int {
	return c.round
}

// Position returns the index of the current card within the selection.
func (c *Controller) Position() int {
	return c.position
}

// Selection returns a copy of the card ids of the current round.
func (c *Controller) Selection() []int {
	return slices.Clone(c.selection)
}

// Results returns a copy of the judgments recorded in the current round.
func (c *Controller) Results() []domain.Result {
	return slices.Clone(c.results)
}

// Turned reports whether the current card shows its back side.
func (c *Controller) Turned() bool {
	return c.turned
}

// Card returns the card on screen, or false outside of Navigating.
func (c *Controller) Card() (*cards.Card, bool) {
	if c.state != Navigating || len(c.selection) == 0 {
		return nil, false
	}
	return c.manager.Card(c.selection[c.position])
}

// Summary returns the summary of the completed round, if any.
func (c *Controller) Summary() (Summary, bool) {
	if c.summary == nil {
		return Summary{}, false
	}
	return *c.summary, true
}

// TurnCard flips the current card.
func (c *Controller) TurnCard() bool {
	if c.state != Navigating || len(c.selection) == 0 {
		return false
	}

	c.turned = !c.turned
	return true
}

// Advance moves one card forward (direction > 0) or backward (direction < 0)
// in normal mode. Moves past either end of the selection are ignored.
func (c *Controller) Advance(direction int) bool {
	if c.state != Navigating || c.manager.Mode() != domain.ModeNormal || direction == 0 {
		return false
	}

	step := 1
	if direction < 0 {
		if c.behaviour.DisableBackwardsNavigation {
			return false
		}
		step = -1
	}

	target := c.position + step
	if target < 0 || target >= len(c.selection) {
		return false
	}

	c.position = target
	c.turned = false
	return true
}

// CanJudge reports whether Judge would be accepted.
func (c *Controller) CanJudge() bool {
	return c.state == Navigating &&
		c.manager.Mode() == domain.ModeRepetition &&
		len(c.selection) > 0 &&
		len(c.results) == c.position &&
		(c.turned || c.behaviour.QuickProgression)
}

// Judge records the learner's verdict on the current card in repetition mode
// and moves to the next card. Judging the last card completes the round.
func (c *Controller) Judge(correct bool) bool {
	if !c.CanJudge() {
		return false
	}

	c.results = append(c.results, domain.Result{
		CardID:  c.selection[c.position],
		Correct: correct,
	})

	if c.position == len(c.selection)-1 {
		c.completeRound()
		return true
	}

	c.position++
	c.turned = false
	return true
}

// CompleteRound applies the round's judgments to the piles and returns the
// summary. It only succeeds once every card of the round has been judged;
// further calls return the same summary without touching the piles again.
func (c *Controller) CompleteRound() (Summary, bool) {
	if c.summary != nil {
		return *c.summary, true
	}

	if c.manager.Mode() != domain.ModeRepetition ||
		len(c.selection) == 0 ||
		len(c.results) != len(c.selection) {
		return Summary{}, false
	}

	c.completeRound()
	return *c.summary, true
}

// StartNextRound draws a new selection after a completed round.
func (c *Controller) StartNextRound() bool {
	if c.state != RoundComplete {
		return false
	}

	c.round++
	c.startRound()
	return true
}

// Restart puts every card back into the lowest pile and starts over at round 1.
func (c *Controller) Restart() {
	c.manager.Reset()
	c.restored = false
	c.round = 1
	c.startRound()
}

// CanRetry reports whether Retry would be accepted.
func (c *Controller) CanRetry() bool {
	return c.behaviour.EnableRetry &&
		c.state == Navigating &&
		c.manager.Mode() == domain.ModeNormal &&
		len(c.selection) > 0 &&
		c.position == len(c.selection)-1
}

// Retry returns to the first card once the last card has been reached.
func (c *Controller) Retry() bool {
	if !c.CanRetry() {
		return false
	}

	c.position = 0
	c.turned = false
	c.results = nil
	return true
}

// CurrentState returns a snapshot for persistence, or nil when the session
// holds no progress worth saving.
func (c *Controller) CurrentState() *domain.SessionState {
	if !c.restored &&
		c.state == Navigating &&
		c.round == 1 &&
		c.position == 0 &&
		len(c.results) == 0 &&
		!c.turned {
		return nil
	}

	return c.Snapshot()
}

// Snapshot returns the session as a SessionState, including a session that
// has made no progress yet.
func (c *Controller) Snapshot() *domain.SessionState {
	return &domain.SessionState{
		CardIDs:       append([]int{}, c.selection...),
		Round:         c.round,
		CurrentCardID: c.position,
		Results:       append([]domain.Result{}, c.results...),
		CardPiles:     c.manager.Piles(),
		Turned:        c.turned,
	}
}

// Reproducible reports whether starting over from the same piles would draw
// the current selection again. A selection that is not reproducible has to be
// stored before its first card is shown.
func (c *Controller) Reproducible() bool {
	if len(c.selection) < 2 {
		return true
	}
	return c.manager.Mode() == domain.ModeNormal && !c.behaviour.RandomCards
}

// View returns a read-only projection of the session for presentation.
func (c *Controller) View() View {
	v := View{
		State:     c.state,
		Mode:      c.manager.Mode(),
		Round:     c.round,
		Position:  c.position,
		Total:     len(c.selection),
		CardID:    cards.NotFound,
		Turned:    c.turned,
		PileSizes: c.manager.PileSizes(),
		CanJudge:  c.CanJudge(),
		CanRetry:  c.CanRetry(),
	}

	if c.state == Navigating && len(c.selection) > 0 {
		v.CardID = c.selection[c.position]
		v.CardsLeft = len(c.selection) - c.position
		if v.Mode == domain.ModeNormal {
			v.CanPrevious = c.position > 0 && !c.behaviour.DisableBackwardsNavigation
			v.CanNext = c.position < len(c.selection)-1
		}
	}

	if c.summary != nil {
		summary := *c.summary
		v.Summary = &summary
	}

	return v
}

// startRound draws a selection and shows its first card.
func (c *Controller) startRound() {
	c.selection = c.drawSelection()
	c.position = 0
	c.results = nil
	c.turned = false
	c.summary = nil
	c.state = Navigating

	if len(c.selection) == 0 {
		// Nothing left to draw: every card is mastered.
		summary := c.buildSummary(c.manager.Mastered())
		c.summary = &summary
		c.state = Finished
	}

	c.logger.Debug("round started",
		slog.Int("round", c.round),
		slog.Int("cards", len(c.selection)),
		slog.String("state", c.state.String()))
}

func (c *Controller) drawSelection() []int {
	selection := c.manager.CreateSelection()
	if c.behaviour.RandomCards && c.manager.Mode() == domain.ModeNormal {
		swap := func(i, j int) { selection[i], selection[j] = selection[j], selection[i] }
		if c.rng != nil {
			c.rng.Shuffle(len(selection), swap)
		} else {
			rand.Shuffle(len(selection), swap)
		}
	}
	return selection
}

func (c *Controller) completeRound() {
	sizes := c.manager.UpdatePiles(c.results)
	summary := c.buildSummary(sizes[len(sizes)-1])
	c.finishRound(summary)
}

func (c *Controller) finishRound(summary Summary) {
	c.summary = &summary
	c.turned = false
	c.state = RoundComplete
	if summary.Done {
		c.state = Finished
	}

	c.logger.Debug("round completed",
		slog.Int("round", c.round),
		slog.Int("correct", summary.Correct),
		slog.Int("incorrect", summary.Incorrect),
		slog.Int("mastered", summary.Mastered),
		slog.Bool("done", summary.Done))
}

func (c *Controller) buildSummary(mastered int) Summary {
	correct := 0
	for _, r := range c.results {
		if r.Correct {
			correct++
		}
	}
	incorrect := len(c.results) - correct
	poolSize := c.manager.PoolSize()

	return Summary{
		Round:          c.round,
		Correct:        correct,
		Incorrect:      incorrect,
		NotShown:       poolSize - correct - incorrect,
		Mastered:       mastered,
		PoolSize:       poolSize,
		StreakToMaster: c.manager.PileCount() - 1,
		Done:           mastered == poolSize,
	}
}
