package session

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/phrazzld/dialogcards/internal/domain/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("mid round in repetition mode", func(t *testing.T) {
		t.Parallel()

		behaviour := repetitionBehaviour(3)
		original := newFixture(t, domain.ModeRepetition, 5, behaviour)
		c := original.controller
		c.Start(nil)

		// Finish round 1 so that the piles are spread out.
		judgeRound(t, c, func(position, _ int) bool { return position%2 == 0 })
		require.True(t, c.StartNextRound())
		c.TurnCard()
		c.Judge(true)
		c.TurnCard()

		saved := c.CurrentState()
		require.NotNil(t, saved)
		require.Equal(t, 2, saved.Round)
		require.Equal(t, 1, saved.CurrentCardID)
		require.Len(t, saved.Results, 1)
		require.True(t, saved.Turned)

		resumed := newFixture(t, domain.ModeRepetition, 5, behaviour)
		resumed.controller.Start(saved.Clone())

		assert.Equal(t, saved, resumed.controller.CurrentState())
		assert.Equal(t, original.manager.Piles(), resumed.manager.Piles())
		assert.Equal(t, Navigating, resumed.controller.State())
		assert.True(t, resumed.controller.CanJudge())
	})

	t.Run("normal mode position", func(t *testing.T) {
		t.Parallel()

		saved := &domain.SessionState{
			CardIDs:       []int{0, 1, 2, 3},
			Round:         1,
			CurrentCardID: 2,
			Results:       []domain.Result{},
			CardPiles:     [][]int{{0, 1, 2, 3}},
		}

		f := newFixture(t, domain.ModeNormal, 4, domain.DefaultBehaviour())
		f.controller.Start(saved.Clone())

		assert.Equal(t, saved, f.controller.CurrentState())
		assert.Equal(t, 2, f.controller.View().CardID)
	})

	t.Run("restored selection is reused", func(t *testing.T) {
		t.Parallel()

		saved := &domain.SessionState{
			CardIDs:       []int{3, 1},
			Round:         4,
			CurrentCardID: 0,
			Results:       []domain.Result{},
			CardPiles:     [][]int{{3}, {1}, {0, 2}},
		}

		f := newFixture(t, domain.ModeRepetition, 4, repetitionBehaviour(3))
		f.controller.Start(saved)

		assert.Equal(t, []int{3, 1}, f.controller.Selection())
		assert.Equal(t, 4, f.controller.Round())
		assert.Equal(t, [][]int{{3}, {1}, {0, 2}}, f.manager.Piles())
		assert.NotNil(t, f.controller.CurrentState(), "restored sessions are always saved back")
	})
}

func TestRestoreCompletedRound(t *testing.T) {
	t.Parallel()

	behaviour := repetitionBehaviour(3)
	original := newFixture(t, domain.ModeRepetition, 3, behaviour)
	c := original.controller
	c.Start(nil)
	judgeRound(t, c, func(position, _ int) bool { return position != 1 })

	want, ok := c.Summary()
	require.True(t, ok)
	saved := c.CurrentState()
	require.NotNil(t, saved)
	pilesAfterRound := original.manager.Piles()

	resumed := newFixture(t, domain.ModeRepetition, 3, behaviour)
	resumed.controller.Start(saved.Clone())

	assert.Equal(t, RoundComplete, resumed.controller.State())
	got, ok := resumed.controller.Summary()
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, pilesAfterRound, resumed.manager.Piles(), "results must not be applied twice")

	require.True(t, resumed.controller.StartNextRound())
	assert.Equal(t, 2, resumed.controller.Round())
}

func TestRestoreFinishedDeck(t *testing.T) {
	t.Parallel()

	saved := &domain.SessionState{
		CardIDs:       []int{0, 1},
		Round:         3,
		CurrentCardID: 1,
		Results:       []domain.Result{{CardID: 0, Correct: true}, {CardID: 1, Correct: true}},
		CardPiles:     [][]int{{}, {0, 1}},
	}

	f := newFixture(t, domain.ModeRepetition, 2, repetitionBehaviour(2))
	f.controller.Start(saved)

	assert.Equal(t, Finished, f.controller.State())
	summary, ok := f.controller.Summary()
	require.True(t, ok)
	assert.True(t, summary.Done)
	assert.Equal(t, 3, summary.Round)
}

func TestRestoreFallbacks(t *testing.T) {
	t.Parallel()

	validPiles := [][]int{{0, 1}, {2}, {}}

	tests := []struct {
		name          string
		state         *domain.SessionState
		wantPiles     [][]int
		wantSelection []int
		wantRound     int
		wantPosition  int
		wantResults   []domain.Result
		wantLog       string
	}{
		{
			name: "piles with wrong count are reset",
			state: &domain.SessionState{
				CardIDs:   []int{1, 0},
				Round:     2,
				CardPiles: [][]int{{0, 1, 2}},
			},
			wantPiles:     [][]int{{0, 1, 2}, {}, {}},
			wantSelection: []int{1, 0},
			wantRound:     2,
			wantLog:       "discarding saved piles",
		},
		{
			name: "piles with unknown card are reset",
			state: &domain.SessionState{
				CardIDs:   []int{1},
				Round:     1,
				CardPiles: [][]int{{0, 1, 7}, {2}, {}},
			},
			wantPiles:     [][]int{{0, 1, 2}, {}, {}},
			wantSelection: []int{1},
			wantRound:     1,
			wantLog:       "discarding saved piles",
		},
		{
			name: "invalid round becomes round one",
			state: &domain.SessionState{
				CardIDs:   []int{0},
				Round:     0,
				CardPiles: validPiles,
			},
			wantPiles:     validPiles,
			wantSelection: []int{0},
			wantRound:     1,
			wantLog:       "discarding saved round",
		},
		{
			name: "selection with unknown card is redrawn",
			state: &domain.SessionState{
				CardIDs:       []int{0, 9},
				Round:         2,
				CurrentCardID: 1,
				Results:       []domain.Result{{CardID: 0, Correct: true}},
				CardPiles:     validPiles,
			},
			wantPiles:    validPiles,
			wantRound:    2,
			wantPosition: 0,
			wantLog:      "discarding saved selection",
		},
		{
			name: "empty selection is redrawn",
			state: &domain.SessionState{
				Round:     1,
				CardPiles: validPiles,
			},
			wantPiles: validPiles,
			wantRound: 1,
			wantLog:   "discarding saved selection",
		},
		{
			name: "results for other cards are dropped",
			state: &domain.SessionState{
				CardIDs:       []int{0, 1},
				Round:         1,
				CurrentCardID: 1,
				Results:       []domain.Result{{CardID: 1, Correct: true}},
				CardPiles:     validPiles,
			},
			wantPiles:     validPiles,
			wantSelection: []int{0, 1},
			wantRound:     1,
			wantPosition:  0,
			wantLog:       "discarding saved results",
		},
		{
			name: "results ahead of position are dropped",
			state: &domain.SessionState{
				CardIDs:       []int{0, 1, 2},
				Round:         1,
				CurrentCardID: 0,
				Results:       []domain.Result{{CardID: 0, Correct: true}, {CardID: 1, Correct: true}},
				CardPiles:     validPiles,
			},
			wantPiles:     validPiles,
			wantSelection: []int{0, 1, 2},
			wantRound:     1,
			wantPosition:  0,
			wantLog:       "discarding saved results",
		},
		{
			name: "position is clamped to the selection",
			state: &domain.SessionState{
				CardIDs:       []int{0, 1},
				Round:         1,
				CurrentCardID: 5,
				Results:       []domain.Result{{CardID: 0, Correct: false}},
				CardPiles:     validPiles,
			},
			wantPiles:     validPiles,
			wantSelection: []int{0, 1},
			wantRound:     1,
			wantPosition:  1,
			wantResults:   []domain.Result{{CardID: 0, Correct: false}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))

			manager, err := cards.NewManager(cards.NewPool(definitions(3)), cards.ManagerConfig{
				Mode:           domain.ModeRepetition,
				MaxProficiency: 3,
				Rand:           nil,
			})
			require.NoError(t, err)
			c, err := New(manager, Options{Behaviour: repetitionBehaviour(3), Logger: logger})
			require.NoError(t, err)

			c.Start(tc.state)

			assert.Equal(t, tc.wantPiles, manager.Piles())
			assert.Equal(t, tc.wantRound, c.Round())
			assert.Equal(t, tc.wantPosition, c.Position())
			assert.Equal(t, Navigating, c.State())
			if tc.wantSelection != nil {
				assert.Equal(t, tc.wantSelection, c.Selection())
			} else {
				assert.NotEmpty(t, c.Selection(), "a new selection is drawn")
			}
			if tc.wantResults != nil {
				assert.Equal(t, tc.wantResults, c.Results())
			} else {
				assert.Empty(t, c.Results())
			}
			if tc.wantLog != "" {
				assert.Contains(t, logs.String(), tc.wantLog)
			}
		})
	}
}

func TestRestoreResultsInNormalModeAreDropped(t *testing.T) {
	t.Parallel()

	f := newFixture(t, domain.ModeNormal, 2, domain.DefaultBehaviour())
	f.controller.Start(&domain.SessionState{
		CardIDs:       []int{0, 1},
		Round:         1,
		CurrentCardID: 1,
		Results:       []domain.Result{{CardID: 0, Correct: true}},
		CardPiles:     [][]int{{0, 1}},
	})

	assert.Empty(t, f.controller.Results())
	assert.Equal(t, 0, f.controller.Position())
}

func TestRestoreWithEverythingMastered(t *testing.T) {
	t.Parallel()

	f := newFixture(t, domain.ModeRepetition, 2, repetitionBehaviour(3))
	f.controller.Start(&domain.SessionState{
		Round:     5,
		CardPiles: [][]int{{}, {}, {1, 0}},
	})

	assert.Equal(t, Finished, f.controller.State())
	assert.Empty(t, f.controller.Selection())
	summary, ok := f.controller.Summary()
	require.True(t, ok)
	assert.True(t, summary.Done)
}
