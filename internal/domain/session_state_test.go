package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStateJSONLayout(t *testing.T) {
	t.Parallel()

	state := SessionState{
		CardIDs:       []int{2, 0},
		Round:         3,
		CurrentCardID: 1,
		Results:       []Result{{CardID: 2, Correct: true}},
		CardPiles:     [][]int{{0}, {1}, {2}},
	}

	data, err := json.Marshal(state)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"cardIds":[2,0],"round":3,"currentCardId":1,"results":[{"cardId":2,"result":true}],"cardPiles":[[0],[1],[2]]}`,
		string(data))
}

func TestSessionStateValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&SessionState{Round: 1}).Validate())
	assert.ErrorIs(t, (&SessionState{Round: 0}).Validate(), ErrInvalidSessionState)
	assert.ErrorIs(t, (&SessionState{Round: 1, CurrentCardID: -1}).Validate(), ErrInvalidSessionState)
}

func TestSessionStateClone(t *testing.T) {
	t.Parallel()

	var nilState *SessionState
	assert.Nil(t, nilState.Clone())

	original := &SessionState{
		CardIDs:   []int{0, 1},
		Round:     1,
		Results:   []Result{{CardID: 0}},
		CardPiles: [][]int{{0, 1}, {}},
	}
	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.CardIDs[0] = 9
	clone.Results[0].Correct = true
	clone.CardPiles[0][0] = 9

	assert.Equal(t, 0, original.CardIDs[0])
	assert.False(t, original.Results[0].Correct)
	assert.Equal(t, 0, original.CardPiles[0][0])
}
