package cards

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestNewPileDropsDuplicates(t *testing.T) {
	t.Parallel()

	p := NewPile(nil, 3, 1, 3, 2, 1)
	assert.Equal(t, []int{3, 1, 2}, p.Cards())
	assert.Equal(t, 3, p.Len())
}

func TestPilePeek(t *testing.T) {
	t.Parallel()

	p := NewPile(nil, 0, 1, 2, 3, 4)

	tests := []struct {
		name   string
		pos    Position
		amount int
		want   []int
	}{
		{"top single", Top, 1, []int{0}},
		{"top several", Top, 3, []int{0, 1, 2}},
		{"bottom several", Bottom, 2, []int{3, 4}},
		{"bottom more than size", Bottom, 9, []int{0, 1, 2, 3, 4}},
		{"index", At(2), 2, []int{2, 3}},
		{"index past end truncates", At(3), 5, []int{3, 4}},
		{"index out of range", At(5), 1, []int{}},
		{"negative amount", Top, -3, []int{}},
		{"zero amount", Top, 0, []int{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.Peek(tc.pos, tc.amount))
		})
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, p.Cards(), "peek must not modify the pile")
}

func TestPilePeekReturnsCopy(t *testing.T) {
	t.Parallel()

	p := NewPile(nil, 0, 1)
	peeked := p.Peek(Top, 2)
	peeked[0] = 42
	assert.Equal(t, []int{0, 1}, p.Cards())
}

func TestPileAdd(t *testing.T) {
	t.Parallel()

	t.Run("top and bottom", func(t *testing.T) {
		t.Parallel()
		p := NewPile(nil, 1, 2)
		p.Add([]int{0}, Top)
		p.Add([]int{3, 4}, Bottom)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, p.Cards())
	})

	t.Run("index inserts a block", func(t *testing.T) {
		t.Parallel()
		p := NewPile(nil, 0, 3)
		p.Add([]int{1, 2}, At(1))
		assert.Equal(t, []int{0, 1, 2, 3}, p.Cards())
	})

	t.Run("index is clamped", func(t *testing.T) {
		t.Parallel()
		p := NewPile(nil, 0)
		p.Add([]int{1}, At(99))
		assert.Equal(t, []int{0, 1}, p.Cards())
	})

	t.Run("existing ids are skipped", func(t *testing.T) {
		t.Parallel()
		p := NewPile(nil, 0, 1, 2)
		before := p.Cards()
		p.Add([]int{1}, Top)
		p.Add([]int{2, 0}, Bottom)
		p.Add([]int{0}, Random)
		assert.Equal(t, before, p.Cards())
	})

	t.Run("only new ids of a mixed batch are added", func(t *testing.T) {
		t.Parallel()
		p := NewPile(nil, 0, 1)
		p.Add([]int{1, 5, 5, 6}, Bottom)
		assert.Equal(t, []int{0, 1, 5, 6}, p.Cards())
	})

	t.Run("random keeps every id exactly once", func(t *testing.T) {
		t.Parallel()
		p := NewPile(seededRand(7), 0, 1, 2)
		p.Add([]int{3}, Random)
		assert.ElementsMatch(t, []int{0, 1, 2, 3}, p.Cards())
	})

	t.Run("push adds to top", func(t *testing.T) {
		t.Parallel()
		p := NewPile(nil, 1)
		p.Push(0)
		assert.Equal(t, []int{0, 1}, p.Cards())
	})
}

func TestPilePull(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		amount    int
		pos       Position
		want      []int
		remaining []int
	}{
		{"top default", 1, Top, []int{0}, []int{1, 2, 3, 4}},
		{"top several", 2, Top, []int{0, 1}, []int{2, 3, 4}},
		{"bottom", 2, Bottom, []int{3, 4}, []int{0, 1, 2}},
		{"amount clamped up to one", 0, Top, []int{0}, []int{1, 2, 3, 4}},
		{"amount clamped to size", 10, Top, []int{0, 1, 2, 3, 4}, []int{}},
		{"index", 2, At(1), []int{1, 2}, []int{0, 3, 4}},
		{"index clamped to last", 1, At(50), []int{4}, []int{0, 1, 2, 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := NewPile(nil, 0, 1, 2, 3, 4)
			assert.Equal(t, tc.want, p.Pull(tc.amount, tc.pos))
			assert.Equal(t, tc.remaining, p.Cards())
		})
	}

	t.Run("empty pile", func(t *testing.T) {
		t.Parallel()
		p := NewPile(nil)
		assert.Empty(t, p.Pull(1, Top))
	})

	t.Run("random pulls consecutive cards", func(t *testing.T) {
		t.Parallel()
		p := NewPile(seededRand(3), 0, 1, 2, 3, 4)
		pulled := p.Pull(2, Random)
		require.Len(t, pulled, 2)
		assert.Equal(t, pulled[0]+1, pulled[1])
		assert.Equal(t, 3, p.Len())
	})
}

func TestPileRemoveAndContains(t *testing.T) {
	t.Parallel()

	p := NewPile(nil, 0, 1, 2)
	p.Remove(1, 7)
	assert.Equal(t, []int{0, 2}, p.Cards())
	assert.True(t, p.Contains(0))
	assert.False(t, p.Contains(1))
	assert.False(t, p.Contains(7))
}

func TestPileShuffle(t *testing.T) {
	t.Parallel()

	ids := make([]int, 50)
	for i := range ids {
		ids[i] = i
	}

	p := NewPile(seededRand(42), ids...)
	shuffled := p.Shuffle()

	assert.ElementsMatch(t, ids, shuffled)
	assert.Equal(t, shuffled, p.Cards(), "shuffle is in place")
	assert.NotEqual(t, ids, shuffled, "50 cards should not keep their order")
}
