package cards

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/phrazzld/dialogcards/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func definitions(n int) []domain.CardDefinition {
	defs := make([]domain.CardDefinition, n)
	for i := range defs {
		defs[i] = domain.CardDefinition{
			Front: domain.Face{Text: fmt.Sprintf("front %d", i)},
			Back:  domain.BackFace{Face: domain.Face{Text: fmt.Sprintf("back %d", i)}},
		}
	}
	return defs
}

func TestPoolIDs(t *testing.T) {
	t.Parallel()

	pool := NewPool(definitions(4))
	assert.Equal(t, 4, pool.Size())
	assert.Equal(t, []int{0, 1, 2, 3}, pool.CardIDs())
	assert.True(t, pool.Has(3))
	assert.False(t, pool.Has(4))
	assert.False(t, pool.Has(-1))
}

func TestPoolCard(t *testing.T) {
	t.Parallel()

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()
		pool := NewPool(definitions(2))
		card, ok := pool.Card(2)
		assert.False(t, ok)
		assert.Nil(t, card)

		_, ok = pool.Card(-1)
		assert.False(t, ok)
	})

	t.Run("materializes once", func(t *testing.T) {
		t.Parallel()
		var calls int
		pool := NewPool(definitions(2), WithLabelGenerator(func() string {
			calls++
			return fmt.Sprintf("label-%d", calls)
		}))

		first, ok := pool.Card(1)
		require.True(t, ok)
		second, ok := pool.Card(1)
		require.True(t, ok)

		assert.Same(t, first, second)
		assert.Equal(t, 1, calls)
		assert.Equal(t, "label-1", first.LabelID)
		assert.Equal(t, 1, first.ID)
		assert.Equal(t, "front 1", first.Front.Text)
		assert.Equal(t, "back 1", first.Back.Text)
	})

	t.Run("resolves inherited media", func(t *testing.T) {
		t.Parallel()
		image := &domain.Media{Path: "cat.png"}
		pool := NewPool([]domain.CardDefinition{{
			Front: domain.Face{Text: "Katze", Image: image},
			Back:  domain.BackFace{Face: domain.Face{Text: "cat"}, UseImageFromFront: true},
		}})

		card, ok := pool.Card(0)
		require.True(t, ok)
		assert.Same(t, image, card.Back.Image)
	})

	t.Run("concurrent access builds each card once", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		pool := NewPool(definitions(3), WithLabelGenerator(func() string {
			calls.Add(1)
			return "label"
		}))

		var wg sync.WaitGroup
		for i := 0; i < 30; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				_, _ = pool.Card(id % 3)
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("default labels are unique", func(t *testing.T) {
		t.Parallel()
		pool := NewPool(definitions(2))
		a, _ := pool.Card(0)
		b, _ := pool.Card(1)
		assert.NotEmpty(t, a.LabelID)
		assert.NotEqual(t, a.LabelID, b.LabelID)
	})
}

func TestPoolDefinitionIsIsolated(t *testing.T) {
	t.Parallel()

	defs := definitions(1)
	pool := NewPool(defs)
	defs[0].Front.Text = "changed"

	def, ok := pool.Definition(0)
	require.True(t, ok)
	assert.Equal(t, "front 0", def.Front.Text)

	_, ok = pool.Definition(1)
	assert.False(t, ok)
}
