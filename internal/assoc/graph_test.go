package assoc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkIsIdempotent(t *testing.T) {
	g := New[string, int]()

	assert.True(t, g.Link("entry", 1))
	assert.False(t, g.Link("entry", 1))

	assert.Equal(t, []int{1}, g.Right("entry"))
	assert.Equal(t, []string{"entry"}, g.Left(1))
	assert.Equal(t, 1, g.Len())
	require.NoError(t, g.Check())
}

func TestUnlink(t *testing.T) {
	g := New[string, int]()
	g.Link("a", 1)
	g.Link("a", 2)
	g.Link("b", 2)

	assert.True(t, g.Unlink("a", 2))
	assert.False(t, g.Unlink("a", 2), "second unlink is a no-op")
	assert.False(t, g.Unlink("missing", 7))

	assert.Equal(t, []int{1}, g.Right("a"))
	assert.Equal(t, []string{"b"}, g.Left(2))
	require.NoError(t, g.Check())
}

func TestRelatedSetOfUnknownIsEmpty(t *testing.T) {
	g := New[string, int]()

	right := g.Right("nobody")
	assert.NotNil(t, right)
	assert.Empty(t, right)
	assert.Empty(t, g.Left(42))
	assert.Zero(t, g.CountRight("nobody"))
	assert.Zero(t, g.CountLeft(42))
}

func TestRightKeepsLinkOrder(t *testing.T) {
	g := New[string, int]()
	for _, v := range []int{5, 3, 9, 1} {
		g.Link("a", v)
	}
	g.Unlink("a", 3)

	assert.Equal(t, []int{5, 9, 1}, g.Right("a"))
}

func TestRemoveLeftDropsAllEdges(t *testing.T) {
	g := New[string, int]()
	g.Link("a", 1)
	g.Link("a", 2)
	g.Link("b", 2)

	removed := g.RemoveLeft("a")

	assert.ElementsMatch(t, []int{1, 2}, removed)
	assert.Empty(t, g.Right("a"))
	assert.Empty(t, g.Left(1))
	assert.Equal(t, []string{"b"}, g.Left(2))
	assert.Equal(t, 1, g.Len())
	require.NoError(t, g.Check())
}

func TestRemoveRightDropsAllEdges(t *testing.T) {
	g := New[string, int]()
	g.Link("a", 1)
	g.Link("b", 1)
	g.Link("b", 2)

	removed := g.RemoveRight(1)

	assert.ElementsMatch(t, []string{"a", "b"}, removed)
	assert.Empty(t, g.Left(1))
	assert.Empty(t, g.Right("a"))
	assert.Equal(t, []int{2}, g.Right("b"))
	assert.ElementsMatch(t, []string{"b"}, g.Lefts())
	assert.ElementsMatch(t, []int{2}, g.Rights())
	require.NoError(t, g.Check())
}

// Every sequence of operations leaves the graph symmetric.
func TestRandomOperationsKeepSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := New[int, int]()

	for i := 0; i < 5000; i++ {
		l, r := rng.Intn(8), rng.Intn(8)
		switch rng.Intn(5) {
		case 0, 1:
			g.Link(l, r)
		case 2:
			g.Unlink(l, r)
		case 3:
			g.RemoveLeft(l)
		case 4:
			g.RemoveRight(r)
		}
		require.NoError(t, g.Check(), "after step %d", i)
	}

	for _, l := range g.Lefts() {
		for _, r := range g.Right(l) {
			assert.True(t, g.Linked(l, r))
			assert.Contains(t, g.Left(r), l)
		}
	}
}
