package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKShortestPaths_Diamond(t *testing.T) {
	g := diamond(t)

	paths, err := g.KShortestPaths(1, 4, 3)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	assert.Equal(t, []int64{1, 2, 4}, paths[0].Nodes)
	assert.InDelta(t, 2, paths[0].Cost, 1e-9)
	assert.Equal(t, []int64{1, 3, 4}, paths[1].Nodes)
	assert.InDelta(t, 4, paths[1].Cost, 1e-9)
	assert.Equal(t, []int64{1, 4}, paths[2].Nodes)
	assert.InDelta(t, 5, paths[2].Cost, 1e-9)

	// Monotonically non-decreasing cost
	for i := 1; i < len(paths); i++ {
		assert.GreaterOrEqual(t, paths[i].Cost, paths[i-1].Cost)
	}
}

func TestKShortestPaths_Loopless(t *testing.T) {
	g := diamond(t)

	paths, err := g.KShortestPaths(1, 4, 10)
	require.NoError(t, err)
	for _, p := range paths {
		seen := make(map[int64]bool)
		for _, n := range p.Nodes {
			assert.False(t, seen[n], "path %v revisits node %d", p.Nodes, n)
			seen[n] = true
		}
	}
}

func TestKShortestPaths_FewerThanK(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge(1, 1, 2, 1))

	paths, err := g.KShortestPaths(1, 2, 5)
	require.NoError(t, err)
	assert.Len(t, paths, 1, "a single possible path is not an error")
}

func TestKShortestPaths_NoPath(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge(1, 1, 2, 1))
	g.AddNode(3)

	_, err := g.KShortestPaths(1, 3, 2)
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestKShortestPaths_ZeroK(t *testing.T) {
	g := diamond(t)
	paths, err := g.KShortestPaths(1, 4, 0)
	require.NoError(t, err)
	assert.Nil(t, paths)
}
