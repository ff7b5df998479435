package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond builds:
//
//	1 --(e10:1)-- 2 --(e11:1)-- 4
//	1 --(e12:2)-- 3 --(e13:2)-- 4
//	1 --------(e14:5)--------- 4
func diamond(t *testing.T) *Graph {
	t.Helper()
	g := New()
	require.NoError(t, g.AddEdge(10, 1, 2, 1))
	require.NoError(t, g.AddEdge(11, 2, 4, 1))
	require.NoError(t, g.AddEdge(12, 1, 3, 2))
	require.NoError(t, g.AddEdge(13, 3, 4, 2))
	require.NoError(t, g.AddEdge(14, 1, 4, 5))
	return g
}

func TestShortestPath(t *testing.T) {
	g := diamond(t)

	p, err := g.ShortestPath(1, 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 4}, p.Nodes)
	assert.Equal(t, []int64{10, 11}, p.Edges)
	assert.InDelta(t, 2, p.Cost, 1e-9)
}

func TestShortestPath_SourceEqualsTarget(t *testing.T) {
	g := diamond(t)
	p, err := g.ShortestPath(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, p.Nodes)
	assert.Empty(t, p.Edges)
	assert.Zero(t, p.Cost)
}

func TestShortestPath_NoPath(t *testing.T) {
	g := diamond(t)
	g.AddNode(9)
	_, err := g.ShortestPath(1, 9)
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestShortestPath_VertexNotFound(t *testing.T) {
	g := diamond(t)
	_, err := g.ShortestPath(1, 99)
	assert.ErrorIs(t, err, ErrVertexNotFound)
}

func TestAddEdge_NegativeWeight(t *testing.T) {
	g := New()
	assert.ErrorIs(t, g.AddEdge(1, 1, 2, -0.5), ErrNegativeWeight)
}

func TestPathCost(t *testing.T) {
	g := diamond(t)
	assert.InDelta(t, 2, g.PathCost([]int64{10, 11}), 1e-9)
	assert.True(t, g.PathCost([]int64{10, 999}) > 1e18, "missing edge costs +Inf")
}

func TestNeighborsDeterministic(t *testing.T) {
	g := diamond(t)
	assert.Equal(t, []int64{2, 3, 4}, g.Neighbors(1))
	assert.Equal(t, []int64{1, 2, 3, 4}, g.Nodes())
	assert.Equal(t, 3, g.Degree(1))
}
