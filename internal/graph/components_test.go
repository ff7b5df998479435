package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectedComponents(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdge(1, 1, 2, 1))
	require.NoError(t, g.AddEdge(2, 3, 4, 1))
	g.AddNode(5)

	comp := g.ConnectedComponents()
	assert.Equal(t, 0, comp[1])
	assert.Equal(t, 0, comp[2])
	assert.Equal(t, 1, comp[3])
	assert.Equal(t, 1, comp[4])
	assert.Equal(t, 2, comp[5])
	assert.Equal(t, 3, g.ComponentCount())
}

func TestConnectedComponents_Empty(t *testing.T) {
	g := New()
	assert.Empty(t, g.ConnectedComponents())
	assert.Equal(t, 0, g.ComponentCount())
}
