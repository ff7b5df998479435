package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trailatlas/trailgraph-backend-go/internal/models"
)

func TestClassify_CleanLoop(t *testing.T) {
	p := RoutePath{
		Nodes: []int64{1, 2, 3, 4, 1},
		Edges: []int64{10, 11, 12, 13},
	}
	cls := Classify(p)
	assert.Equal(t, models.ShapeLoop, cls.Shape)
	assert.InDelta(t, 0.95, cls.Confidence, 1e-9)
	assert.False(t, cls.Inconsistent)
}

func TestClassify_LoopWithRepeatedInteriorNode(t *testing.T) {
	// Figure-8 walk: node 3 visited twice but no edge repeats
	p := RoutePath{
		Nodes: []int64{1, 2, 3, 4, 5, 3, 1},
		Edges: []int64{10, 11, 12, 13, 14, 15},
	}
	cls := Classify(p)
	assert.Equal(t, models.ShapeLoop, cls.Shape)
	assert.InDelta(t, 0.90, cls.Confidence, 1e-9)
}

func TestClassify_OutAndBack(t *testing.T) {
	p := RoutePath{
		Nodes: []int64{1, 2, 3, 2, 1},
		Edges: []int64{10, 11, 11, 10},
	}
	cls := Classify(p)
	assert.Equal(t, models.ShapeOutAndBack, cls.Shape)
	// Two retraced edges: 0.70 + 2/10
	assert.InDelta(t, 0.90, cls.Confidence, 1e-9)
}

func TestClassify_OutAndBackConfidenceCapped(t *testing.T) {
	nodes := []int64{1, 2, 3, 4, 5, 6, 7, 6, 5, 4, 3, 2, 1}
	edges := []int64{10, 11, 12, 13, 14, 15, 15, 14, 13, 12, 11, 10}
	cls := Classify(RoutePath{Nodes: nodes, Edges: edges})
	assert.Equal(t, models.ShapeOutAndBack, cls.Shape)
	assert.InDelta(t, 0.95, cls.Confidence, 1e-9)
}

func TestClassify_PointToPoint(t *testing.T) {
	p := RoutePath{
		Nodes: []int64{1, 2, 3},
		Edges: []int64{10, 11},
	}
	cls := Classify(p)
	assert.Equal(t, models.ShapePointToPoint, cls.Shape)
	assert.InDelta(t, 0.90, cls.Confidence, 1e-9)
}

func TestClassify_PartialRetraceIsOutAndBack(t *testing.T) {
	// Open path that retraces edge 11 in the opposite direction
	p := RoutePath{
		Nodes: []int64{1, 2, 3, 2, 4},
		Edges: []int64{10, 11, 11, 12},
	}
	cls := Classify(p)
	assert.Equal(t, models.ShapeOutAndBack, cls.Shape)
	assert.InDelta(t, 0.80, cls.Confidence, 1e-9)
}

func TestClassify_SameDirectionRepeatIsInconsistent(t *testing.T) {
	// Edge 10 appears twice, both times in the same direction: the walk is
	// not well formed, flagged and downgraded
	p := RoutePath{
		Nodes: []int64{1, 2, 3, 1, 2},
		Edges: []int64{10, 11, 12, 10},
	}
	cls := Classify(p)
	assert.Equal(t, models.ShapePointToPoint, cls.Shape)
	assert.InDelta(t, 0.80, cls.Confidence, 1e-9)
	assert.True(t, cls.Inconsistent)
}

func TestClassify_ReversalInvariant(t *testing.T) {
	paths := []RoutePath{
		{Nodes: []int64{1, 2, 3, 4, 1}, Edges: []int64{10, 11, 12, 13}},
		{Nodes: []int64{1, 2, 3, 2, 1}, Edges: []int64{10, 11, 11, 10}},
		{Nodes: []int64{1, 2, 3}, Edges: []int64{10, 11}},
	}
	for _, p := range paths {
		forward := Classify(p)
		reversed := Classify(RoutePath{
			Nodes: reverseNodes(p.Nodes),
			Edges: reverseEdges(p.Edges),
		})
		assert.Equal(t, forward.Shape, reversed.Shape)
		assert.InDelta(t, forward.Confidence, reversed.Confidence, 1e-9)
	}
}

func TestClassify_EdgesOnlyFallback(t *testing.T) {
	cls := Classify(RoutePath{Edges: []int64{10, 11, 11, 10}})
	assert.Equal(t, models.ShapeOutAndBack, cls.Shape)

	cls = Classify(RoutePath{Edges: []int64{10, 11, 12}})
	assert.Equal(t, models.ShapePointToPoint, cls.Shape)
}

func TestClassify_Empty(t *testing.T) {
	cls := Classify(RoutePath{})
	assert.Equal(t, models.ShapePointToPoint, cls.Shape)
	assert.Zero(t, cls.Confidence)
}
