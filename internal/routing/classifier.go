// Package routing searches the trail network for route recommendations:
// shape classification, seed clustering, k-shortest-paths candidate
// generation and similarity scoring.
package routing

import (
	"math"

	"github.com/trailatlas/trailgraph-backend-go/internal/models"
)

// RoutePath is an ordered edge walk, optionally with its node sequence.
// Node sequence i corresponds to the endpoints of edge i: nodes[i] -> nodes[i+1].
type RoutePath struct {
	Nodes []int64
	Edges []int64
}

// Classification is the shape decision for an edge path
type Classification struct {
	Shape      string
	Confidence float64
	// Inconsistent marks a path whose endpoints differ but whose edges
	// repeat in the same direction, which a well-formed walk should not do
	Inconsistent bool
}

// Classify determines whether an edge path forms a loop, an out-and-back or a
// point-to-point route. Classification is invariant under path reversal.
func Classify(p RoutePath) Classification {
	if len(p.Edges) == 0 {
		return Classification{Shape: models.ShapePointToPoint, Confidence: 0}
	}

	dupEdges := duplicateCount(p.Edges)

	if len(p.Nodes) == 0 {
		// Edges only: fall back to repeat counting
		if dupEdges > 0 {
			return Classification{Shape: models.ShapeOutAndBack, Confidence: outAndBackConfidence(dupEdges)}
		}
		return Classification{Shape: models.ShapePointToPoint, Confidence: 0.90}
	}

	closed := p.Nodes[0] == p.Nodes[len(p.Nodes)-1]

	if closed {
		if dupEdges == 0 {
			conf := 0.95
			if duplicateInteriorNodes(p.Nodes) > 0 {
				conf = 0.90
			}
			return Classification{Shape: models.ShapeLoop, Confidence: conf}
		}
		return Classification{Shape: models.ShapeOutAndBack, Confidence: outAndBackConfidence(dupEdges)}
	}

	if dupEdges == 0 {
		return Classification{Shape: models.ShapePointToPoint, Confidence: 0.90}
	}

	// Distinct endpoints with repeated edges: a repeat traversed in both
	// directions is a partial retrace (out-and-back); repeats in the same
	// direction are an inconsistent walk.
	if hasBidirectionalRepeat(p) {
		return Classification{Shape: models.ShapeOutAndBack, Confidence: outAndBackConfidence(dupEdges)}
	}
	return Classification{Shape: models.ShapePointToPoint, Confidence: 0.80, Inconsistent: true}
}

// outAndBackConfidence grows with the number of retraced edges, capped at 0.95
func outAndBackConfidence(dupEdges int) float64 {
	return math.Min(0.95, 0.70+float64(dupEdges)/10)
}

// duplicateCount returns how many entries repeat an earlier value
func duplicateCount(ids []int64) int {
	seen := make(map[int64]int, len(ids))
	dups := 0
	for _, id := range ids {
		if seen[id] > 0 {
			dups++
		}
		seen[id]++
	}
	return dups
}

// duplicateInteriorNodes counts repeated nodes excluding the shared start/end
// of a closed path
func duplicateInteriorNodes(nodes []int64) int {
	if len(nodes) < 3 {
		return 0
	}
	interior := nodes[1 : len(nodes)-1]
	seen := make(map[int64]int, len(interior))
	dups := 0
	for _, id := range interior {
		if seen[id] > 0 {
			dups++
		}
		seen[id]++
	}
	return dups
}

// hasBidirectionalRepeat reports whether any repeated edge is traversed in
// both directions, judged from the node sequence
func hasBidirectionalRepeat(p RoutePath) bool {
	if len(p.Nodes) != len(p.Edges)+1 {
		return false
	}
	type traversal struct{ from, to int64 }
	seen := make(map[int64][]traversal, len(p.Edges))
	for i, e := range p.Edges {
		cur := traversal{from: p.Nodes[i], to: p.Nodes[i+1]}
		for _, prev := range seen[e] {
			if prev.from == cur.to && prev.to == cur.from {
				return true
			}
		}
		seen[e] = append(seen[e], cur)
	}
	return false
}
