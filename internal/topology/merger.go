package topology

import (
	"log"

	"github.com/trailatlas/trailgraph-backend-go/internal/config"
	"github.com/trailatlas/trailgraph-backend-go/internal/geometry"
	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

// Merger collapses degree-2 nodes: two mergeable incident edges and the node
// between them are replaced by one continuous edge connecting the outer
// endpoints. Each merge strictly reduces the number of degree-2 nodes, so the
// process converges regardless of ordering.
type Merger struct {
	engine        geometry.Engine
	preserveNames bool
	separator     string
	mergeTol      float64 // endpoint coincidence tolerance for geometry merge
}

// MergeStats counts merges performed and vertices skipped
type MergeStats struct {
	Merged  int
	Skipped int // unmergeable geometry or would-be self-loops
}

// NewMerger creates a merger with the configured naming policy
func NewMerger(engine geometry.Engine, cfg *config.Config) *Merger {
	return &Merger{
		engine:        engine,
		preserveNames: cfg.PreserveTrailNames,
		separator:     cfg.NameSeparator,
		mergeTol:      cfg.IntersectionSnapToleranceMeters,
	}
}

// Merge runs degree-2 collapsing to convergence. Each merge is applied
// atomically in memory: nothing is mutated until the geometry merge has
// succeeded. Failed vertices are skipped and counted, never retried.
func (m *Merger) Merge(net *Network) *MergeStats {
	stats := &MergeStats{}
	skipped := make(map[int64]bool)

	for {
		nodeID, found := m.nextDegree2(net, skipped)
		if !found {
			break
		}
		if !m.mergeAt(net, nodeID, stats) {
			skipped[nodeID] = true
			stats.Skipped++
		}
	}

	net.RecomputeDegrees()
	return stats
}

// nextDegree2 finds the lowest-id degree-2 node not yet skipped
func (m *Merger) nextDegree2(net *Network, skipped map[int64]bool) (int64, bool) {
	for _, id := range net.NodeIDs() {
		if skipped[id] {
			continue
		}
		if net.Degree(id) == 2 {
			return id, true
		}
	}
	return 0, false
}

// mergeAt collapses one degree-2 node. Returns false if the vertex cannot be
// merged (self-loop result or geometry failure).
func (m *Merger) mergeAt(net *Network, nodeID int64, stats *MergeStats) bool {
	incident := net.IncidentEdges(nodeID)
	if len(incident) != 2 {
		return false
	}
	e1, e2 := incident[0], incident[1]

	other1 := e1.OtherEnd(nodeID)
	other2 := e2.OtherEnd(nodeID)

	// A ring through this node would collapse into a self-loop edge, which
	// the graph invariant forbids
	if other1 == other2 || other1 == nodeID || other2 == nodeID {
		return false
	}

	mergedLine, err := m.engine.MergeLines([]spatial.Line{e1.Geometry, e2.Geometry}, m.mergeTol)
	if err != nil {
		log.Printf("merger: node %d edges %d+%d not geometrically mergeable: %v", nodeID, e1.ID, e2.ID, err)
		return false
	}

	// Orient the merged geometry from other1 towards other2
	n1 := net.Nodes[other1]
	if n1 != nil && spatial.Distance(mergedLine.Start(), n1.Point()) > spatial.Distance(mergedLine.End(), n1.Point()) {
		mergedLine = mergedLine.Reverse()
	}

	gain, loss := spatial.ElevationGainLoss(mergedLine)
	merged := &models.Edge{
		SourceNodeID:  other1,
		TargetNodeID:  other2,
		TrailID:       m.dominantTrailID(e1, e2),
		TrailName:     m.mergedName(e1, e2),
		LengthKm:      e1.LengthKm + e2.LengthKm,
		ElevationGain: gain,
		ElevationLoss: loss,
		Geometry:      mergedLine,
	}

	net.RemoveEdge(e1.ID)
	net.RemoveEdge(e2.ID)
	net.RemoveNode(nodeID)
	net.AddEdge(merged)
	stats.Merged++
	return true
}

// mergedName applies the naming policy: longer edge wins, or both names
// concatenated when name preservation is on
func (m *Merger) mergedName(e1, e2 *models.Edge) string {
	if e1.TrailName == e2.TrailName {
		return e1.TrailName
	}
	if m.preserveNames {
		return e1.TrailName + m.separator + e2.TrailName
	}
	if e2.LengthKm > e1.LengthKm {
		return e2.TrailName
	}
	return e1.TrailName
}

func (m *Merger) dominantTrailID(e1, e2 *models.Edge) int64 {
	if e2.LengthKm > e1.LengthKm {
		return e2.TrailID
	}
	return e1.TrailID
}
