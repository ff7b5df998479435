package topology

import (
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/trailatlas/trailgraph-backend-go/internal/config"
	"github.com/trailatlas/trailgraph-backend-go/internal/geometry"
	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

// BuildStats counts what topology construction produced and cleaned up
type BuildStats struct {
	Clusters             int // endpoint clusters formed
	KnownSnaps           int // endpoints snapped onto detected intersection points
	DegenerateEdges      int // edges whose source equals target, discarded
	IsolatedNodesRemoved int // degree-0 nodes removed in cleanup
	OrphanEdgesRemoved   int // edges referencing missing nodes, removed in cleanup
}

// BuildStrategy converts split segments into a node/edge network. One
// implementation is selected per run.
type BuildStrategy interface {
	Name() string
	Build(segments []models.TrailSegment, known []models.IntersectionPoint) (*Network, *BuildStats, error)
}

// NewBuildStrategy selects the construction strategy by name. The grid-snap
// strategy is the default and currently the only one shipped.
func NewBuildStrategy(name string, engine geometry.Engine, cfg *config.Config) (BuildStrategy, error) {
	switch name {
	case "", "gridsnap":
		return NewGridSnapStrategy(engine, cfg), nil
	default:
		return nil, fmt.Errorf("unknown topology build strategy %q", name)
	}
}

// GridSnapStrategy clusters segment endpoints on a snap grid of the node
// tolerance, giving priority to known intersection points within the looser
// intersection snap tolerance.
type GridSnapStrategy struct {
	engine  geometry.Engine
	nodeTol float64 // endpoint clustering grid size (meters)
	snapTol float64 // known-intersection priority radius (meters)
}

// NewGridSnapStrategy creates the default builder strategy
func NewGridSnapStrategy(engine geometry.Engine, cfg *config.Config) *GridSnapStrategy {
	return &GridSnapStrategy{
		engine:  engine,
		nodeTol: cfg.NodeToleranceMeters,
		snapTol: cfg.IntersectionSnapToleranceMeters,
	}
}

// Name identifies the strategy
func (b *GridSnapStrategy) Name() string { return "gridsnap" }

// cluster accumulates the endpoints snapped to one canonical coordinate
type cluster struct {
	canonical spatial.Point
	usage     int
}

// Build constructs the network: one node per endpoint cluster, one edge per
// segment, degenerate edges discarded, then orphan/isolated cleanup.
func (b *GridSnapStrategy) Build(segments []models.TrailSegment, known []models.IntersectionPoint) (*Network, *BuildStats, error) {
	stats := &BuildStats{}
	net := NewNetwork()

	type clusterKey [2]float64
	clusters := make(map[clusterKey]*cluster)
	keys := make([]clusterKey, 0)

	resolve := func(p spatial.Point) clusterKey {
		// Known-intersection priority: snap onto the closest detected point
		// within tolerance before forming a new grid cluster. Equidistant
		// candidates resolve to the earliest (lowest id).
		bestKnown := -1
		bestDist := math.Inf(1)
		for k, ip := range known {
			d := b.engine.Distance(p, ip.Point)
			if d <= b.snapTol && d < bestDist {
				bestKnown, bestDist = k, d
			}
		}
		if bestKnown >= 0 {
			stats.KnownSnaps++
			p = known[bestKnown].Point
		}
		snapped := b.engine.SnapToGrid(p, b.nodeTol)
		key := clusterKey{snapped.Lon, snapped.Lat}
		if c, ok := clusters[key]; ok {
			c.usage++
		} else {
			clusters[key] = &cluster{canonical: snapped, usage: 1}
			keys = append(keys, key)
		}
		return key
	}

	type endpointPair struct {
		start, end clusterKey
	}
	pairs := make([]endpointPair, len(segments))
	for i, seg := range segments {
		pairs[i] = endpointPair{
			start: resolve(seg.Geometry.Start()),
			end:   resolve(seg.Geometry.End()),
		}
	}
	stats.Clusters = len(clusters)

	// Deterministic node ids: ascending by coordinate
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	nodeIDs := make(map[clusterKey]int64, len(keys))
	for _, key := range keys {
		c := clusters[key]
		node := net.AddNode(&models.Node{
			Lng:       c.canonical.Lon,
			Lat:       c.canonical.Lat,
			Elevation: c.canonical.Elev,
			NodeType:  nodeTypeForUsage(c.usage),
		})
		nodeIDs[key] = node.ID
	}

	for i, seg := range segments {
		source := nodeIDs[pairs[i].start]
		target := nodeIDs[pairs[i].end]
		if source == target {
			stats.DegenerateEdges++
			continue
		}
		net.AddEdge(&models.Edge{
			SourceNodeID:  source,
			TargetNodeID:  target,
			TrailID:       seg.TrailID,
			TrailName:     seg.Name,
			LengthKm:      seg.LengthKm,
			ElevationGain: seg.ElevationGain,
			ElevationLoss: seg.ElevationLoss,
			Geometry:      seg.Geometry,
		})
	}

	b.cleanup(net, stats)
	net.RecomputeDegrees()

	if stats.IsolatedNodesRemoved > 0 || stats.OrphanEdgesRemoved > 0 {
		log.Printf("topology: cleanup removed %d isolated nodes, %d orphan edges (data-quality warning)",
			stats.IsolatedNodesRemoved, stats.OrphanEdgesRemoved)
	}

	return net, stats, nil
}

// cleanup removes edges referencing missing nodes and nodes with no edges
func (b *GridSnapStrategy) cleanup(net *Network, stats *BuildStats) {
	for _, id := range net.EdgeIDs() {
		e := net.Edges[id]
		if _, ok := net.Nodes[e.SourceNodeID]; !ok {
			net.RemoveEdge(id)
			stats.OrphanEdgesRemoved++
			continue
		}
		if _, ok := net.Nodes[e.TargetNodeID]; !ok {
			net.RemoveEdge(id)
			stats.OrphanEdgesRemoved++
		}
	}
	for _, id := range net.NodeIDs() {
		if net.Degree(id) == 0 {
			net.RemoveNode(id)
			stats.IsolatedNodesRemoved++
		}
	}
}

// nodeTypeForUsage maps endpoint cluster usage counts onto node types
func nodeTypeForUsage(usage int) string {
	switch {
	case usage >= 3:
		return models.NodeTypeIntersection
	case usage == 2:
		return models.NodeTypeConnector
	default:
		return models.NodeTypeEndpoint
	}
}
