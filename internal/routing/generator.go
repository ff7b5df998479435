package routing

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trailatlas/trailgraph-backend-go/internal/config"
	"github.com/trailatlas/trailgraph-backend-go/internal/geometry"
	"github.com/trailatlas/trailgraph-backend-go/internal/graph"
	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
	"github.com/trailatlas/trailgraph-backend-go/internal/topology"
)

// PathFinder is the graph-search capability the generator depends on. The
// routing graph satisfies it; tests can substitute a fake.
type PathFinder interface {
	KShortestPaths(source, target int64, k int) ([]graph.Path, error)
	Neighbors(id int64) []int64
	Degree(id int64) int
	Nodes() []int64
}

// Generator searches the trail network for route candidates matching a
// pattern. Results accumulate incrementally across seeds with no ordering
// dependency, so callers may stop consuming early under a time budget.
type Generator struct {
	net    *topology.Network
	finder PathFinder
	engine geometry.Engine
	scorer *Scorer
	cfg    *config.Config
}

// NewGenerator builds a generator over a finished network
func NewGenerator(net *topology.Network, engine geometry.Engine, cfg *config.Config) *Generator {
	return &Generator{
		net:    net,
		finder: net.ToGraph(),
		engine: engine,
		scorer: NewScorer(cfg),
		cfg:    cfg,
	}
}

// NewGeneratorWithFinder builds a generator with an injected path finder
func NewGeneratorWithFinder(net *topology.Network, finder PathFinder, engine geometry.Engine, cfg *config.Config) *Generator {
	return &Generator{net: net, finder: finder, engine: engine, scorer: NewScorer(cfg), cfg: cfg}
}

// Generate produces route recommendations for a pattern. An empty result set
// means search exhaustion for that pattern, not an error.
func (g *Generator) Generate(pattern models.RoutePattern) []models.RouteRecommendation {
	seeds := g.seedNodes()
	if len(seeds) == 0 {
		log.Printf("generator: no seed nodes with degree >= 2, pattern %q yields nothing", pattern.Name)
		return nil
	}

	var candidates []candidate
	switch pattern.Shape {
	case models.ShapeLoop:
		candidates = g.loopCandidates(seeds, pattern)
	case models.ShapeOutAndBack:
		candidates = g.outAndBackCandidates(seeds, pattern)
	case models.ShapePointToPoint:
		candidates = g.pointToPointCandidates(seeds, pattern)
	default:
		log.Printf("generator: unknown pattern shape %q", pattern.Shape)
		return nil
	}

	recs := g.assemble(dedupe(candidates), pattern)
	sort.Slice(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	return recs
}

// candidate is a raw path candidate before scoring
type candidate struct {
	path       RoutePath
	distanceKm float64
}

// seedNodes selects nodes with at least two incident edges and spreads the
// selection across geographic clusters to guarantee spatial coverage
func (g *Generator) seedNodes() []int64 {
	var eligible []int64
	for _, id := range g.finder.Nodes() {
		if g.finder.Degree(id) >= 2 {
			eligible = append(eligible, id)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	points := make([]spatial.Point, len(eligible))
	for i, id := range eligible {
		points[i] = g.net.Nodes[id].Point()
	}

	km := KMeans(points, g.cfg.SeedClusterCount)

	type ranked struct {
		id   int64
		dist float64
	}
	byCluster := make(map[int][]ranked)
	for i, id := range eligible {
		c := km.Assignments[i]
		centroid := km.Centroids[c]
		dLon := points[i].Lon - centroid.Lon
		dLat := points[i].Lat - centroid.Lat
		byCluster[c] = append(byCluster[c], ranked{id: id, dist: dLon*dLon + dLat*dLat})
	}

	var seeds []int64
	clusterIDs := make([]int, 0, len(byCluster))
	for c := range byCluster {
		clusterIDs = append(clusterIDs, c)
	}
	sort.Ints(clusterIDs)
	for _, c := range clusterIDs {
		members := byCluster[c]
		sort.Slice(members, func(i, j int) bool {
			if members[i].dist != members[j].dist {
				return members[i].dist < members[j].dist
			}
			return members[i].id < members[j].id
		})
		limit := g.cfg.SeedsPerCluster
		if limit > len(members) {
			limit = len(members)
		}
		for _, m := range members[:limit] {
			seeds = append(seeds, m.id)
		}
	}
	sort.Slice(seeds, func(i, j int) bool { return seeds[i] < seeds[j] })
	return seeds
}

// loopCandidates pairs outbound and return k-shortest paths between each seed
// and its direct neighbors. A pair is accepted only when it has enough edges
// and the legs share few enough edges to be a genuine loop, not a retrace.
func (g *Generator) loopCandidates(seeds []int64, pattern models.RoutePattern) []candidate {
	var out []candidate
	k := g.cfg.KSPPathsPerPair

	for _, seed := range seeds {
		for _, nb := range g.finder.Neighbors(seed) {
			outbound, err := g.finder.KShortestPaths(seed, nb, k)
			if err != nil {
				continue
			}
			returns, err := g.finder.KShortestPaths(nb, seed, k)
			if err != nil {
				continue
			}
			for _, o := range outbound {
				for _, r := range returns {
					combined := RoutePath{
						Nodes: append(append([]int64{}, o.Nodes...), r.Nodes[1:]...),
						Edges: append(append([]int64{}, o.Edges...), r.Edges...),
					}
					if len(combined.Edges) <= g.cfg.MinLoopEdgeCount {
						continue
					}
					if overlapRatio(o.Edges, r.Edges) > g.cfg.LoopOverlapMaxRatio {
						continue
					}
					dist := (o.Cost + r.Cost) / 1000
					if !g.withinBand(dist, pattern.TargetDistanceKm) {
						continue
					}
					out = append(out, candidate{path: combined, distanceKm: dist})
				}
			}
		}
	}
	return out
}

// outAndBackCandidates doubles k-shortest paths between seed pairs
func (g *Generator) outAndBackCandidates(seeds []int64, pattern models.RoutePattern) []candidate {
	var out []candidate
	k := g.cfg.KSPPathsPerPair

	for _, seed := range seeds {
		for _, target := range seeds {
			if target <= seed {
				continue
			}
			paths, err := g.finder.KShortestPaths(seed, target, k)
			if err != nil {
				continue
			}
			for _, p := range paths {
				dist := 2 * p.Cost / 1000
				if !g.withinBand(dist, pattern.TargetDistanceKm) {
					continue
				}
				doubled := RoutePath{
					Nodes: append(append([]int64{}, p.Nodes...), reverseNodes(p.Nodes)[1:]...),
					Edges: append(append([]int64{}, p.Edges...), reverseEdges(p.Edges)...),
				}
				out = append(out, candidate{path: doubled, distanceKm: dist})
			}
		}
	}
	return out
}

// pointToPointCandidates takes k-shortest paths between distinct seed pairs
func (g *Generator) pointToPointCandidates(seeds []int64, pattern models.RoutePattern) []candidate {
	var out []candidate
	k := g.cfg.KSPPathsPerPair

	for _, seed := range seeds {
		for _, target := range seeds {
			if target <= seed {
				continue
			}
			paths, err := g.finder.KShortestPaths(seed, target, k)
			if err != nil {
				continue
			}
			for _, p := range paths {
				dist := p.Cost / 1000
				if !g.withinBand(dist, pattern.TargetDistanceKm) {
					continue
				}
				out = append(out, candidate{
					path:       RoutePath{Nodes: p.Nodes, Edges: p.Edges},
					distanceKm: dist,
				})
			}
		}
	}
	return out
}

// withinBand applies the wide acceptance band around the target distance;
// downstream scoring penalizes poor fits inside the band
func (g *Generator) withinBand(distanceKm, targetKm float64) bool {
	return distanceKm >= g.cfg.DistanceBandLow*targetKm && distanceKm <= g.cfg.DistanceBandHigh*targetKm
}

// assemble scores candidates and materializes recommendations
func (g *Generator) assemble(candidates []candidate, pattern models.RoutePattern) []models.RouteRecommendation {
	recs := make([]models.RouteRecommendation, 0, len(candidates))
	now := time.Now()

	for _, c := range candidates {
		cls := Classify(c.path)
		gain := g.traversalGain(c.path)
		similarity := g.scorer.Similarity(c.distanceKm, pattern.TargetDistanceKm, gain, pattern.TargetElevationGain)
		score := g.scorer.Score(c.distanceKm, pattern.TargetDistanceKm, gain, pattern.TargetElevationGain, cls.Confidence)

		names := g.trailNames(c.path.Edges)
		recs = append(recs, models.RouteRecommendation{
			RouteUUID:                uuid.NewString(),
			RouteName:                routeName(names),
			RouteShape:               cls.Shape,
			ShapeConfidence:          cls.Confidence,
			InputDistanceKm:          pattern.TargetDistanceKm,
			InputElevationGain:       pattern.TargetElevationGain,
			RecommendedDistanceKm:    c.distanceKm,
			RecommendedElevationGain: gain,
			EdgeIDs:                  c.path.Edges,
			TrailNames:               names,
			TrailCount:               len(names),
			Score:                    score,
			SimilarityScore:          similarity,
			Geometry:                 g.unionGeometry(c.path.Edges),
			CreatedAt:                now,
		})
	}
	return recs
}

// traversalGain sums elevation gain along the walk, honoring edge direction
func (g *Generator) traversalGain(p RoutePath) float64 {
	var gain float64
	for i, id := range p.Edges {
		e, ok := g.net.Edges[id]
		if !ok {
			continue
		}
		forward := true
		if len(p.Nodes) == len(p.Edges)+1 {
			forward = p.Nodes[i] == e.SourceNodeID
		}
		if forward {
			gain += e.ElevationGain
		} else {
			gain += e.ElevationLoss
		}
	}
	return gain
}

// unionGeometry merges the geometries of the path's unique edges. Per the
// failure contract, an empty line is returned when the union cannot be built.
func (g *Generator) unionGeometry(edgeIDs []int64) spatial.Line {
	var lines []spatial.Line
	seen := make(map[int64]bool, len(edgeIDs))
	for _, id := range edgeIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		e, ok := g.net.Edges[id]
		if !ok {
			return spatial.Line{}
		}
		lines = append(lines, e.Geometry)
	}
	if len(lines) == 0 {
		return spatial.Line{}
	}
	merged, err := g.engine.MergeLines(lines, g.cfg.IntersectionSnapToleranceMeters)
	if err != nil {
		if !errors.Is(err, spatial.ErrUnmergeable) {
			log.Printf("generator: geometry union failed: %v", err)
		}
		return spatial.Line{}
	}
	return merged
}

// trailNames returns the distinct trail names in traversal order
func (g *Generator) trailNames(edgeIDs []int64) []string {
	var names []string
	seen := make(map[string]bool)
	for _, id := range edgeIDs {
		e, ok := g.net.Edges[id]
		if !ok || e.TrailName == "" {
			continue
		}
		if !seen[e.TrailName] {
			seen[e.TrailName] = true
			names = append(names, e.TrailName)
		}
	}
	return names
}

func routeName(names []string) string {
	switch len(names) {
	case 0:
		return "Unnamed Route"
	case 1:
		return names[0]
	default:
		return fmt.Sprintf("%s via %s", names[0], names[1])
	}
}

// overlapRatio is the fraction of non-unique edges across the two legs
func overlapRatio(out, ret []int64) float64 {
	total := len(out) + len(ret)
	if total == 0 {
		return 0
	}
	unique := make(map[int64]bool, total)
	for _, id := range out {
		unique[id] = true
	}
	for _, id := range ret {
		unique[id] = true
	}
	return float64(total-len(unique)) / float64(total)
}

// dedupe drops candidates that use the same edge set as an earlier one
func dedupe(candidates []candidate) []candidate {
	seen := make(map[string]bool, len(candidates))
	out := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		sig := edgeSignature(c.path.Edges)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, c)
	}
	return out
}

func edgeSignature(edgeIDs []int64) string {
	ids := make([]int64, len(edgeIDs))
	copy(ids, edgeIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	sig := ""
	for _, id := range ids {
		sig += fmt.Sprintf("%d,", id)
	}
	return sig
}

func reverseNodes(nodes []int64) []int64 {
	out := make([]int64, len(nodes))
	for i, n := range nodes {
		out[len(nodes)-1-i] = n
	}
	return out
}

func reverseEdges(edges []int64) []int64 {
	out := make([]int64, len(edges))
	for i, e := range edges {
		out[len(edges)-1-i] = e
	}
	return out
}
