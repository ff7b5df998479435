package topology

import (
	"log"
	"sort"

	"github.com/trailatlas/trailgraph-backend-go/internal/config"
	"github.com/trailatlas/trailgraph-backend-go/internal/geometry"
	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

// touchEps is the distance in meters below which an endpoint is considered to
// already lie on another line
const touchEps = 0.05

// maxSelfSplitRounds bounds repeated splitting of pathological self-crossing
// lines before the trail is flagged as an anomaly
const maxSelfSplitRounds = 16

// Splitter cuts trails into simple segments at exact crossings,
// self-intersections and T/Y near-junctions.
type Splitter struct {
	engine    geometry.Engine
	splitTol  float64 // T/Y near-junction tolerance (meters)
	minSegLen float64 // minimum surviving segment length (meters)
}

// SplitStats counts what the splitter did and what it had to skip
type SplitStats struct {
	CrossSplits       int // exact crossings split
	SelfSplits        int // self-intersection splits
	TYSnaps           int // endpoint snaps onto another trail's body
	Anomalies         int // collinear overlaps, malformed lines (skipped, not fatal)
	ToleranceWarnings int // ambiguous snap targets resolved by tie-break
	DroppedShort      int // noise segments below minimum length
	KeptShort         int // short segments kept because removal would disconnect
}

// SplitResult is the splitter output consumed by the topology builder
type SplitResult struct {
	Segments      []models.TrailSegment
	Intersections []models.IntersectionPoint
	Stats         SplitStats
}

// workLine is a trail polyline being progressively cut
type workLine struct {
	trailID int64
	name    string
	region  string
	line    spatial.Line
}

// NewSplitter creates a splitter with the configured tolerances
func NewSplitter(engine geometry.Engine, cfg *config.Config) *Splitter {
	return &Splitter{
		engine:    engine,
		splitTol:  cfg.SplitToleranceMeters,
		minSegLen: cfg.MinSegmentLengthMeters,
	}
}

// Split produces simple, non-crossing segments from the given trails.
// Geometry anomalies on a single trail or pair are logged and skipped; they
// never abort the batch.
func (s *Splitter) Split(trails []models.Trail) *SplitResult {
	res := &SplitResult{}

	work := make([]*workLine, 0, len(trails))
	for _, t := range trails {
		if len(t.Geometry) < 2 {
			log.Printf("splitter: trail %d (%s) has degenerate geometry, skipping", t.ID, t.Name)
			res.Stats.Anomalies++
			continue
		}
		work = append(work, &workLine{
			trailID: t.ID,
			name:    t.Name,
			region:  t.Region,
			line:    t.Geometry.Clone(),
		})
	}

	work = s.splitSelfIntersections(work, res)
	work = s.splitCrossings(work, res)
	work = s.snapNearJunctions(work, res)

	s.finalize(work, res)
	return res
}

// splitSelfIntersections cuts non-simple lines at their self-crossing points.
// Simple closed rings are true loops and pass through unchanged.
func (s *Splitter) splitSelfIntersections(work []*workLine, res *SplitResult) []*workLine {
	out := make([]*workLine, 0, len(work))
	for _, w := range work {
		pending := []*workLine{w}
		for round := 0; len(pending) > 0; round++ {
			cur := pending[0]
			pending = pending[1:]

			p, found := s.engine.SelfIntersection(cur.line)
			if !found {
				out = append(out, cur)
				continue
			}
			if round >= maxSelfSplitRounds {
				log.Printf("splitter: trail %d (%s) still self-intersecting after %d rounds, leaving unsplit",
					cur.trailID, cur.name, round)
				res.Stats.Anomalies++
				out = append(out, cur)
				continue
			}

			parts := s.engine.Split(cur.line, p, s.splitTol)
			if len(parts) < 2 {
				// Crossing point coincides with an endpoint; nothing to cut
				res.Stats.Anomalies++
				out = append(out, cur)
				continue
			}
			res.Stats.SelfSplits++
			for _, part := range parts {
				pending = append(pending, &workLine{
					trailID: cur.trailID, name: cur.name, region: cur.region, line: part,
				})
			}
		}
	}
	return out
}

// splitCrossings repeatedly finds a pair of lines with an interior point
// crossing and cuts both at that point, until no crossings remain. Collinear
// overlaps are reported as anomalies, once per trail pair, and left alone.
func (s *Splitter) splitCrossings(work []*workLine, res *SplitResult) []*workLine {
	collinearSeen := make(map[[2]int64]bool)

	for changed := true; changed; {
		changed = false
		for i := 0; i < len(work) && !changed; i++ {
			for j := i + 1; j < len(work) && !changed; j++ {
				a, b := work[i], work[j]
				hit := s.engine.Intersection(a.line, b.line)

				switch hit.Kind {
				case spatial.IntersectNone:
					continue
				case spatial.IntersectCollinear:
					key := pairKey(a.trailID, b.trailID)
					if !collinearSeen[key] {
						collinearSeen[key] = true
						log.Printf("splitter: collinear overlap between trail %d (%s) and trail %d (%s), skipping pair",
							a.trailID, a.name, b.trailID, b.name)
						res.Stats.Anomalies++
					}
					continue
				}

				partsA := s.engine.Split(a.line, hit.Point, s.splitTol)
				partsB := s.engine.Split(b.line, hit.Point, s.splitTol)
				if len(partsA) < 2 && len(partsB) < 2 {
					// Shared endpoint, not an interior crossing on either side
					continue
				}

				res.Stats.CrossSplits++
				res.Intersections = append(res.Intersections, models.IntersectionPoint{
					Point:             hit.Point,
					ConnectedTrailIDs: []int64{a.trailID, b.trailID},
					ConnectedNames:    []string{a.name, b.name},
					NodeTypeHint:      models.HintIntersection,
				})

				replacement := make([]*workLine, 0, len(work)+2)
				replacement = append(replacement, work[:i]...)
				for _, part := range partsA {
					replacement = append(replacement, &workLine{trailID: a.trailID, name: a.name, region: a.region, line: part})
				}
				replacement = append(replacement, work[i+1:j]...)
				for _, part := range partsB {
					replacement = append(replacement, &workLine{trailID: b.trailID, name: b.name, region: b.region, line: part})
				}
				replacement = append(replacement, work[j+1:]...)
				work = replacement
				changed = true
			}
		}
	}
	return work
}

// tyCandidate is one endpoint lying near another line's interior
type tyCandidate struct {
	visitorIdx int // index of the line owning the endpoint
	atStart    bool
	visitedIdx int // index of the line being approached
	proj       spatial.Point
	dist       float64
}

// snapNearJunctions resolves T/Y junctions: a trail endpoint within tolerance
// of another trail's body is extended onto the body and the visited trail is
// split there. Closest endpoint wins; ties break by smaller trail id.
func (s *Splitter) snapNearJunctions(work []*workLine, res *SplitResult) []*workLine {
	for {
		candidates := s.collectNearJunctions(work)
		if len(candidates) == 0 {
			return work
		}

		sort.Slice(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if a.dist != b.dist {
				return a.dist < b.dist
			}
			return work[a.visitorIdx].trailID < work[b.visitorIdx].trailID
		})

		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.visitedIdx == best.visitedIdx && spatial.SamePoint(c.proj, best.proj, s.splitTol) {
				log.Printf("splitter: ambiguous snap near (%.6f, %.6f): trail %d deferred to trail %d",
					best.proj.Lon, best.proj.Lat,
					work[c.visitorIdx].trailID, work[best.visitorIdx].trailID)
				res.Stats.ToleranceWarnings++
			}
		}

		visitor := work[best.visitorIdx]
		visited := work[best.visitedIdx]

		// Classify before extending: the approach bearing comes from the
		// visitor's original endpoint and its neighbor vertex, not from the
		// snap stub about to be appended
		hint := s.junctionHint(visitor.line, best.atStart, visited.line, best.proj)

		// Extend the visitor's endpoint onto the visited line
		if best.atStart {
			visitor.line = append(spatial.Line{best.proj}, visitor.line...)
		} else {
			visitor.line = append(visitor.line, best.proj)
		}
		res.Intersections = append(res.Intersections, models.IntersectionPoint{
			Point:             best.proj,
			ConnectedTrailIDs: []int64{visitor.trailID, visited.trailID},
			ConnectedNames:    []string{visitor.name, visited.name},
			NodeTypeHint:      hint,
		})
		res.Stats.TYSnaps++

		parts := s.engine.Split(visited.line, best.proj, s.splitTol)
		if len(parts) >= 2 {
			replacement := make([]*workLine, 0, len(work)+1)
			for idx, w := range work {
				if idx == best.visitedIdx {
					for _, part := range parts {
						replacement = append(replacement, &workLine{
							trailID: visited.trailID, name: visited.name, region: visited.region, line: part,
						})
					}
				} else {
					replacement = append(replacement, w)
				}
			}
			work = replacement
		}
	}
}

// collectNearJunctions finds endpoints within splitTol of another line's
// interior that do not already touch it
func (s *Splitter) collectNearJunctions(work []*workLine) []tyCandidate {
	var out []tyCandidate
	for i, visitor := range work {
		for _, atStart := range []bool{true, false} {
			ep := visitor.line.End()
			if atStart {
				ep = visitor.line.Start()
			}
			for j, visited := range work {
				if i == j {
					continue
				}
				proj, dist := s.engine.ClosestPoint(visited.line, ep)
				if dist <= touchEps || dist > s.splitTol {
					continue
				}
				// Projections at the visited line's own endpoints are
				// endpoint clusters for the builder, not T/Y junctions
				if s.engine.Distance(proj, visited.line.Start()) <= s.splitTol ||
					s.engine.Distance(proj, visited.line.End()) <= s.splitTol {
					continue
				}
				out = append(out, tyCandidate{
					visitorIdx: i, atStart: atStart, visitedIdx: j, proj: proj, dist: dist,
				})
			}
		}
	}
	return out
}

// junctionHint classifies a near-junction as T (roughly perpendicular
// approach) or Y (shallow angle) from the bearings at the snap point
func (s *Splitter) junctionHint(visitorLine spatial.Line, atStart bool, visitedLine spatial.Line, proj spatial.Point) string {
	var approach float64
	if atStart {
		approach = spatial.Bearing(visitorLine[1], visitorLine[0])
	} else {
		n := len(visitorLine)
		approach = spatial.Bearing(visitorLine[n-2], visitorLine[n-1])
	}

	_, seg, _ := spatial.ClosestPointOnLine(visitedLine, proj)
	if seg < 0 || seg >= len(visitedLine)-1 {
		return models.HintYIntersection
	}
	along := spatial.Bearing(visitedLine[seg], visitedLine[seg+1])

	angle := spatial.AngleBetweenBearings(approach, along)
	if angle > 90 {
		angle = 180 - angle
	}
	if angle >= 60 {
		return models.HintTIntersection
	}
	return models.HintYIntersection
}

// finalize converts surviving work lines into segments, applying the
// short-segment policy: segments below the minimum length are dropped as
// noise unless they bridge two junctions that would otherwise disconnect.
func (s *Splitter) finalize(work []*workLine, res *SplitResult) {
	keyOf := func(p spatial.Point) [2]float64 {
		snapped := s.engine.SnapToGrid(p, s.splitTol)
		return [2]float64{snapped.Lon, snapped.Lat}
	}

	usage := make(map[[2]float64]int)
	for _, w := range work {
		usage[keyOf(w.line.Start())]++
		usage[keyOf(w.line.End())]++
	}

	keep := make([]*workLine, 0, len(work))
	var short []*workLine
	for _, w := range work {
		if s.engine.Length(w.line) >= s.minSegLen {
			keep = append(keep, w)
		} else {
			short = append(short, w)
		}
	}

	for _, w := range short {
		ks, ke := keyOf(w.line.Start()), keyOf(w.line.End())
		if usage[ks] >= 2 && usage[ke] >= 2 && !connectedWithout(keep, w, keyOf) {
			res.Stats.KeptShort++
			keep = append(keep, w)
			continue
		}
		res.Stats.DroppedShort++
		usage[ks]--
		usage[ke]--
	}

	seq := make(map[int64]int)
	for _, w := range keep {
		gain, loss := spatial.ElevationGainLoss(w.line)
		res.Segments = append(res.Segments, models.TrailSegment{
			TrailID:       w.trailID,
			SeqIndex:      seq[w.trailID],
			Name:          w.name,
			Region:        w.region,
			Geometry:      w.line,
			LengthKm:      s.engine.Length(w.line) / 1000,
			ElevationGain: gain,
			ElevationLoss: loss,
		})
		seq[w.trailID]++
	}
}

// connectedWithout reports whether the endpoints of candidate are already
// connected through the kept segments, i.e. the candidate is not a bridge
func connectedWithout(kept []*workLine, candidate *workLine, keyOf func(spatial.Point) [2]float64) bool {
	start := keyOf(candidate.line.Start())
	goal := keyOf(candidate.line.End())

	adj := make(map[[2]float64][][2]float64)
	for _, w := range kept {
		a, b := keyOf(w.line.Start()), keyOf(w.line.End())
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}

	seen := map[[2]float64]bool{start: true}
	queue := [][2]float64{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goal {
			return true
		}
		for _, nb := range adj[cur] {
			if !seen[nb] {
				seen[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	return false
}

func pairKey(a, b int64) [2]int64 {
	if a > b {
		a, b = b, a
	}
	return [2]int64{a, b}
}
