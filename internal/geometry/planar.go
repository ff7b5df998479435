package geometry

import (
	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

// PlanarEngine implements Engine with the equirectangular planar math from the
// spatial package. Accurate at region scale, which is the working unit of the
// pipeline.
type PlanarEngine struct{}

// NewPlanarEngine creates the default geometry engine
func NewPlanarEngine() *PlanarEngine {
	return &PlanarEngine{}
}

func (e *PlanarEngine) Intersects(a, b spatial.Line) bool {
	return spatial.Intersects(a, b)
}

func (e *PlanarEngine) Intersection(a, b spatial.Line) IntersectionResult {
	p, kind := spatial.LineIntersection(a, b, true)
	return IntersectionResult{Kind: kind, Point: p}
}

func (e *PlanarEngine) IsSimple(l spatial.Line) bool {
	return spatial.IsSimple(l)
}

func (e *PlanarEngine) SelfIntersection(l spatial.Line) (spatial.Point, bool) {
	return spatial.SelfIntersection(l)
}

func (e *PlanarEngine) Split(l spatial.Line, p spatial.Point, tolMeters float64) []spatial.Line {
	return spatial.SplitAt(l, p, tolMeters)
}

func (e *PlanarEngine) ClosestPoint(l spatial.Line, p spatial.Point) (spatial.Point, float64) {
	proj, _, dist := spatial.ClosestPointOnLine(l, p)
	return proj, dist
}

func (e *PlanarEngine) Distance(a, b spatial.Point) float64 {
	return spatial.Distance(a, b)
}

func (e *PlanarEngine) SnapToGrid(p spatial.Point, gridMeters float64) spatial.Point {
	return spatial.SnapToGrid(p, gridMeters)
}

func (e *PlanarEngine) MergeLines(lines []spatial.Line, tolMeters float64) (spatial.Line, error) {
	return spatial.MergeLines(lines, tolMeters)
}

func (e *PlanarEngine) Length(l spatial.Line) float64 {
	return spatial.PathLength(l)
}
