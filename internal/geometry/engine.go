// Package geometry defines the geometry engine capability set consumed by the
// topology and routing stages. The engine is injected so tests can substitute
// a deterministic fake implementing only these primitives.
package geometry

import (
	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

// IntersectionResult is the outcome of an intersection query
type IntersectionResult struct {
	Kind  spatial.IntersectKind
	Point spatial.Point
}

// Engine is the set of exact 2D/3D line operations the pipeline depends on.
// All operations are synchronous and deterministic for given tolerances.
type Engine interface {
	// Intersects reports whether two lines share at least one point
	Intersects(a, b spatial.Line) bool

	// Intersection returns the first crossing of two lines. Kind
	// IntersectCollinear means an overlapping collinear stretch was found,
	// which callers must treat as a geometry anomaly.
	Intersection(a, b spatial.Line) IntersectionResult

	// IsSimple reports whether a line has no interior self-crossings
	IsSimple(l spatial.Line) bool

	// SelfIntersection returns the first interior self-crossing of a line
	SelfIntersection(l spatial.Line) (spatial.Point, bool)

	// Split cuts a line at a point lying on it (within tolerance). A cut at
	// an endpoint returns the line unsplit.
	Split(l spatial.Line, p spatial.Point, tolMeters float64) []spatial.Line

	// ClosestPoint projects p onto l, returning the projection and its 2D
	// distance from p in meters
	ClosestPoint(l spatial.Line, p spatial.Point) (spatial.Point, float64)

	// Distance returns the 2D distance between two points in meters
	Distance(a, b spatial.Point) float64

	// SnapToGrid quantizes a point onto a grid of the given size in meters
	SnapToGrid(p spatial.Point, gridMeters float64) spatial.Point

	// MergeLines chains lines sharing endpoints into one continuous line
	MergeLines(lines []spatial.Line, tolMeters float64) (spatial.Line, error)

	// Length returns the 3D length of a line in meters
	Length(l spatial.Line) float64
}
