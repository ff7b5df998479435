package spatial

import (
	"errors"
	"math"
)

// IntersectKind describes the result of a segment or line intersection test
type IntersectKind int

const (
	IntersectNone IntersectKind = iota
	IntersectPoint
	IntersectCollinear // overlapping collinear segments: anomaly, not a point crossing
)

// coincidentEps is the planar epsilon (in meters) below which two coordinates
// are considered the same point during intersection math
const coincidentEps = 1e-3

// ErrUnmergeable indicates lines could not be chained into one continuous line
var ErrUnmergeable = errors.New("spatial: lines do not share endpoints and cannot be merged")

// project converts a point into local planar meters relative to a reference point.
// Valid for region-scale geometry where the equirectangular approximation holds.
func project(p, ref Point) (x, y float64) {
	latRad := ref.Lat * math.Pi / 180
	x = (p.Lon - ref.Lon) * MetersPerDegree * math.Cos(latRad)
	y = (p.Lat - ref.Lat) * MetersPerDegree
	return x, y
}

// SegmentIntersection computes the intersection of segments a1-a2 and b1-b2.
// Returns the intersection point (elevation interpolated along a) and its kind.
// Touches at shared endpoints count as IntersectPoint; callers that only care
// about interior crossings must check the returned parameters.
func SegmentIntersection(a1, a2, b1, b2 Point) (Point, float64, float64, IntersectKind) {
	ref := a1
	ax1, ay1 := project(a1, ref)
	ax2, ay2 := project(a2, ref)
	bx1, by1 := project(b1, ref)
	bx2, by2 := project(b2, ref)

	rx, ry := ax2-ax1, ay2-ay1
	sx, sy := bx2-bx1, by2-by1

	denom := rx*sy - ry*sx
	qpx, qpy := bx1-ax1, by1-ay1

	if math.Abs(denom) < 1e-12 {
		// Parallel. Only a collinear overlap of positive length is an
		// anomaly; disjoint or endpoint-touching collinear segments do not
		// intersect.
		if math.Abs(qpx*ry-qpy*rx) >= coincidentEps {
			return Point{}, 0, 0, IntersectNone
		}
		rLen2 := rx*rx + ry*ry
		if rLen2 < 1e-12 {
			return Point{}, 0, 0, IntersectNone
		}
		t0 := (qpx*rx + qpy*ry) / rLen2
		t1 := ((bx2-ax1)*rx + (by2-ay1)*ry) / rLen2
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		lo, hi := math.Max(t0, 0), math.Min(t1, 1)
		if (hi-lo)*math.Sqrt(rLen2) > coincidentEps {
			return Point{}, 0, 0, IntersectCollinear
		}
		return Point{}, 0, 0, IntersectNone
	}

	t := (qpx*sy - qpy*sx) / denom
	u := (qpx*ry - qpy*rx) / denom

	if t < -1e-9 || t > 1+1e-9 || u < -1e-9 || u > 1+1e-9 {
		return Point{}, 0, 0, IntersectNone
	}

	p := Point{
		Lon:  a1.Lon + t*(a2.Lon-a1.Lon),
		Lat:  a1.Lat + t*(a2.Lat-a1.Lat),
		Elev: a1.Elev + t*(a2.Elev-a1.Elev),
	}
	return p, t, u, IntersectPoint
}

// LineIntersection finds the first point where two lines cross.
// interiorOnly restricts the search to crossings that are interior to at
// least one of the two lines (shared endpoints are not crossings).
// A point crossing wins over a collinear overlap elsewhere on the pair;
// IntersectCollinear is returned only when no point crossing exists.
func LineIntersection(a, b Line, interiorOnly bool) (Point, IntersectKind) {
	sawCollinear := false
	for i := 0; i < len(a)-1; i++ {
		for j := 0; j < len(b)-1; j++ {
			p, t, u, kind := SegmentIntersection(a[i], a[i+1], b[j], b[j+1])
			if kind == IntersectCollinear {
				sawCollinear = true
				continue
			}
			if kind != IntersectPoint {
				continue
			}
			if interiorOnly {
				atAEnd := (i == 0 && t < 1e-9) || (i == len(a)-2 && t > 1-1e-9)
				atBEnd := (j == 0 && u < 1e-9) || (j == len(b)-2 && u > 1-1e-9)
				if atAEnd && atBEnd {
					continue
				}
			}
			return p, IntersectPoint
		}
	}
	if sawCollinear {
		return Point{}, IntersectCollinear
	}
	return Point{}, IntersectNone
}

// Intersects reports whether two lines share at least one point
func Intersects(a, b Line) bool {
	_, kind := LineIntersection(a, b, false)
	return kind != IntersectNone
}

// SelfIntersection finds the first interior self-crossing of a line.
// A closed ring (start == end) is not a self-intersection.
func SelfIntersection(l Line) (Point, bool) {
	n := len(l)
	for i := 0; i < n-1; i++ {
		for j := i + 2; j < n-1; j++ {
			// The first and last segments of a closed ring share an endpoint.
			if i == 0 && j == n-2 && SamePoint(l[0], l[n-1], coincidentEps) {
				continue
			}
			p, _, _, kind := SegmentIntersection(l[i], l[i+1], l[j], l[j+1])
			if kind == IntersectPoint {
				return p, true
			}
		}
	}
	return Point{}, false
}

// IsSimple reports whether a line has no interior self-crossings.
// Closed rings are simple if their only shared point is the start/end.
func IsSimple(l Line) bool {
	if len(l) < 3 {
		return true
	}
	_, found := SelfIntersection(l)
	return !found
}

// ClosestPointOnSegment projects p onto segment a-b, returning the projected
// point (elevation interpolated), the clamped parameter t, and the 2D
// distance from p to the projection in meters.
func ClosestPointOnSegment(p, a, b Point) (Point, float64, float64) {
	ref := a
	px, py := project(p, ref)
	bx, by := project(b, ref)

	segLen2 := bx*bx + by*by
	var t float64
	if segLen2 > 0 {
		t = (px*bx + py*by) / segLen2
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	proj := Point{
		Lon:  a.Lon + t*(b.Lon-a.Lon),
		Lat:  a.Lat + t*(b.Lat-a.Lat),
		Elev: a.Elev + t*(b.Elev-a.Elev),
	}
	return proj, t, Distance(p, proj)
}

// ClosestPointOnLine returns the closest point of l to p, the index of the
// segment it lies on, and the 2D distance in meters.
func ClosestPointOnLine(l Line, p Point) (Point, int, float64) {
	best := Point{}
	bestSeg := -1
	bestDist := math.Inf(1)
	for i := 0; i < len(l)-1; i++ {
		proj, _, d := ClosestPointOnSegment(p, l[i], l[i+1])
		if d < bestDist {
			best, bestSeg, bestDist = proj, i, d
		}
	}
	return best, bestSeg, bestDist
}

// SnapToGrid quantizes a point onto a grid of the given size in meters.
// Elevation is preserved.
func SnapToGrid(p Point, gridMeters float64) Point {
	if gridMeters <= 0 {
		return p
	}
	latStep := gridMeters / MetersPerDegree
	lat := math.Round(p.Lat/latStep) * latStep
	// Derive the longitude step from the snapped latitude so points in the
	// same cell quantize to the identical coordinate regardless of their
	// exact latitude, and re-snapping is a no-op.
	lonStep := gridMeters / (MetersPerDegree * math.Cos(lat*math.Pi/180))
	return Point{
		Lon:  math.Round(p.Lon/lonStep) * lonStep,
		Lat:  lat,
		Elev: p.Elev,
	}
}

// SplitAt cuts a line at the given point, which must lie on (or within
// tolMeters of) the line. Returns the two halves sharing the cut point as a
// vertex. Occurrences of the point at the line's own endpoints are ignored:
// a line that starts at p and passes through it again is cut at the later
// occurrence, and a line that only touches p at an endpoint is returned
// unsplit.
func SplitAt(l Line, p Point, tolMeters float64) []Line {
	if len(l) < 2 {
		return []Line{l}
	}

	seg := -1
	var cut Point
	bestDist := math.Inf(1)
	for i := 0; i < len(l)-1; i++ {
		proj, _, d := ClosestPointOnSegment(p, l[i], l[i+1])
		if d > tolMeters || d >= bestDist {
			continue
		}
		if i == 0 && SamePoint(proj, l.Start(), coincidentEps) {
			continue
		}
		if i == len(l)-2 && SamePoint(proj, l.End(), coincidentEps) {
			continue
		}
		seg, cut, bestDist = i, proj, d
	}
	if seg < 0 {
		return []Line{l}
	}

	// Snap to an existing interior vertex if the cut lands on one
	for i := 1; i < len(l)-1; i++ {
		if SamePoint(cut, l[i], coincidentEps) {
			first := l[:i+1].Clone()
			second := l[i:].Clone()
			return []Line{first, second}
		}
	}

	first := make(Line, 0, seg+2)
	first = append(first, l[:seg+1]...)
	first = append(first, cut)

	second := make(Line, 0, len(l)-seg)
	second = append(second, cut)
	second = append(second, l[seg+1:]...)

	return []Line{first, second}
}

// MergeLines chains lines that share endpoints into a single continuous line.
// Lines are reversed as needed. Returns ErrUnmergeable if any line cannot be
// attached to the growing chain.
func MergeLines(lines []Line, tolMeters float64) (Line, error) {
	if len(lines) == 0 {
		return nil, ErrUnmergeable
	}
	merged := lines[0].Clone()
	remaining := make([]Line, len(lines)-1)
	copy(remaining, lines[1:])

	for len(remaining) > 0 {
		attached := false
		for i, cand := range remaining {
			next, ok := attach(merged, cand, tolMeters)
			if ok {
				merged = next
				remaining = append(remaining[:i], remaining[i+1:]...)
				attached = true
				break
			}
		}
		if !attached {
			return nil, ErrUnmergeable
		}
	}
	return merged, nil
}

// attach joins cand onto chain at either end, reversing cand if needed
func attach(chain, cand Line, tolMeters float64) (Line, bool) {
	switch {
	case SamePoint(chain.End(), cand.Start(), tolMeters):
		return append(chain, cand[1:]...), true
	case SamePoint(chain.End(), cand.End(), tolMeters):
		return append(chain, cand.Reverse()[1:]...), true
	case SamePoint(chain.Start(), cand.End(), tolMeters):
		return append(cand.Clone(), chain[1:]...), true
	case SamePoint(chain.Start(), cand.Start(), tolMeters):
		return append(cand.Reverse(), chain[1:]...), true
	}
	return nil, false
}
