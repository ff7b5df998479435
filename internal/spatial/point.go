package spatial

import (
	"encoding/json"
	"fmt"
)

// Point represents a 3D trail coordinate: longitude, latitude, elevation (meters)
type Point struct {
	Lon  float64
	Lat  float64
	Elev float64
}

// MarshalJSON encodes a point as a GeoJSON-style [lng, lat, elevation] array
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{p.Lon, p.Lat, p.Elev})
}

// UnmarshalJSON accepts [lng, lat] or [lng, lat, elevation] arrays
func (p *Point) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}
	if len(coords) < 2 {
		return fmt.Errorf("spatial: coordinate needs at least lng and lat, got %d values", len(coords))
	}
	p.Lon = coords[0]
	p.Lat = coords[1]
	if len(coords) > 2 {
		p.Elev = coords[2]
	}
	return nil
}

// Line is an ordered polyline of 3D points
type Line []Point

// Start returns the first point of the line
func (l Line) Start() Point {
	return l[0]
}

// End returns the last point of the line
func (l Line) End() Point {
	return l[len(l)-1]
}

// Clone returns a deep copy of the line
func (l Line) Clone() Line {
	out := make(Line, len(l))
	copy(out, l)
	return out
}

// Reverse returns a copy of the line with point order reversed
func (l Line) Reverse() Line {
	out := make(Line, len(l))
	for i, p := range l {
		out[len(l)-1-i] = p
	}
	return out
}

// IsClosed reports whether the line starts and ends at the same coordinate
// within the given tolerance in meters
func (l Line) IsClosed(tolMeters float64) bool {
	if len(l) < 3 {
		return false
	}
	return HaversineDistance(l.Start().Lat, l.Start().Lon, l.End().Lat, l.End().Lon) <= tolMeters
}

// SamePoint reports whether two points coincide within tolMeters (2D)
func SamePoint(a, b Point, tolMeters float64) bool {
	return HaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon) <= tolMeters
}
