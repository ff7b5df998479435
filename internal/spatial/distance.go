package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters

	// MetersPerDegree is the approximate length of one degree of latitude
	MetersPerDegree = 111320.0
)

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Distance returns the 2D great-circle distance between two points in meters
func Distance(a, b Point) float64 {
	return HaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon)
}

// Distance3D returns the distance between two points accounting for elevation change
func Distance3D(a, b Point) float64 {
	horizontal := Distance(a, b)
	dElev := b.Elev - a.Elev
	return math.Sqrt(horizontal*horizontal + dElev*dElev)
}

// PathLength returns the total 3D length of a line in meters
func PathLength(l Line) float64 {
	if len(l) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(l); i++ {
		total += Distance3D(l[i-1], l[i])
	}
	return total
}

// ElevationGainLoss returns the cumulative elevation gain and loss along a line in meters
func ElevationGainLoss(l Line) (gain, loss float64) {
	for i := 1; i < len(l); i++ {
		d := l[i].Elev - l[i-1].Elev
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	return gain, loss
}

// Midpoint returns the geodesic midpoint of two points; elevation is averaged
func Midpoint(a, b Point) Point {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	mid := s2.LatLngFromPoint(s2.Interpolate(0.5, s2.PointFromLatLng(p1), s2.PointFromLatLng(p2)))
	return Point{
		Lon:  mid.Lng.Degrees(),
		Lat:  mid.Lat.Degrees(),
		Elev: (a.Elev + b.Elev) / 2,
	}
}

// Bearing calculates the initial bearing from a to b in degrees (0-360)
func Bearing(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lonDiff := (b.Lon - a.Lon) * math.Pi / 180

	y := math.Sin(lonDiff) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lonDiff)
	bearing := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}

// AngleBetweenBearings returns the smallest angle between two bearings in degrees (0-180)
func AngleBetweenBearings(b1, b2 float64) float64 {
	d := math.Abs(b1 - b2)
	if d > 180 {
		d = 360 - d
	}
	return d
}
