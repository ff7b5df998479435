package spatial

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineDistance(t *testing.T) {
	// One degree of latitude is roughly 111.2 km
	d := HaversineDistance(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 200)

	assert.Zero(t, HaversineDistance(45, 45, 45, 45))
}

func TestPathLength_IncludesElevation(t *testing.T) {
	flat := Line{{Lon: 0, Lat: 0, Elev: 0}, {Lon: 0.001, Lat: 0, Elev: 0}}
	climbing := Line{{Lon: 0, Lat: 0, Elev: 0}, {Lon: 0.001, Lat: 0, Elev: 50}}

	flatLen := PathLength(flat)
	climbLen := PathLength(climbing)
	assert.Greater(t, climbLen, flatLen)
	// 3D length is the hypotenuse of horizontal and vertical
	assert.InDelta(t, 122.3, climbLen, 1.0)

	assert.Zero(t, PathLength(Line{{Lon: 0, Lat: 0}}))
}

func TestElevationGainLoss(t *testing.T) {
	l := Line{
		{Elev: 100},
		{Elev: 150},
		{Elev: 120},
		{Elev: 180},
	}
	gain, loss := ElevationGainLoss(l)
	assert.InDelta(t, 110, gain, 1e-9)
	assert.InDelta(t, 30, loss, 1e-9)
}

func TestBearing(t *testing.T) {
	north := Bearing(Point{Lon: 0, Lat: 0}, Point{Lon: 0, Lat: 1})
	east := Bearing(Point{Lon: 0, Lat: 0}, Point{Lon: 1, Lat: 0})
	assert.InDelta(t, 0, north, 0.01)
	assert.InDelta(t, 90, east, 0.01)
}

func TestAngleBetweenBearings(t *testing.T) {
	assert.InDelta(t, 90, AngleBetweenBearings(0, 90), 1e-9)
	assert.InDelta(t, 20, AngleBetweenBearings(350, 10), 1e-9, "wraps around north")
	assert.InDelta(t, 180, AngleBetweenBearings(0, 180), 1e-9)
}

func TestMidpoint(t *testing.T) {
	mid := Midpoint(Point{Lon: 0, Lat: 0, Elev: 100}, Point{Lon: 0.002, Lat: 0, Elev: 200})
	assert.InDelta(t, 0.001, mid.Lon, 1e-6)
	assert.InDelta(t, 150, mid.Elev, 1e-9)
}

func TestPointJSON(t *testing.T) {
	p := Point{Lon: -120.5, Lat: 39.1, Elev: 2100}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, "[-120.5, 39.1, 2100]", string(data))

	var back Point
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)

	// 2D coordinates are accepted with zero elevation
	var flat Point
	require.NoError(t, json.Unmarshal([]byte("[-120.5, 39.1]"), &flat))
	assert.Zero(t, flat.Elev)

	assert.Error(t, json.Unmarshal([]byte("[1]"), &flat))
}

func TestLineReverse(t *testing.T) {
	l := Line{{Lon: 0}, {Lon: 1}, {Lon: 2}}
	r := l.Reverse()
	assert.Equal(t, 2.0, r.Start().Lon)
	assert.Equal(t, 0.0, r.End().Lon)
	// Original untouched
	assert.Equal(t, 0.0, l.Start().Lon)
}
