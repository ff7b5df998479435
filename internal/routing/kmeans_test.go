package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

func TestKMeans_TwoObviousClusters(t *testing.T) {
	points := []spatial.Point{
		{Lon: 0, Lat: 0},
		{Lon: 0.001, Lat: 0.001},
		{Lon: 0.0005, Lat: 0.0005},
		{Lon: 1.0, Lat: 1.0},
		{Lon: 1.001, Lat: 1.001},
		{Lon: 1.0005, Lat: 1.0005},
	}

	res := KMeans(points, 2)
	require.Len(t, res.Assignments, 6)
	require.Len(t, res.Centroids, 2)

	// The two spatial groups must not share a cluster
	assert.Equal(t, res.Assignments[0], res.Assignments[1])
	assert.Equal(t, res.Assignments[0], res.Assignments[2])
	assert.Equal(t, res.Assignments[3], res.Assignments[4])
	assert.Equal(t, res.Assignments[3], res.Assignments[5])
	assert.NotEqual(t, res.Assignments[0], res.Assignments[3])
}

func TestKMeans_Deterministic(t *testing.T) {
	points := []spatial.Point{
		{Lon: 0, Lat: 0}, {Lon: 0.5, Lat: 0.5}, {Lon: 1, Lat: 1},
		{Lon: 0.1, Lat: 0}, {Lon: 0.9, Lat: 1},
	}
	a := KMeans(points, 2)
	b := KMeans(points, 2)
	assert.Equal(t, a.Assignments, b.Assignments)
	assert.Equal(t, a.Centroids, b.Centroids)
}

func TestKMeans_KClampedToPointCount(t *testing.T) {
	points := []spatial.Point{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}}
	res := KMeans(points, 5)
	assert.Len(t, res.Centroids, 2)
}

func TestKMeans_Empty(t *testing.T) {
	res := KMeans(nil, 3)
	assert.Empty(t, res.Assignments)
	assert.Empty(t, res.Centroids)
}
