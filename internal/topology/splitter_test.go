package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailatlas/trailgraph-backend-go/internal/config"
	"github.com/trailatlas/trailgraph-backend-go/internal/geometry"
	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

func testConfig() *config.Config {
	return &config.Config{
		SplitToleranceMeters:            2.0,
		MinSegmentLengthMeters:          5.0,
		NodeToleranceMeters:             1.0,
		IntersectionSnapToleranceMeters: 3.0,
		NameSeparator:                   " / ",
	}
}

func newTestSplitter() *Splitter {
	return NewSplitter(geometry.NewPlanarEngine(), testConfig())
}

func TestSplit_PerpendicularCrossing(t *testing.T) {
	trails := []models.Trail{
		{ID: 1, Name: "East-West", Geometry: spatial.Line{
			{Lon: 0, Lat: 0}, {Lon: 0.002, Lat: 0},
		}},
		{ID: 2, Name: "North-South", Geometry: spatial.Line{
			{Lon: 0.001, Lat: -0.001}, {Lon: 0.001, Lat: 0.001},
		}},
	}

	res := newTestSplitter().Split(trails)

	assert.Equal(t, 1, res.Stats.CrossSplits)
	assert.Len(t, res.Segments, 4, "both trails cut at the crossing")

	require.Len(t, res.Intersections, 1)
	ip := res.Intersections[0]
	assert.InDelta(t, 0.001, ip.Point.Lon, 1e-9)
	assert.InDelta(t, 0.0, ip.Point.Lat, 1e-9)
	assert.Equal(t, models.HintIntersection, ip.NodeTypeHint)
	assert.ElementsMatch(t, []int64{1, 2}, ip.ConnectedTrailIDs)

	for _, s := range res.Segments {
		assert.True(t, spatial.IsSimple(s.Geometry))
		assert.Greater(t, s.LengthKm, 0.0)
	}
}

func TestSplit_TJunctionSnap(t *testing.T) {
	// The vertical trail's endpoint hovers ~1.5m above the horizontal trail
	trails := []models.Trail{
		{ID: 1, Name: "Main", Geometry: spatial.Line{
			{Lon: 0, Lat: 0}, {Lon: 0.002, Lat: 0},
		}},
		{ID: 2, Name: "Spur", Geometry: spatial.Line{
			{Lon: 0.001, Lat: 0.0000135}, {Lon: 0.001, Lat: 0.001},
		}},
	}

	res := newTestSplitter().Split(trails)

	assert.Equal(t, 1, res.Stats.TYSnaps)
	assert.Len(t, res.Segments, 3, "main split in two, spur extended")

	require.Len(t, res.Intersections, 1)
	assert.Equal(t, models.HintTIntersection, res.Intersections[0].NodeTypeHint,
		"perpendicular approach classifies as T")

	// The spur now starts exactly on the main trail
	var spur *models.TrailSegment
	for i := range res.Segments {
		if res.Segments[i].TrailID == 2 {
			spur = &res.Segments[i]
		}
	}
	require.NotNil(t, spur)
	assert.InDelta(t, 0.0, spur.Geometry.Start().Lat, 1e-9)
}

func TestSplit_YJunctionHint(t *testing.T) {
	// Shallow-angle approach onto the main trail
	trails := []models.Trail{
		{ID: 1, Name: "Main", Geometry: spatial.Line{
			{Lon: 0, Lat: 0}, {Lon: 0.002, Lat: 0},
		}},
		{ID: 2, Name: "Fork", Geometry: spatial.Line{
			{Lon: 0.001, Lat: 0.0000135}, {Lon: 0.002, Lat: 0.0003},
		}},
	}

	res := newTestSplitter().Split(trails)

	require.Len(t, res.Intersections, 1)
	assert.Equal(t, models.HintYIntersection, res.Intersections[0].NodeTypeHint)
}

func TestSplit_SelfIntersection(t *testing.T) {
	trails := []models.Trail{
		{ID: 1, Name: "Figure Eight", Geometry: spatial.Line{
			{Lon: 0, Lat: 0},
			{Lon: 0.002, Lat: 0},
			{Lon: 0.002, Lat: 0.001},
			{Lon: 0.001, Lat: 0.001},
			{Lon: 0.001, Lat: -0.001},
		}},
	}

	res := newTestSplitter().Split(trails)

	assert.GreaterOrEqual(t, res.Stats.SelfSplits, 1)
	assert.GreaterOrEqual(t, len(res.Segments), 2)
	for _, s := range res.Segments {
		assert.True(t, spatial.IsSimple(s.Geometry), "all output segments must be simple")
	}
}

func TestSplit_CollinearOverlapIsAnomaly(t *testing.T) {
	trails := []models.Trail{
		{ID: 1, Name: "A", Geometry: spatial.Line{
			{Lon: 0, Lat: 0}, {Lon: 0.002, Lat: 0},
		}},
		{ID: 2, Name: "B", Geometry: spatial.Line{
			{Lon: 0.001, Lat: 0}, {Lon: 0.003, Lat: 0},
		}},
	}

	res := newTestSplitter().Split(trails)

	assert.Equal(t, 1, res.Stats.Anomalies, "reported once per pair")
	assert.Equal(t, 0, res.Stats.CrossSplits)
	assert.Len(t, res.Segments, 2, "overlapping pair passes through unsplit")
}

func TestSplit_CrossingSplitDespiteCollinearOverlap(t *testing.T) {
	// Trail B overlaps A along one stretch and crosses it elsewhere; the
	// overlap must not mask the crossing
	trails := []models.Trail{
		{ID: 1, Name: "A", Geometry: spatial.Line{
			{Lon: 0, Lat: 0}, {Lon: 0.002, Lat: 0},
		}},
		{ID: 2, Name: "B", Geometry: spatial.Line{
			{Lon: 0.0015, Lat: 0},
			{Lon: 0.0025, Lat: 0},
			{Lon: 0.0025, Lat: 0.001},
			{Lon: 0.001, Lat: 0.001},
			{Lon: 0.001, Lat: -0.001},
		}},
	}

	res := newTestSplitter().Split(trails)

	assert.Equal(t, 1, res.Stats.CrossSplits)
	assert.Equal(t, 1, res.Stats.Anomalies, "overlap still reported once per pair")
	require.Len(t, res.Intersections, 1)
	assert.InDelta(t, 0.001, res.Intersections[0].Point.Lon, 1e-9)
	assert.InDelta(t, 0.0, res.Intersections[0].Point.Lat, 1e-9)
	assert.Len(t, res.Segments, 4, "both trails cut at the crossing")
}

func TestSplit_CollinearTouchIsNotAnomaly(t *testing.T) {
	// A straight-line junction: two collinear trails meeting end-to-end
	trails := []models.Trail{
		{ID: 1, Name: "West Half", Geometry: spatial.Line{
			{Lon: 0, Lat: 0}, {Lon: 0.001, Lat: 0},
		}},
		{ID: 2, Name: "East Half", Geometry: spatial.Line{
			{Lon: 0.001, Lat: 0}, {Lon: 0.002, Lat: 0},
		}},
	}

	res := newTestSplitter().Split(trails)

	assert.Equal(t, 0, res.Stats.Anomalies)
	assert.Equal(t, 0, res.Stats.CrossSplits)
	assert.Len(t, res.Segments, 2, "pass through unsplit; the builder joins them at the shared endpoint")
}

func TestSplit_DropsShortNoise(t *testing.T) {
	trails := []models.Trail{
		{ID: 1, Name: "Stub", Geometry: spatial.Line{
			{Lon: 0, Lat: 0}, {Lon: 0.00003, Lat: 0}, // ~3.3m
		}},
	}

	res := newTestSplitter().Split(trails)

	assert.Equal(t, 1, res.Stats.DroppedShort)
	assert.Empty(t, res.Segments)
}

func TestSplit_KeepsShortBridge(t *testing.T) {
	// A ~3.3m connector between two longer trails; dropping it would
	// disconnect them
	trails := []models.Trail{
		{ID: 1, Name: "Left", Geometry: spatial.Line{
			{Lon: 0, Lat: 0}, {Lon: 0.001, Lat: 0},
		}},
		{ID: 2, Name: "Bridge", Geometry: spatial.Line{
			{Lon: 0.001, Lat: 0}, {Lon: 0.00103, Lat: 0},
		}},
		{ID: 3, Name: "Right", Geometry: spatial.Line{
			{Lon: 0.00103, Lat: 0}, {Lon: 0.002, Lat: 0},
		}},
	}

	res := newTestSplitter().Split(trails)

	assert.Equal(t, 1, res.Stats.KeptShort)
	assert.Equal(t, 0, res.Stats.DroppedShort)
	assert.Len(t, res.Segments, 3)
}

func TestSplit_DegenerateTrailSkipped(t *testing.T) {
	trails := []models.Trail{
		{ID: 1, Name: "Point", Geometry: spatial.Line{{Lon: 0, Lat: 0}}},
	}

	res := newTestSplitter().Split(trails)

	assert.Equal(t, 1, res.Stats.Anomalies)
	assert.Empty(t, res.Segments)
}
