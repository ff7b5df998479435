package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

func sampleRecommendations() []models.RouteRecommendation {
	geom := spatial.Line{{Lon: 0, Lat: 0, Elev: 100}, {Lon: 0.001, Lat: 0, Elev: 120}}
	return []models.RouteRecommendation{
		{RouteUUID: "uuid-a", RouteName: "Ridge Loop", RouteShape: models.ShapeLoop,
			ShapeConfidence: 0.95, InputDistanceKm: 5, RecommendedDistanceKm: 5.2,
			EdgeIDs: []int64{1, 2, 3}, TrailNames: []string{"Ridge"}, TrailCount: 1,
			Score: 0.91, SimilarityScore: 0.96, Geometry: geom},
		{RouteUUID: "uuid-b", RouteName: "Creek Out and Back", RouteShape: models.ShapeOutAndBack,
			ShapeConfidence: 0.90, InputDistanceKm: 5, RecommendedDistanceKm: 4.1,
			EdgeIDs: []int64{4, 5}, TrailNames: []string{"Creek"}, TrailCount: 1,
			Score: 0.97, SimilarityScore: 0.82, Geometry: geom},
	}
}

func TestInsertAndGetRecommendations(t *testing.T) {
	db := openTestDB(t)
	repo := NewRouteRepository(db, "")
	require.NoError(t, repo.InsertRecommendations(sampleRecommendations()))

	recs, total, err := repo.GetRecommendations(models.RouteFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, recs, 2)

	// Best score first
	assert.Equal(t, "uuid-b", recs[0].RouteUUID)
	assert.Equal(t, "uuid-a", recs[1].RouteUUID)

	assert.Equal(t, []int64{4, 5}, recs[0].EdgeIDs)
	assert.Equal(t, []string{"Creek"}, recs[0].TrailNames)
	require.Len(t, recs[0].Geometry, 2)
	assert.InDelta(t, 120, recs[0].Geometry[1].Elev, 1e-9)
}

func TestGetRecommendations_Filters(t *testing.T) {
	db := openTestDB(t)
	repo := NewRouteRepository(db, "")
	require.NoError(t, repo.InsertRecommendations(sampleRecommendations()))

	recs, total, err := repo.GetRecommendations(models.RouteFilter{Shape: models.ShapeLoop})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, recs, 1)
	assert.Equal(t, "uuid-a", recs[0].RouteUUID)

	_, total, err = repo.GetRecommendations(models.RouteFilter{MinScore: 0.95})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestInsertRecommendations_DuplicateUUID(t *testing.T) {
	db := openTestDB(t)
	repo := NewRouteRepository(db, "")

	recs := sampleRecommendations()
	require.NoError(t, repo.InsertRecommendations(recs))
	assert.Error(t, repo.InsertRecommendations(recs[:1]), "route_uuid is unique")
}

func TestClearRecommendations(t *testing.T) {
	db := openTestDB(t)
	repo := NewRouteRepository(db, "")
	require.NoError(t, repo.InsertRecommendations(sampleRecommendations()))
	require.NoError(t, repo.ClearRecommendations())

	_, total, err := repo.GetRecommendations(models.RouteFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}
