package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

func sampleTrails() []models.Trail {
	line := spatial.Line{{Lon: 0, Lat: 0, Elev: 100}, {Lon: 0.001, Lat: 0, Elev: 150}}
	return []models.Trail{
		{Name: "Ridge", Region: "cascades", TrailType: "hiking", Difficulty: "hard",
			Geometry: line, LengthKm: 12.5, ElevationGain: 800},
		{Name: "Creek", Region: "cascades", TrailType: "hiking", Difficulty: "easy",
			Geometry: line, LengthKm: 3.2, ElevationGain: 50},
		{Name: "Dune", Region: "coast", TrailType: "biking", Difficulty: "easy",
			Geometry: line, LengthKm: 7.0, ElevationGain: 10},
	}
}

func TestInsertAndGetTrails(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrailRepository(db, "")
	require.NoError(t, repo.InsertTrails(sampleTrails()))

	trails, total, err := repo.GetTrails(models.TrailFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, trails, 3)
	assert.Equal(t, "Ridge", trails[0].Name)
	require.Len(t, trails[0].Geometry, 2)
	assert.InDelta(t, 100, trails[0].Geometry[0].Elev, 1e-9)
}

func TestGetTrails_Filters(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrailRepository(db, "")
	require.NoError(t, repo.InsertTrails(sampleTrails()))

	_, total, err := repo.GetTrails(models.TrailFilter{Region: "cascades"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, total, err = repo.GetTrails(models.TrailFilter{Difficulty: "easy", MinLength: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = repo.GetTrails(models.TrailFilter{MaxLength: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestGetTrails_Pagination(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrailRepository(db, "")
	require.NoError(t, repo.InsertTrails(sampleTrails()))

	page1, total, err := repo.GetTrails(models.TrailFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page1, 2)

	page2, _, err := repo.GetTrails(models.TrailFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}

func TestReplaceSegments(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrailRepository(db, "")

	segs := []models.TrailSegment{
		{TrailID: 1, SeqIndex: 0, Name: "Ridge", Region: "cascades",
			Geometry: spatial.Line{{Lon: 0, Lat: 0}, {Lon: 0.001, Lat: 0}}, LengthKm: 0.111},
		{TrailID: 1, SeqIndex: 1, Name: "Ridge", Region: "cascades",
			Geometry: spatial.Line{{Lon: 0.001, Lat: 0}, {Lon: 0.002, Lat: 0}}, LengthKm: 0.111},
	}
	require.NoError(t, repo.ReplaceSegments(segs))
	require.NoError(t, repo.ReplaceSegments(segs[:1]), "replace clears previous rows")

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM trail_segments").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestGetAllTrails(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrailRepository(db, "")
	require.NoError(t, repo.InsertTrails(sampleTrails()))

	all, err := repo.GetAllTrails()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
