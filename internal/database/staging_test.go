package database_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/trailatlas/trailgraph-backend-go/internal/database"
	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/repository"
	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// One shared in-memory database per test
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleTrail(name, region string) models.Trail {
	return models.Trail{
		Name:   name,
		Region: region,
		Geometry: spatial.Line{
			{Lon: 0, Lat: 0, Elev: 100},
			{Lon: 0.001, Lat: 0, Elev: 120},
		},
		LengthKm: 0.111,
	}
}

func TestStagingLifecycle(t *testing.T) {
	db := openTestDB(t)
	mgr := database.NewStagingManager(db)
	require.NoError(t, mgr.EnsureLiveSchema())

	repo := repository.NewTrailRepository(db, "")
	require.NoError(t, repo.InsertTrails([]models.Trail{
		sampleTrail("Ridge", "cascades"),
		sampleTrail("Creek", "cascades"),
		sampleTrail("Dune", "coast"),
	}))

	prefix, err := mgr.Provision("cascades")
	require.NoError(t, err)
	assert.Contains(t, prefix, "staging_cascades_")

	copied, err := mgr.CopyRegionTrails(prefix, "cascades")
	require.NoError(t, err)
	assert.EqualValues(t, 2, copied, "only the region's trails are copied")

	// Staging writes stay invisible to the live tables until promotion
	stagingRepo := repository.NewTrailRepository(db, prefix)
	require.NoError(t, stagingRepo.InsertTrails([]models.Trail{sampleTrail("New", "cascades")}))

	live, total, err := repo.GetTrails(models.TrailFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, live, 3)

	require.NoError(t, mgr.Promote(prefix))

	_, total, err = repo.GetTrails(models.TrailFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total, "2 copied + 1 staged replace the live set")

	datasets, err := mgr.ListDatasets("cascades")
	require.NoError(t, err)
	assert.Len(t, datasets, 1)

	dropped, err := mgr.CleanupOld("cascades", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	datasets, err = mgr.ListDatasets("cascades")
	require.NoError(t, err)
	assert.Empty(t, datasets)
}

func TestProvision_RejectsBadRegionName(t *testing.T) {
	db := openTestDB(t)
	mgr := database.NewStagingManager(db)

	_, err := mgr.Provision("Bad Region; DROP TABLE")
	assert.Error(t, err)
	_, err = mgr.Provision("UPPER")
	assert.Error(t, err)
	_, err = mgr.Provision("")
	assert.Error(t, err)
}

func TestCleanupOld_KeepsNewest(t *testing.T) {
	db := openTestDB(t)
	mgr := database.NewStagingManager(db)
	require.NoError(t, mgr.EnsureLiveSchema())

	// Same-second provisions share a prefix; fake two distinct datasets
	for _, prefix := range []string{"staging_alps_100_", "staging_alps_200_"} {
		_, err := db.Exec("CREATE TABLE IF NOT EXISTS " + prefix + "trails (id INTEGER)")
		require.NoError(t, err)
	}

	dropped, err := mgr.CleanupOld("alps", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	datasets, err := mgr.ListDatasets("alps")
	require.NoError(t, err)
	require.Len(t, datasets, 1)
	assert.Equal(t, "staging_alps_200_", datasets[0], "oldest dataset dropped first")
}
