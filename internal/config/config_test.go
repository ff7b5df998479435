package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAreValid(t *testing.T) {
	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Port)
	assert.InDelta(t, 2.0, cfg.SplitToleranceMeters, 1e-9)
	assert.InDelta(t, 1.0, cfg.NodeToleranceMeters, 1e-9)
	assert.InDelta(t, 3.0, cfg.IntersectionSnapToleranceMeters, 1e-9)
	assert.Equal(t, 3, cfg.KSPPathsPerPair)
	assert.Equal(t, 5, cfg.SeedClusterCount)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SPLIT_TOLERANCE_M", "4.5")
	t.Setenv("SEED_CLUSTER_COUNT", "8")
	t.Setenv("PRESERVE_TRAIL_NAMES", "true")

	cfg := Load()
	assert.InDelta(t, 4.5, cfg.SplitToleranceMeters, 1e-9)
	assert.Equal(t, 8, cfg.SeedClusterCount)
	assert.True(t, cfg.PreserveTrailNames)
}

func TestLoad_MalformedEnvFallsBack(t *testing.T) {
	t.Setenv("SPLIT_TOLERANCE_M", "not-a-number")
	cfg := Load()
	assert.InDelta(t, 2.0, cfg.SplitToleranceMeters, 1e-9)
}

func TestValidate_WeightsMustSumToOne(t *testing.T) {
	cfg := Load()
	cfg.DistanceWeight = 0.5
	cfg.ElevationWeight = 0.5
	cfg.QualityWeight = 0.5
	assert.Error(t, cfg.Validate())
}

func TestValidate_SnapToleranceOrdering(t *testing.T) {
	cfg := Load()
	cfg.NodeToleranceMeters = 5
	cfg.IntersectionSnapToleranceMeters = 3
	assert.Error(t, cfg.Validate())
}

func TestValidate_DistanceBand(t *testing.T) {
	cfg := Load()
	cfg.DistanceBandLow = 2
	cfg.DistanceBandHigh = 1
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.DistanceBandLow = 0
	assert.Error(t, cfg.Validate())
}
