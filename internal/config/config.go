package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
)

// Config holds application and pipeline configuration
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string

	// Splitting tolerances (meters)
	SplitToleranceMeters   float64 // T/Y near-junction snap tolerance
	MinSegmentLengthMeters float64 // segments shorter than this are noise

	// Topology tolerances (meters)
	NodeToleranceMeters             float64 // endpoint clustering grid size
	IntersectionSnapToleranceMeters float64 // known-intersection priority radius (>= node tolerance)

	// Degree-2 merging
	PreserveTrailNames bool // concatenate names instead of keeping the longer edge's
	NameSeparator      string

	// Route generation
	KSPPathsPerPair     int     // k for k-shortest-paths per node pair
	SeedClusterCount    int     // k-means cluster count for seed coverage
	SeedsPerCluster     int     // max sampled seed nodes per cluster
	MinLoopEdgeCount    int     // combined loop must exceed this many edges
	LoopOverlapMaxRatio float64 // max fraction of shared edges between out and return legs
	DistanceBandLow     float64 // accept routes >= low * target distance
	DistanceBandHigh    float64 // accept routes <= high * target distance

	// Similarity score weights, must sum to 1.0
	DistanceWeight  float64
	ElevationWeight float64
	QualityWeight   float64

	// Staging retention: how many old staging datasets to keep per region
	StagingKeepCount int
}

// Load reads configuration from the environment, falling back to defaults
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", ":8080"),
		DBPath:    getEnv("DB_PATH", "./data/trails/trails.db"),
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		SplitToleranceMeters:   getEnvFloat("SPLIT_TOLERANCE_M", 2.0),
		MinSegmentLengthMeters: getEnvFloat("MIN_SEGMENT_LENGTH_M", 5.0),

		NodeToleranceMeters:             getEnvFloat("NODE_TOLERANCE_M", 1.0),
		IntersectionSnapToleranceMeters: getEnvFloat("INTERSECTION_SNAP_TOLERANCE_M", 3.0),

		PreserveTrailNames: getEnvBool("PRESERVE_TRAIL_NAMES", false),
		NameSeparator:      getEnv("TRAIL_NAME_SEPARATOR", " / "),

		KSPPathsPerPair:     getEnvInt("KSP_PATHS_PER_PAIR", 3),
		SeedClusterCount:    getEnvInt("SEED_CLUSTER_COUNT", 5),
		SeedsPerCluster:     getEnvInt("SEEDS_PER_CLUSTER", 10),
		MinLoopEdgeCount:    getEnvInt("MIN_LOOP_EDGE_COUNT", 4),
		LoopOverlapMaxRatio: getEnvFloat("LOOP_OVERLAP_MAX_RATIO", 0.40),
		DistanceBandLow:     getEnvFloat("DISTANCE_BAND_LOW", 0.2),
		DistanceBandHigh:    getEnvFloat("DISTANCE_BAND_HIGH", 4.0),

		DistanceWeight:  getEnvFloat("DISTANCE_WEIGHT", 0.5),
		ElevationWeight: getEnvFloat("ELEVATION_WEIGHT", 0.3),
		QualityWeight:   getEnvFloat("QUALITY_WEIGHT", 0.2),

		StagingKeepCount: getEnvInt("STAGING_KEEP_COUNT", 3),
	}
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if sum := c.DistanceWeight + c.ElevationWeight + c.QualityWeight; math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("score weights must sum to 1.0, got %.4f", sum)
	}
	if c.IntersectionSnapToleranceMeters < c.NodeToleranceMeters {
		return fmt.Errorf("intersection snap tolerance (%.2f) must be >= node tolerance (%.2f)",
			c.IntersectionSnapToleranceMeters, c.NodeToleranceMeters)
	}
	if c.DistanceBandLow <= 0 || c.DistanceBandHigh <= c.DistanceBandLow {
		return fmt.Errorf("invalid distance band [%.2f, %.2f]", c.DistanceBandLow, c.DistanceBandHigh)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
