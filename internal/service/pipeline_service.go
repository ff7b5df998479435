package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/trailatlas/trailgraph-backend-go/internal/config"
	"github.com/trailatlas/trailgraph-backend-go/internal/database"
	"github.com/trailatlas/trailgraph-backend-go/internal/geometry"
	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/repository"
	"github.com/trailatlas/trailgraph-backend-go/internal/routing"
	"github.com/trailatlas/trailgraph-backend-go/internal/topology"
)

// Validation failures the caller must surface explicitly
var (
	// ErrNoTrails means the region has no usable trail input
	ErrNoTrails = errors.New("pipeline: no trails in region")

	// ErrEmptyGraph means topology construction yielded zero edges
	ErrEmptyGraph = errors.New("pipeline: topology construction produced an empty graph")
)

// StagingRun is the explicit context object for one pipeline execution over
// an isolated working dataset. It carries the configuration snapshot and the
// per-stage counters that accumulate as stages complete.
type StagingRun struct {
	Region    string               `json:"region"`
	Prefix    string               `json:"staging_prefix"`
	StartedAt time.Time            `json:"started_at"`
	Split     topology.SplitStats  `json:"split"`
	Build     topology.BuildStats  `json:"build"`
	Merge     topology.MergeStats  `json:"merge"`

	TrailCount      int `json:"trail_count"`
	SegmentCount    int `json:"segment_count"`
	NodeCount       int `json:"node_count"`
	EdgeCount       int `json:"edge_count"`
	RoutesGenerated int `json:"routes_generated"`

	DurationSeconds float64 `json:"duration_seconds"`
}

// PipelineService runs the staged batch process for one region:
// split -> build topology -> merge degree-2 -> generate routes.
// Stages run strictly in sequence; node/edge mutation is serialized per
// working dataset.
type PipelineService struct {
	db      *sql.DB
	cfg     *config.Config
	engine  geometry.Engine
	staging *database.StagingManager
}

// NewPipelineService creates a pipeline service with the default geometry
// engine
func NewPipelineService(db *sql.DB, cfg *config.Config) *PipelineService {
	return &PipelineService{
		db:      db,
		cfg:     cfg,
		engine:  geometry.NewPlanarEngine(),
		staging: database.NewStagingManager(db),
	}
}

// Run executes the full pipeline for a region against a fresh staging
// dataset, promotes the result to the live tables on success, and enforces
// staging retention. Patterns drive route generation; an empty pattern list
// skips the generation stage.
func (s *PipelineService) Run(region string, patterns []models.RoutePattern) (*StagingRun, error) {
	run := &StagingRun{Region: region, StartedAt: time.Now()}

	prefix, err := s.staging.Provision(region)
	if err != nil {
		return nil, err
	}
	run.Prefix = prefix

	copied, err := s.staging.CopyRegionTrails(prefix, region)
	if err != nil {
		return nil, err
	}
	if copied == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTrails, region)
	}

	trailRepo := repository.NewTrailRepository(s.db, prefix)
	graphRepo := repository.NewGraphRepository(s.db, prefix)
	routeRepo := repository.NewRouteRepository(s.db, prefix)

	trails, err := trailRepo.GetAllTrails()
	if err != nil {
		return nil, err
	}
	run.TrailCount = len(trails)

	// Stage 1: intersection detection and splitting
	splitter := topology.NewSplitter(s.engine, s.cfg)
	splitRes := splitter.Split(trails)
	run.Split = splitRes.Stats
	run.SegmentCount = len(splitRes.Segments)
	log.Printf("pipeline[%s]: split %d trails into %d segments (%d crossings, %d self, %d T/Y snaps, %d anomalies)",
		region, len(trails), len(splitRes.Segments),
		splitRes.Stats.CrossSplits, splitRes.Stats.SelfSplits, splitRes.Stats.TYSnaps, splitRes.Stats.Anomalies)

	if err := trailRepo.ReplaceSegments(splitRes.Segments); err != nil {
		return nil, err
	}
	if err := graphRepo.ReplaceIntersections(splitRes.Intersections); err != nil {
		return nil, err
	}

	// Stage 2: topology construction
	strategy, err := topology.NewBuildStrategy("gridsnap", s.engine, s.cfg)
	if err != nil {
		return nil, err
	}
	net, buildStats, err := strategy.Build(splitRes.Segments, splitRes.Intersections)
	if err != nil {
		return nil, err
	}
	run.Build = *buildStats
	if len(net.Edges) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyGraph, region)
	}
	log.Printf("pipeline[%s]: built %d nodes, %d edges (%d clusters, %d degenerate discarded)",
		region, len(net.Nodes), len(net.Edges), buildStats.Clusters, buildStats.DegenerateEdges)

	// Stage 3: degree-2 merging
	merger := topology.NewMerger(s.engine, s.cfg)
	mergeStats := merger.Merge(net)
	run.Merge = *mergeStats
	run.NodeCount = len(net.Nodes)
	run.EdgeCount = len(net.Edges)
	log.Printf("pipeline[%s]: merged %d degree-2 vertices (%d skipped), %d nodes / %d edges remain",
		region, mergeStats.Merged, mergeStats.Skipped, len(net.Nodes), len(net.Edges))

	if err := graphRepo.ReplaceNetwork(net); err != nil {
		return nil, err
	}

	// Stage 4: route generation
	if len(patterns) > 0 {
		gen := routing.NewGenerator(net, s.engine, s.cfg)
		var all []models.RouteRecommendation
		for _, p := range patterns {
			recs := gen.Generate(p)
			log.Printf("pipeline[%s]: pattern %q (%s, %.1f km) produced %d candidates",
				region, p.Name, p.Shape, p.TargetDistanceKm, len(recs))
			all = append(all, recs...)
		}
		if len(all) > 0 {
			if err := routeRepo.InsertRecommendations(all); err != nil {
				return nil, err
			}
		}
		run.RoutesGenerated = len(all)
	}

	if err := s.staging.Promote(prefix); err != nil {
		return nil, err
	}
	if _, err := s.staging.CleanupOld(region, s.cfg.StagingKeepCount); err != nil {
		log.Printf("pipeline[%s]: staging cleanup failed: %v", region, err)
	}

	run.DurationSeconds = time.Since(run.StartedAt).Seconds()
	return run, nil
}
