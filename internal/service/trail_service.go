package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/repository"
	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

// ErrInvalidTrail indicates a trail payload that cannot be ingested
var ErrInvalidTrail = errors.New("invalid trail")

// TrailService handles trail ingestion and querying against the live tables
type TrailService struct {
	repo *repository.TrailRepository
}

// NewTrailService creates a new trail service
func NewTrailService(db *sql.DB) *TrailService {
	return &TrailService{repo: repository.NewTrailRepository(db, "")}
}

// Ingest validates a batch of trails, computes their derived metrics from the
// geometry and stores them. Caller-supplied length and elevation values are
// ignored; geometry is the source of truth.
func (s *TrailService) Ingest(trails []models.Trail) (int, error) {
	if len(trails) == 0 {
		return 0, fmt.Errorf("%w: empty batch", ErrInvalidTrail)
	}
	for i := range trails {
		t := &trails[i]
		if t.Name == "" {
			return 0, fmt.Errorf("%w: trail %d has no name", ErrInvalidTrail, i)
		}
		if t.Region == "" {
			return 0, fmt.Errorf("%w: trail %q has no region", ErrInvalidTrail, t.Name)
		}
		if len(t.Geometry) < 2 {
			return 0, fmt.Errorf("%w: trail %q needs at least 2 points", ErrInvalidTrail, t.Name)
		}
		t.LengthKm = spatial.PathLength(t.Geometry) / 1000
		t.ElevationGain, t.ElevationLoss = spatial.ElevationGainLoss(t.Geometry)
	}
	if err := s.repo.InsertTrails(trails); err != nil {
		return 0, err
	}
	return len(trails), nil
}

// GetTrails retrieves trails with filtering and pagination
func (s *TrailService) GetTrails(filter models.TrailFilter) (*models.TrailsResponse, error) {
	trails, total, err := s.repo.GetTrails(filter)
	if err != nil {
		return nil, err
	}

	page, pageSize, totalPages := paginate(filter.Page, filter.PageSize, total)
	return &models.TrailsResponse{
		Data:       trails,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
