package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/trailatlas/trailgraph-backend-go/internal/config"
	"github.com/trailatlas/trailgraph-backend-go/internal/geometry"
	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/repository"
	"github.com/trailatlas/trailgraph-backend-go/internal/routing"
)

// ErrInvalidPattern indicates a route pattern that cannot drive generation
var ErrInvalidPattern = errors.New("invalid route pattern")

// RouteService generates route recommendations on demand against the live
// graph and serves previously stored ones
type RouteService struct {
	cfg       *config.Config
	engine    geometry.Engine
	graphRepo *repository.GraphRepository
	routeRepo *repository.RouteRepository
}

// NewRouteService creates a new route service
func NewRouteService(db *sql.DB, cfg *config.Config) *RouteService {
	return &RouteService{
		cfg:       cfg,
		engine:    geometry.NewPlanarEngine(),
		graphRepo: repository.NewGraphRepository(db, ""),
		routeRepo: repository.NewRouteRepository(db, ""),
	}
}

// Recommend loads the live graph and runs route generation for one pattern.
// Results are returned best score first and are not persisted; the pipeline
// owns the stored recommendation set.
func (s *RouteService) Recommend(pattern models.RoutePattern) ([]models.RouteRecommendation, error) {
	if err := validatePattern(pattern); err != nil {
		return nil, err
	}
	net, err := s.graphRepo.LoadNetwork()
	if err != nil {
		return nil, err
	}
	if len(net.Edges) == 0 {
		return nil, fmt.Errorf("%w: live graph", ErrEmptyGraph)
	}
	gen := routing.NewGenerator(net, s.engine, s.cfg)
	return gen.Generate(pattern), nil
}

// GetRoutes retrieves stored route recommendations with filtering and
// pagination
func (s *RouteService) GetRoutes(filter models.RouteFilter) (*models.RoutesResponse, error) {
	recs, total, err := s.routeRepo.GetRecommendations(filter)
	if err != nil {
		return nil, err
	}

	page, pageSize, totalPages := paginate(filter.Page, filter.PageSize, total)
	return &models.RoutesResponse{
		Data:       recs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func validatePattern(p models.RoutePattern) error {
	switch p.Shape {
	case models.ShapeLoop, models.ShapeOutAndBack, models.ShapePointToPoint:
	default:
		return fmt.Errorf("%w: unknown route shape %q", ErrInvalidPattern, p.Shape)
	}
	if p.TargetDistanceKm <= 0 {
		return fmt.Errorf("%w: target distance must be positive, got %.2f", ErrInvalidPattern, p.TargetDistanceKm)
	}
	if p.TargetElevationGain < 0 {
		return fmt.Errorf("%w: target elevation gain must be non-negative, got %.2f", ErrInvalidPattern, p.TargetElevationGain)
	}
	return nil
}
