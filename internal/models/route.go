package models

import (
	"time"

	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

// RoutePattern is a target specification for route generation. Supplied by the
// caller; read-only during generation.
type RoutePattern struct {
	Name                string  `json:"name" form:"name"`
	Shape               string  `json:"shape" form:"shape" binding:"required"`
	TargetDistanceKm    float64 `json:"target_distance_km" form:"targetDistanceKm" binding:"required"`
	TargetElevationGain float64 `json:"target_elevation_gain" form:"targetElevationGain"`
	TolerancePercent    float64 `json:"tolerance_percent" form:"tolerancePercent"`
}

// Route shape constants
const (
	ShapeLoop         = "loop"
	ShapeOutAndBack   = "out_and_back"
	ShapePointToPoint = "point_to_point"
)

// RouteRecommendation is an output record produced by the route generator.
// Never mutated after creation.
type RouteRecommendation struct {
	ID        int64  `json:"id" db:"id"`
	RouteUUID string `json:"route_uuid" db:"route_uuid"`
	RouteName string `json:"route_name" db:"route_name"` // trail-name composition

	RouteShape      string  `json:"route_shape" db:"route_shape"`
	ShapeConfidence float64 `json:"shape_confidence" db:"shape_confidence"`

	// Requested targets
	InputDistanceKm    float64 `json:"input_target_distance_km" db:"input_distance_km"`
	InputElevationGain float64 `json:"input_target_elevation_gain" db:"input_elevation_gain"`

	// Actuals
	RecommendedDistanceKm    float64 `json:"recommended_distance_km" db:"recommended_distance_km"`
	RecommendedElevationGain float64 `json:"recommended_elevation_gain" db:"recommended_elevation_gain"`

	// Ordered edge composition
	EdgeIDs    []int64  `json:"edge_ids" db:"edge_ids"`
	TrailNames []string `json:"trail_names" db:"trail_names"`
	TrailCount int      `json:"trail_count" db:"trail_count"`

	Score           float64 `json:"route_score" db:"route_score"`
	SimilarityScore float64 `json:"similarity_score" db:"similarity_score"`

	// Union of constituent edge geometries; empty if union failed
	Geometry spatial.Line `json:"geometry" db:"geometry"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RoutesResponse represents a paginated response of route recommendations
type RoutesResponse struct {
	Data       []RouteRecommendation `json:"data"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
}

// RouteFilter represents filter parameters for querying route recommendations
type RouteFilter struct {
	Shape    string  `form:"shape"`
	MinScore float64 `form:"minScore"`
	Page     int     `form:"page"`
	PageSize int     `form:"pageSize"`
}
