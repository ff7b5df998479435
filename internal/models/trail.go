package models

import (
	"time"

	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

// Trail represents an ingested raw trail polyline. Trails are immutable during
// core processing and are superseded by TrailSegment records after splitting.
type Trail struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Region string `json:"region" db:"region"`

	// Tags
	TrailType  string `json:"trail_type,omitempty" db:"trail_type"` // hiking, biking, ...
	Surface    string `json:"surface,omitempty" db:"surface"`       // dirt, gravel, paved, ...
	Difficulty string `json:"difficulty,omitempty" db:"difficulty"` // easy, moderate, hard

	// Geometry: ordered 3D points (lng, lat, elevation)
	Geometry spatial.Line `json:"geometry" db:"geometry"`

	// Derived metrics
	LengthKm      float64 `json:"length_km" db:"length_km"`
	ElevationGain float64 `json:"elevation_gain" db:"elevation_gain"`
	ElevationLoss float64 `json:"elevation_loss" db:"elevation_loss"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TrailSegment is a simple (non-self-intersecting) polyline produced by
// splitting a Trail at intersection points. Never mutated after creation.
type TrailSegment struct {
	ID       int64 `json:"id" db:"id"`
	TrailID  int64 `json:"trail_id" db:"trail_id"`   // originating trail
	SeqIndex int   `json:"seq_index" db:"seq_index"` // order within the originating trail

	Name   string `json:"name" db:"name"`
	Region string `json:"region" db:"region"`

	Geometry spatial.Line `json:"geometry" db:"geometry"`

	LengthKm      float64 `json:"length_km" db:"length_km"`
	ElevationGain float64 `json:"elevation_gain" db:"elevation_gain"`
	ElevationLoss float64 `json:"elevation_loss" db:"elevation_loss"`
}

// TrailsResponse represents a paginated response of trails
type TrailsResponse struct {
	Data       []Trail `json:"data"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}

// TrailFilter represents filter parameters for querying trails
type TrailFilter struct {
	Region     string  `form:"region"`
	TrailType  string  `form:"trailType"`
	Difficulty string  `form:"difficulty"`
	MinLength  float64 `form:"minLength"` // km
	MaxLength  float64 `form:"maxLength"` // km
	Page       int     `form:"page"`
	PageSize   int     `form:"pageSize"`
}
