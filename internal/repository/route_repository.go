package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trailatlas/trailgraph-backend-go/internal/models"
)

// RouteRepository handles database operations for route recommendations
type RouteRepository struct {
	db     *sql.DB
	prefix string
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db *sql.DB, prefix string) *RouteRepository {
	return &RouteRepository{db: db, prefix: prefix}
}

// InsertRecommendations bulk-inserts generated routes
func (r *RouteRepository) InsertRecommendations(recs []models.RouteRecommendation) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %sroute_recommendations
		(route_uuid, route_name, route_shape, shape_confidence,
		 input_distance_km, input_elevation_gain,
		 recommended_distance_km, recommended_elevation_gain,
		 edge_ids, trail_names, trail_count, route_score, similarity_score, geometry)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.prefix))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare route insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		edgeIDs, err := json.Marshal(rec.EdgeIDs)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to encode edge ids: %w", err)
		}
		names, err := json.Marshal(rec.TrailNames)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to encode trail names: %w", err)
		}
		geom, err := json.Marshal(rec.Geometry)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to encode route geometry: %w", err)
		}
		if _, err := stmt.Exec(rec.RouteUUID, rec.RouteName, rec.RouteShape, rec.ShapeConfidence,
			rec.InputDistanceKm, rec.InputElevationGain,
			rec.RecommendedDistanceKm, rec.RecommendedElevationGain,
			string(edgeIDs), string(names), rec.TrailCount,
			rec.Score, rec.SimilarityScore, string(geom)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert route %s: %w", rec.RouteUUID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit route insert: %w", err)
	}
	return nil
}

// GetRecommendations retrieves routes with filtering and pagination, best
// score first
func (r *RouteRepository) GetRecommendations(filter models.RouteFilter) ([]models.RouteRecommendation, int64, error) {
	query := fmt.Sprintf(`SELECT id, route_uuid, route_name, route_shape, shape_confidence,
		input_distance_km, input_elevation_gain,
		recommended_distance_km, recommended_elevation_gain,
		edge_ids, trail_names, trail_count, route_score, similarity_score, geometry, created_at
		FROM %sroute_recommendations`, r.prefix)

	var conditions []string
	var args []interface{}
	if filter.Shape != "" {
		conditions = append(conditions, "route_shape = ?")
		args = append(args, filter.Shape)
	}
	if filter.MinScore > 0 {
		conditions = append(conditions, "route_score >= ?")
		args = append(args, filter.MinScore)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %sroute_recommendations", r.prefix)
	if len(conditions) > 0 {
		countQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	var total int64
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count routes: %w", err)
	}

	page, pageSize := clampPage(filter.Page, filter.PageSize)
	query += " ORDER BY route_score DESC LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var recs []models.RouteRecommendation
	for rows.Next() {
		var rec models.RouteRecommendation
		var edgeIDs, names, geom string
		if err := rows.Scan(&rec.ID, &rec.RouteUUID, &rec.RouteName, &rec.RouteShape, &rec.ShapeConfidence,
			&rec.InputDistanceKm, &rec.InputElevationGain,
			&rec.RecommendedDistanceKm, &rec.RecommendedElevationGain,
			&edgeIDs, &names, &rec.TrailCount, &rec.Score, &rec.SimilarityScore,
			&geom, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan route: %w", err)
		}
		if err := json.Unmarshal([]byte(edgeIDs), &rec.EdgeIDs); err != nil {
			return nil, 0, fmt.Errorf("failed to decode edge ids for %s: %w", rec.RouteUUID, err)
		}
		if err := json.Unmarshal([]byte(names), &rec.TrailNames); err != nil {
			return nil, 0, fmt.Errorf("failed to decode trail names for %s: %w", rec.RouteUUID, err)
		}
		line, err := decodeLine(geom)
		if err != nil {
			return nil, 0, fmt.Errorf("route %s: %w", rec.RouteUUID, err)
		}
		rec.Geometry = line
		recs = append(recs, rec)
	}
	return recs, total, rows.Err()
}

// ClearRecommendations deletes all stored routes in the dataset
func (r *RouteRepository) ClearRecommendations() error {
	if _, err := r.db.Exec(fmt.Sprintf("DELETE FROM %sroute_recommendations", r.prefix)); err != nil {
		return fmt.Errorf("failed to clear routes: %w", err)
	}
	return nil
}
