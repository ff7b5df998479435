package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

// TrailRepository handles database operations for trails and trail segments.
// An empty prefix targets the live tables; a staging prefix targets an
// isolated working dataset.
type TrailRepository struct {
	db     *sql.DB
	prefix string
}

// NewTrailRepository creates a new trail repository
func NewTrailRepository(db *sql.DB, prefix string) *TrailRepository {
	return &TrailRepository{db: db, prefix: prefix}
}

// InsertTrails bulk-inserts trails within a single transaction
func (r *TrailRepository) InsertTrails(trails []models.Trail) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %strails
		(name, region, trail_type, surface, difficulty, geometry, length_km, elevation_gain, elevation_loss)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.prefix))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare trail insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trails {
		geom, err := json.Marshal(t.Geometry)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to encode trail geometry: %w", err)
		}
		if _, err := stmt.Exec(t.Name, t.Region, t.TrailType, t.Surface, t.Difficulty,
			string(geom), t.LengthKm, t.ElevationGain, t.ElevationLoss); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert trail %s: %w", t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trail insert: %w", err)
	}
	return nil
}

// GetTrails retrieves trails with filtering and pagination
func (r *TrailRepository) GetTrails(filter models.TrailFilter) ([]models.Trail, int64, error) {
	query := fmt.Sprintf(`SELECT id, name, region, trail_type, surface, difficulty,
		geometry, length_km, elevation_gain, elevation_loss, created_at
		FROM %strails`, r.prefix)

	var conditions []string
	var args []interface{}

	if filter.Region != "" {
		conditions = append(conditions, "region = ?")
		args = append(args, filter.Region)
	}
	if filter.TrailType != "" {
		conditions = append(conditions, "trail_type = ?")
		args = append(args, filter.TrailType)
	}
	if filter.Difficulty != "" {
		conditions = append(conditions, "difficulty = ?")
		args = append(args, filter.Difficulty)
	}
	if filter.MinLength > 0 {
		conditions = append(conditions, "length_km >= ?")
		args = append(args, filter.MinLength)
	}
	if filter.MaxLength > 0 {
		conditions = append(conditions, "length_km <= ?")
		args = append(args, filter.MaxLength)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %strails", r.prefix)
	if len(conditions) > 0 {
		countQuery += " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trails: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	offset := (filter.Page - 1) * filter.PageSize
	query += " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query trails: %w", err)
	}
	defer rows.Close()

	var trails []models.Trail
	for rows.Next() {
		var t models.Trail
		var geom string
		if err := rows.Scan(&t.ID, &t.Name, &t.Region, &t.TrailType, &t.Surface, &t.Difficulty,
			&geom, &t.LengthKm, &t.ElevationGain, &t.ElevationLoss, &t.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan trail: %w", err)
		}
		if err := json.Unmarshal([]byte(geom), &t.Geometry); err != nil {
			return nil, 0, fmt.Errorf("failed to decode trail %d geometry: %w", t.ID, err)
		}
		trails = append(trails, t)
	}

	return trails, total, rows.Err()
}

// GetAllTrails loads every trail in the dataset, for pipeline input
func (r *TrailRepository) GetAllTrails() ([]models.Trail, error) {
	trails, _, err := r.GetTrails(models.TrailFilter{PageSize: 1000, Page: 1})
	if err != nil {
		return nil, err
	}
	// Page through the remainder
	page := 2
	for {
		next, total, err := r.GetTrails(models.TrailFilter{PageSize: 1000, Page: page})
		if err != nil {
			return nil, err
		}
		trails = append(trails, next...)
		if int64(len(trails)) >= total || len(next) == 0 {
			break
		}
		page++
	}
	return trails, nil
}

// ReplaceSegments deletes existing segments and inserts the given set in one
// transaction
func (r *TrailRepository) ReplaceSegments(segments []models.TrailSegment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %strail_segments", r.prefix)); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear segments: %w", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %strail_segments
		(trail_id, seq_index, name, region, geometry, length_km, elevation_gain, elevation_loss)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, r.prefix))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare segment insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range segments {
		geom, err := json.Marshal(s.Geometry)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to encode segment geometry: %w", err)
		}
		if _, err := stmt.Exec(s.TrailID, s.SeqIndex, s.Name, s.Region,
			string(geom), s.LengthKm, s.ElevationGain, s.ElevationLoss); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert segment of trail %d: %w", s.TrailID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit segment insert: %w", err)
	}
	return nil
}

// decodeLine parses a stored geometry column
func decodeLine(raw string) (spatial.Line, error) {
	var line spatial.Line
	if raw == "" {
		return line, nil
	}
	if err := json.Unmarshal([]byte(raw), &line); err != nil {
		return nil, fmt.Errorf("failed to decode geometry: %w", err)
	}
	return line, nil
}
