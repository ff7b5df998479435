package database

import (
	"database/sql"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"
)

// pipelineTables are the table names provisioned both live and per staging
// dataset
var pipelineTables = []string{
	"trails",
	"trail_segments",
	"intersection_points",
	"routing_nodes",
	"routing_edges",
	"route_recommendations",
}

// tableSchemas maps each pipeline table to its column definition
var tableSchemas = map[string]string{
	"trails": `(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		region TEXT NOT NULL,
		trail_type TEXT,
		surface TEXT,
		difficulty TEXT,
		geometry TEXT NOT NULL,
		length_km REAL NOT NULL DEFAULT 0,
		elevation_gain REAL NOT NULL DEFAULT 0,
		elevation_loss REAL NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	"trail_segments": `(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trail_id INTEGER NOT NULL,
		seq_index INTEGER NOT NULL,
		name TEXT,
		region TEXT,
		geometry TEXT NOT NULL,
		length_km REAL NOT NULL DEFAULT 0,
		elevation_gain REAL NOT NULL DEFAULT 0,
		elevation_loss REAL NOT NULL DEFAULT 0
	)`,
	"intersection_points": `(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lon REAL NOT NULL,
		lat REAL NOT NULL,
		elev REAL NOT NULL DEFAULT 0,
		connected_trail_ids TEXT,
		connected_trail_names TEXT,
		node_type_hint TEXT
	)`,
	"routing_nodes": `(
		id INTEGER PRIMARY KEY,
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		elevation REAL NOT NULL DEFAULT 0,
		node_type TEXT NOT NULL,
		degree INTEGER NOT NULL DEFAULT 0
	)`,
	"routing_edges": `(
		id INTEGER PRIMARY KEY,
		source_node_id INTEGER NOT NULL,
		target_node_id INTEGER NOT NULL,
		trail_id INTEGER,
		trail_name TEXT,
		length_km REAL NOT NULL DEFAULT 0,
		elevation_gain REAL NOT NULL DEFAULT 0,
		elevation_loss REAL NOT NULL DEFAULT 0,
		geometry TEXT NOT NULL
	)`,
	"route_recommendations": `(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		route_uuid TEXT NOT NULL UNIQUE,
		route_name TEXT,
		route_shape TEXT NOT NULL,
		shape_confidence REAL NOT NULL DEFAULT 0,
		input_distance_km REAL NOT NULL DEFAULT 0,
		input_elevation_gain REAL NOT NULL DEFAULT 0,
		recommended_distance_km REAL NOT NULL DEFAULT 0,
		recommended_elevation_gain REAL NOT NULL DEFAULT 0,
		edge_ids TEXT,
		trail_names TEXT,
		trail_count INTEGER NOT NULL DEFAULT 0,
		route_score REAL NOT NULL DEFAULT 0,
		similarity_score REAL NOT NULL DEFAULT 0,
		geometry TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}

var regionPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// StagingManager provisions isolated per-region working datasets as prefixed
// table sets, promotes a finished dataset into the live tables and enforces
// a retention policy on old datasets.
type StagingManager struct {
	db *sql.DB
}

// NewStagingManager creates a staging manager
func NewStagingManager(db *sql.DB) *StagingManager {
	return &StagingManager{db: db}
}

// EnsureLiveSchema creates the unprefixed pipeline tables if missing
func (m *StagingManager) EnsureLiveSchema() error {
	return m.createTables("")
}

// Provision creates a fresh staging table set for a region and returns its
// prefix. Region names are restricted to [a-z0-9_].
func (m *StagingManager) Provision(region string) (string, error) {
	if !regionPattern.MatchString(region) {
		return "", fmt.Errorf("invalid region name %q", region)
	}
	prefix := fmt.Sprintf("staging_%s_%d_", region, time.Now().Unix())
	if err := m.createTables(prefix); err != nil {
		return "", err
	}
	log.Printf("staging: provisioned dataset %s", strings.TrimSuffix(prefix, "_"))
	return prefix, nil
}

// Promote copies a staging dataset over the live tables atomically
func (m *StagingManager) Promote(prefix string) error {
	return Transaction(m.db, func(tx *sql.Tx) error {
		for _, table := range pipelineTables {
			if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
				return fmt.Errorf("failed to clear live table %s: %w", table, err)
			}
			copySQL := fmt.Sprintf("INSERT INTO %s SELECT * FROM %s%s", table, prefix, table)
			if _, err := tx.Exec(copySQL); err != nil {
				return fmt.Errorf("failed to promote %s%s: %w", prefix, table, err)
			}
		}
		return nil
	})
}

// CopyRegionTrails seeds a staging dataset with the live trails of a region
func (m *StagingManager) CopyRegionTrails(prefix, region string) (int64, error) {
	res, err := m.db.Exec(fmt.Sprintf(
		"INSERT INTO %strails SELECT * FROM trails WHERE region = ?", prefix), region)
	if err != nil {
		return 0, fmt.Errorf("failed to copy trails into staging: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count copied trails: %w", err)
	}
	return n, nil
}

// Drop removes a staging dataset's tables
func (m *StagingManager) Drop(prefix string) error {
	for _, table := range pipelineTables {
		if _, err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s%s", prefix, table)); err != nil {
			return fmt.Errorf("failed to drop %s%s: %w", prefix, table, err)
		}
	}
	return nil
}

// ListDatasets returns the staging prefixes for a region, oldest first
func (m *StagingManager) ListDatasets(region string) ([]string, error) {
	pattern := fmt.Sprintf("staging_%s_%%_trails", region)
	rows, err := m.db.Query(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name LIKE ?", pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list staging datasets: %w", err)
	}
	defer rows.Close()

	var prefixes []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan staging table name: %w", err)
		}
		prefixes = append(prefixes, strings.TrimSuffix(name, "trails"))
	}
	sort.Strings(prefixes)
	return prefixes, rows.Err()
}

// CleanupOld drops staging datasets beyond the retention count, oldest first
func (m *StagingManager) CleanupOld(region string, keep int) (int, error) {
	prefixes, err := m.ListDatasets(region)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	dropped := 0
	for len(prefixes)-dropped > keep {
		if err := m.Drop(prefixes[dropped]); err != nil {
			return dropped, err
		}
		log.Printf("staging: dropped expired dataset %s", strings.TrimSuffix(prefixes[dropped], "_"))
		dropped++
	}
	return dropped, nil
}

func (m *StagingManager) createTables(prefix string) error {
	for _, table := range pipelineTables {
		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s%s %s", prefix, table, tableSchemas[table])
		if _, err := m.db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to create table %s%s: %w", prefix, table, err)
		}
	}
	return nil
}
