package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trailatlas/trailgraph-backend-go/internal/database"
	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/topology"
)

// GraphRepository persists and reloads the routing graph (nodes and edges)
type GraphRepository struct {
	db     *sql.DB
	prefix string
}

// NewGraphRepository creates a new graph repository
func NewGraphRepository(db *sql.DB, prefix string) *GraphRepository {
	return &GraphRepository{db: db, prefix: prefix}
}

// ReplaceNetwork persists a finished network atomically, replacing whatever
// graph the dataset held before
func (r *GraphRepository) ReplaceNetwork(net *topology.Network) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %srouting_edges", r.prefix)); err != nil {
			return fmt.Errorf("failed to clear edges: %w", err)
		}
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %srouting_nodes", r.prefix)); err != nil {
			return fmt.Errorf("failed to clear nodes: %w", err)
		}

		nodeStmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %srouting_nodes
			(id, lat, lng, elevation, node_type, degree) VALUES (?, ?, ?, ?, ?, ?)`, r.prefix))
		if err != nil {
			return fmt.Errorf("failed to prepare node insert: %w", err)
		}
		defer nodeStmt.Close()

		for _, id := range net.NodeIDs() {
			n := net.Nodes[id]
			if _, err := nodeStmt.Exec(n.ID, n.Lat, n.Lng, n.Elevation, n.NodeType, n.Degree); err != nil {
				return fmt.Errorf("failed to insert node %d: %w", n.ID, err)
			}
		}

		edgeStmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %srouting_edges
			(id, source_node_id, target_node_id, trail_id, trail_name,
			 length_km, elevation_gain, elevation_loss, geometry)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.prefix))
		if err != nil {
			return fmt.Errorf("failed to prepare edge insert: %w", err)
		}
		defer edgeStmt.Close()

		for _, id := range net.EdgeIDs() {
			e := net.Edges[id]
			geom, err := json.Marshal(e.Geometry)
			if err != nil {
				return fmt.Errorf("failed to encode edge %d geometry: %w", e.ID, err)
			}
			if _, err := edgeStmt.Exec(e.ID, e.SourceNodeID, e.TargetNodeID, e.TrailID, e.TrailName,
				e.LengthKm, e.ElevationGain, e.ElevationLoss, string(geom)); err != nil {
				return fmt.Errorf("failed to insert edge %d: %w", e.ID, err)
			}
		}
		return nil
	})
}

// LoadNetwork rebuilds the in-memory network from the stored graph
func (r *GraphRepository) LoadNetwork() (*topology.Network, error) {
	net := topology.NewNetwork()

	nodeRows, err := r.db.Query(fmt.Sprintf(
		"SELECT id, lat, lng, elevation, node_type, degree FROM %srouting_nodes ORDER BY id", r.prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer nodeRows.Close()

	for nodeRows.Next() {
		var n models.Node
		if err := nodeRows.Scan(&n.ID, &n.Lat, &n.Lng, &n.Elevation, &n.NodeType, &n.Degree); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		n.Degree = 0 // recomputed from incidence as edges are added
		net.AddNode(&n)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, err
	}

	edgeRows, err := r.db.Query(fmt.Sprintf(`SELECT id, source_node_id, target_node_id, trail_id,
		trail_name, length_km, elevation_gain, elevation_loss, geometry
		FROM %srouting_edges ORDER BY id`, r.prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var e models.Edge
		var geom string
		if err := edgeRows.Scan(&e.ID, &e.SourceNodeID, &e.TargetNodeID, &e.TrailID,
			&e.TrailName, &e.LengthKm, &e.ElevationGain, &e.ElevationLoss, &geom); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		line, err := decodeLine(geom)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", e.ID, err)
		}
		e.Geometry = line
		net.AddEdge(&e)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, err
	}

	net.RecomputeDegrees()
	return net, nil
}

// GetNodes retrieves nodes with filtering and pagination
func (r *GraphRepository) GetNodes(filter models.GraphFilter) ([]models.Node, int64, error) {
	query := fmt.Sprintf("SELECT id, lat, lng, elevation, node_type, degree FROM %srouting_nodes", r.prefix)

	var conditions []string
	var args []interface{}
	if filter.NodeType != "" {
		conditions = append(conditions, "node_type = ?")
		args = append(args, filter.NodeType)
	}
	if filter.MinDegree > 0 {
		conditions = append(conditions, "degree >= ?")
		args = append(args, filter.MinDegree)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %srouting_nodes", r.prefix)
	if len(conditions) > 0 {
		countQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	var total int64
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count nodes: %w", err)
	}

	page, pageSize := clampPage(filter.Page, filter.PageSize)
	query += " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []models.Node
	for rows.Next() {
		var n models.Node
		if err := rows.Scan(&n.ID, &n.Lat, &n.Lng, &n.Elevation, &n.NodeType, &n.Degree); err != nil {
			return nil, 0, fmt.Errorf("failed to scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, total, rows.Err()
}

// GetEdges retrieves edges with filtering and pagination
func (r *GraphRepository) GetEdges(filter models.GraphFilter) ([]models.Edge, int64, error) {
	query := fmt.Sprintf(`SELECT id, source_node_id, target_node_id, trail_id, trail_name,
		length_km, elevation_gain, elevation_loss, geometry FROM %srouting_edges`, r.prefix)

	var conditions []string
	var args []interface{}
	if filter.TrailName != "" {
		conditions = append(conditions, "trail_name = ?")
		args = append(args, filter.TrailName)
	}
	if filter.MinLength > 0 {
		conditions = append(conditions, "length_km >= ?")
		args = append(args, filter.MinLength)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %srouting_edges", r.prefix)
	if len(conditions) > 0 {
		countQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	var total int64
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count edges: %w", err)
	}

	page, pageSize := clampPage(filter.Page, filter.PageSize)
	query += " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var edges []models.Edge
	for rows.Next() {
		var e models.Edge
		var geom string
		if err := rows.Scan(&e.ID, &e.SourceNodeID, &e.TargetNodeID, &e.TrailID,
			&e.TrailName, &e.LengthKm, &e.ElevationGain, &e.ElevationLoss, &geom); err != nil {
			return nil, 0, fmt.Errorf("failed to scan edge: %w", err)
		}
		line, err := decodeLine(geom)
		if err != nil {
			return nil, 0, fmt.Errorf("edge %d: %w", e.ID, err)
		}
		e.Geometry = line
		edges = append(edges, e)
	}
	return edges, total, rows.Err()
}

// ReplaceIntersections persists the splitter's detected intersection points
func (r *GraphRepository) ReplaceIntersections(points []models.IntersectionPoint) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %sintersection_points", r.prefix)); err != nil {
			return fmt.Errorf("failed to clear intersection points: %w", err)
		}
		stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %sintersection_points
			(lon, lat, elev, connected_trail_ids, connected_trail_names, node_type_hint)
			VALUES (?, ?, ?, ?, ?, ?)`, r.prefix))
		if err != nil {
			return fmt.Errorf("failed to prepare intersection insert: %w", err)
		}
		defer stmt.Close()

		for _, ip := range points {
			ids, err := json.Marshal(ip.ConnectedTrailIDs)
			if err != nil {
				return fmt.Errorf("failed to encode trail ids: %w", err)
			}
			names, err := json.Marshal(ip.ConnectedNames)
			if err != nil {
				return fmt.Errorf("failed to encode trail names: %w", err)
			}
			if _, err := stmt.Exec(ip.Point.Lon, ip.Point.Lat, ip.Point.Elev,
				string(ids), string(names), ip.NodeTypeHint); err != nil {
				return fmt.Errorf("failed to insert intersection point: %w", err)
			}
		}
		return nil
	})
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 100
	}
	if pageSize > 1000 {
		pageSize = 1000
	}
	return page, pageSize
}
