package models

import (
	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

// Node represents a routing graph vertex built from clustered segment endpoints
type Node struct {
	ID        int64   `json:"id" db:"id"`
	Lat       float64 `json:"lat" db:"lat"`
	Lng       float64 `json:"lng" db:"lng"`
	Elevation float64 `json:"elevation" db:"elevation"`
	NodeType  string  `json:"node_type" db:"node_type"` // endpoint, connector, intersection
	Degree    int     `json:"degree" db:"degree"`       // count of incident edges
}

// Node type constants. Type is derived from how many segment endpoints share
// the node's cluster: >= 3 intersection, == 2 connector, else endpoint.
const (
	NodeTypeEndpoint     = "endpoint"
	NodeTypeConnector    = "connector"
	NodeTypeIntersection = "intersection"
)

// Point returns the node coordinate as a spatial point
func (n *Node) Point() spatial.Point {
	return spatial.Point{Lon: n.Lng, Lat: n.Lat, Elev: n.Elevation}
}

// Edge represents a routing graph arc between two nodes. Edges are created 1:1
// from trail segments and may later be replaced by the degree-2 merger.
type Edge struct {
	ID           int64  `json:"id" db:"id"`
	SourceNodeID int64  `json:"source_node_id" db:"source_node_id"`
	TargetNodeID int64  `json:"target_node_id" db:"target_node_id"`
	TrailID      int64  `json:"trail_id" db:"trail_id"`
	TrailName    string `json:"trail_name" db:"trail_name"`

	LengthKm      float64 `json:"length_km" db:"length_km"`
	ElevationGain float64 `json:"elevation_gain" db:"elevation_gain"`
	ElevationLoss float64 `json:"elevation_loss" db:"elevation_loss"`

	Geometry spatial.Line `json:"geometry" db:"geometry"`
}

// OtherEnd returns the node on the opposite side of the edge from nodeID
func (e *Edge) OtherEnd(nodeID int64) int64 {
	if e.SourceNodeID == nodeID {
		return e.TargetNodeID
	}
	return e.SourceNodeID
}

// IntersectionPoint is a detected crossing or near-junction location. It is
// consumed during topology construction and then discarded or materialized as
// a node.
type IntersectionPoint struct {
	ID                int64        `json:"id" db:"id"`
	Point             spatial.Point `json:"point" db:"point"`
	ConnectedTrailIDs []int64      `json:"connected_trail_ids" db:"connected_trail_ids"`
	ConnectedNames    []string     `json:"connected_trail_names" db:"connected_trail_names"`
	NodeTypeHint      string       `json:"node_type_hint" db:"node_type_hint"`
}

// Node type hints recorded by the splitter
const (
	HintIntersection  = "intersection"   // exact crossing
	HintTIntersection = "t_intersection" // endpoint meets interior, near-perpendicular
	HintYIntersection = "y_intersection" // endpoint meets interior at a shallow angle
)

// NodesResponse represents a paginated response of graph nodes
type NodesResponse struct {
	Data       []Node `json:"data"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}

// EdgesResponse represents a paginated response of graph edges
type EdgesResponse struct {
	Data       []Edge `json:"data"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}

// GraphFilter represents filter parameters for querying nodes and edges
type GraphFilter struct {
	NodeType  string  `form:"nodeType"`
	MinDegree int     `form:"minDegree"`
	TrailName string  `form:"trailName"`
	MinLength float64 `form:"minLength"` // km
	Page      int     `form:"page"`
	PageSize  int     `form:"pageSize"`
}
