// Package geojson converts graph and route entities into GeoJSON feature
// collections for map frontends.
package geojson

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

// NodeCollection renders graph nodes as a FeatureCollection of points
func NodeCollection(nodes []models.Node) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, n := range nodes {
		f := geojson.NewFeature(orb.Point{n.Lng, n.Lat})
		f.Properties = geojson.Properties{
			"id":        n.ID,
			"node_type": n.NodeType,
			"degree":    n.Degree,
			"elevation": n.Elevation,
		}
		fc.Append(f)
	}
	return fc
}

// EdgeCollection renders graph edges as a FeatureCollection of line strings.
// Elevations ride along as a per-vertex property since GeoJSON positions are
// planar here.
func EdgeCollection(edges []models.Edge) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, e := range edges {
		f := geojson.NewFeature(toLineString(e.Geometry))
		f.Properties = geojson.Properties{
			"id":             e.ID,
			"source_node_id": e.SourceNodeID,
			"target_node_id": e.TargetNodeID,
			"trail_id":       e.TrailID,
			"trail_name":     e.TrailName,
			"length_km":      e.LengthKm,
			"elevation_gain": e.ElevationGain,
			"elevation_loss": e.ElevationLoss,
			"elevations":     elevations(e.Geometry),
		}
		fc.Append(f)
	}
	return fc
}

// RouteCollection renders route recommendations as a FeatureCollection of
// line strings
func RouteCollection(recs []models.RouteRecommendation) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range recs {
		f := geojson.NewFeature(toLineString(r.Geometry))
		f.Properties = geojson.Properties{
			"route_uuid":                 r.RouteUUID,
			"route_name":                 r.RouteName,
			"route_shape":                r.RouteShape,
			"shape_confidence":           r.ShapeConfidence,
			"recommended_distance_km":    r.RecommendedDistanceKm,
			"recommended_elevation_gain": r.RecommendedElevationGain,
			"trail_names":                r.TrailNames,
			"trail_count":                r.TrailCount,
			"route_score":                r.Score,
			"similarity_score":           r.SimilarityScore,
		}
		fc.Append(f)
	}
	return fc
}

// LengthMismatches recomputes each route's 3D path length from its geometry
// and returns the UUIDs whose stored distance deviates by more than the
// given fraction. Routes without geometry are skipped.
func LengthMismatches(recs []models.RouteRecommendation, tolerance float64) []string {
	var bad []string
	for _, r := range recs {
		if len(r.Geometry) < 2 || r.RecommendedDistanceKm <= 0 {
			continue
		}
		actual := spatial.PathLength(r.Geometry) / 1000
		if diff := actual - r.RecommendedDistanceKm; diff > r.RecommendedDistanceKm*tolerance ||
			-diff > r.RecommendedDistanceKm*tolerance {
			bad = append(bad, r.RouteUUID)
		}
	}
	return bad
}

// toLineString drops elevations and converts to an orb geometry
func toLineString(line spatial.Line) orb.LineString {
	ls := make(orb.LineString, len(line))
	for i, p := range line {
		ls[i] = orb.Point{p.Lon, p.Lat}
	}
	return ls
}

func elevations(line spatial.Line) []float64 {
	out := make([]float64, len(line))
	for i, p := range line {
		out[i] = p.Elev
	}
	return out
}
