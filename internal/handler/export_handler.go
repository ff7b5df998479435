package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/service"
	"github.com/trailatlas/trailgraph-backend-go/pkg/geojson"
	"github.com/trailatlas/trailgraph-backend-go/pkg/response"
)

// ExportHandler handles GeoJSON export of the processed network and routes
type ExportHandler struct {
	graphService *service.GraphService
	routeService *service.RouteService
}

// NewExportHandler creates a new export handler
func NewExportHandler(graphService *service.GraphService, routeService *service.RouteService) *ExportHandler {
	return &ExportHandler{
		graphService: graphService,
		routeService: routeService,
	}
}

// ExportGeoJSON handles GET /api/v1/export/geojson. The include parameter
// selects layers (nodes, edges, routes); all layers by default.
func (h *ExportHandler) ExportGeoJSON(c *gin.Context) {
	include := c.DefaultQuery("include", "nodes,edges,routes")
	wanted := make(map[string]bool)
	for _, layer := range strings.Split(include, ",") {
		wanted[strings.TrimSpace(layer)] = true
	}

	out := gin.H{}

	if wanted["nodes"] {
		nodes, err := h.allNodes()
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}
		out["nodes"] = geojson.NodeCollection(nodes)
	}
	if wanted["edges"] {
		edges, err := h.allEdges()
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}
		out["edges"] = geojson.EdgeCollection(edges)
	}
	if wanted["routes"] {
		routes, err := h.allRoutes()
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}
		out["routes"] = geojson.RouteCollection(routes)
	}

	response.Success(c, out)
}

func (h *ExportHandler) allNodes() ([]models.Node, error) {
	var all []models.Node
	for page := 1; ; page++ {
		res, err := h.graphService.GetNodes(models.GraphFilter{Page: page, PageSize: 1000})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Data...)
		if int64(len(all)) >= res.Total || len(res.Data) == 0 {
			return all, nil
		}
	}
}

func (h *ExportHandler) allEdges() ([]models.Edge, error) {
	var all []models.Edge
	for page := 1; ; page++ {
		res, err := h.graphService.GetEdges(models.GraphFilter{Page: page, PageSize: 1000})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Data...)
		if int64(len(all)) >= res.Total || len(res.Data) == 0 {
			return all, nil
		}
	}
}

func (h *ExportHandler) allRoutes() ([]models.RouteRecommendation, error) {
	var all []models.RouteRecommendation
	for page := 1; ; page++ {
		res, err := h.routeService.GetRoutes(models.RouteFilter{Page: page, PageSize: 1000})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Data...)
		if int64(len(all)) >= res.Total || len(res.Data) == 0 {
			return all, nil
		}
	}
}
