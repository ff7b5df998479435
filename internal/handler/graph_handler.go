package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/service"
	"github.com/trailatlas/trailgraph-backend-go/pkg/response"
)

// GraphHandler handles HTTP requests for the routing graph
type GraphHandler struct {
	graphService *service.GraphService
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(graphService *service.GraphService) *GraphHandler {
	return &GraphHandler{
		graphService: graphService,
	}
}

// GetNodes handles GET /api/v1/graph/nodes
func (h *GraphHandler) GetNodes(c *gin.Context) {
	var filter models.GraphFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.graphService.GetNodes(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetEdges handles GET /api/v1/graph/edges
func (h *GraphHandler) GetEdges(c *gin.Context) {
	var filter models.GraphFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.graphService.GetEdges(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}
