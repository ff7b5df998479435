package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/service"
	"github.com/trailatlas/trailgraph-backend-go/pkg/response"
)

// RouteHandler handles HTTP requests for route recommendations
type RouteHandler struct {
	routeService *service.RouteService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routeService *service.RouteService) *RouteHandler {
	return &RouteHandler{
		routeService: routeService,
	}
}

// Recommend handles POST /api/v1/routes/recommend
func (h *RouteHandler) Recommend(c *gin.Context) {
	var pattern models.RoutePattern
	if err := c.ShouldBindJSON(&pattern); err != nil {
		response.BadRequest(c, "Invalid route pattern: shape and targetDistanceKm are required")
		return
	}

	recs, err := h.routeService.Recommend(pattern)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPattern) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, service.ErrEmptyGraph) {
			response.BadRequest(c, "No routing graph available; run the pipeline first")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":  recs,
		"count": len(recs),
	})
}

// GetRoutes handles GET /api/v1/routes
func (h *RouteHandler) GetRoutes(c *gin.Context) {
	var filter models.RouteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.routeService.GetRoutes(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}
