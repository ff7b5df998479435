package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/service"
	"github.com/trailatlas/trailgraph-backend-go/pkg/response"
)

// TrailHandler handles HTTP requests for trail ingestion and querying
type TrailHandler struct {
	trailService *service.TrailService
}

// NewTrailHandler creates a new trail handler
func NewTrailHandler(trailService *service.TrailService) *TrailHandler {
	return &TrailHandler{
		trailService: trailService,
	}
}

// IngestTrails handles POST /api/v1/trails
func (h *TrailHandler) IngestTrails(c *gin.Context) {
	var trails []models.Trail
	if err := c.ShouldBindJSON(&trails); err != nil {
		response.BadRequest(c, "Invalid trail payload")
		return
	}

	count, err := h.trailService.Ingest(trails)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTrail) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"ingested": count,
		"message":  fmt.Sprintf("Ingested %d trails", count),
	})
}

// GetTrails handles GET /api/v1/trails
func (h *TrailHandler) GetTrails(c *gin.Context) {
	var filter models.TrailFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.trailService.GetTrails(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}
