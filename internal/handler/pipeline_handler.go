package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/service"
	"github.com/trailatlas/trailgraph-backend-go/pkg/response"
)

// PipelineHandler handles HTTP requests that trigger the processing pipeline
type PipelineHandler struct {
	pipelineService *service.PipelineService
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(pipelineService *service.PipelineService) *PipelineHandler {
	return &PipelineHandler{
		pipelineService: pipelineService,
	}
}

// pipelineRunRequest is the POST /api/v1/pipeline/run payload
type pipelineRunRequest struct {
	Region   string                `json:"region" binding:"required"`
	Patterns []models.RoutePattern `json:"patterns"`
}

// RunPipeline handles POST /api/v1/pipeline/run. The run is synchronous: the
// response carries the per-stage counters of the finished run.
func (h *PipelineHandler) RunPipeline(c *gin.Context) {
	var req pipelineRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid pipeline request: region is required")
		return
	}

	run, err := h.pipelineService.Run(req.Region, req.Patterns)
	if err != nil {
		if errors.Is(err, service.ErrNoTrails) || errors.Is(err, service.ErrEmptyGraph) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, run)
}
