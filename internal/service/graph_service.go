package service

import (
	"database/sql"

	"github.com/trailatlas/trailgraph-backend-go/internal/models"
	"github.com/trailatlas/trailgraph-backend-go/internal/repository"
)

// GraphService serves the stored live routing graph
type GraphService struct {
	repo *repository.GraphRepository
}

// NewGraphService creates a new graph service
func NewGraphService(db *sql.DB) *GraphService {
	return &GraphService{repo: repository.NewGraphRepository(db, "")}
}

// GetNodes retrieves graph nodes with filtering and pagination
func (s *GraphService) GetNodes(filter models.GraphFilter) (*models.NodesResponse, error) {
	nodes, total, err := s.repo.GetNodes(filter)
	if err != nil {
		return nil, err
	}
	page, pageSize, totalPages := paginate(filter.Page, filter.PageSize, total)
	return &models.NodesResponse{
		Data:       nodes,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetEdges retrieves graph edges with filtering and pagination
func (s *GraphService) GetEdges(filter models.GraphFilter) (*models.EdgesResponse, error) {
	edges, total, err := s.repo.GetEdges(filter)
	if err != nil {
		return nil, err
	}
	page, pageSize, totalPages := paginate(filter.Page, filter.PageSize, total)
	return &models.EdgesResponse{
		Data:       edges,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// paginate clamps page parameters the same way the repositories do and
// derives the page count
func paginate(page, pageSize int, total int64) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 100
	}
	if pageSize > 1000 {
		pageSize = 1000
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return page, pageSize, totalPages
}
