package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/trailatlas/trailgraph-backend-go/internal/config"
	"github.com/trailatlas/trailgraph-backend-go/internal/handler"
	"github.com/trailatlas/trailgraph-backend-go/internal/middleware"
	"github.com/trailatlas/trailgraph-backend-go/internal/service"
)

// SetupRouter wires services, handlers and middleware into the HTTP API
func SetupRouter(db *sql.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	trailService := service.NewTrailService(db)
	graphService := service.NewGraphService(db)
	routeService := service.NewRouteService(db, cfg)
	pipelineService := service.NewPipelineService(db, cfg)

	trailHandler := handler.NewTrailHandler(trailService)
	graphHandler := handler.NewGraphHandler(graphService)
	routeHandler := handler.NewRouteHandler(routeService)
	pipelineHandler := handler.NewPipelineHandler(pipelineService)
	exportHandler := handler.NewExportHandler(graphService, routeService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Trail Graph API is running",
		})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(300, time.Minute))
	{
		trails := api.Group("/trails")
		{
			trails.GET("", trailHandler.GetTrails)
			trails.POST("", trailHandler.IngestTrails)
		}

		graph := api.Group("/graph")
		{
			graph.GET("/nodes", graphHandler.GetNodes)
			graph.GET("/edges", graphHandler.GetEdges)
		}

		routes := api.Group("/routes")
		{
			routes.GET("", routeHandler.GetRoutes)
			routes.POST("/recommend", routeHandler.Recommend)
		}

		// Pipeline runs rewrite the live dataset; authenticated and tightly
		// rate limited
		pipeline := api.Group("/pipeline")
		pipeline.Use(middleware.Auth(cfg.JWTSecret))
		pipeline.Use(middleware.RateLimit(5, time.Minute))
		{
			pipeline.POST("/run", pipelineHandler.RunPipeline)
		}

		export := api.Group("/export")
		{
			export.GET("/geojson", exportHandler.ExportGeoJSON)
		}
	}

	return r
}
