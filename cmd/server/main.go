package main

import (
	"log"

	"github.com/trailatlas/trailgraph-backend-go/internal/api"
	"github.com/trailatlas/trailgraph-backend-go/internal/config"
	"github.com/trailatlas/trailgraph-backend-go/internal/database"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer database.Close()

	db := database.GetDB()
	if err := database.NewStagingManager(db).EnsureLiveSchema(); err != nil {
		log.Fatal("Failed to create schema: ", err)
	}

	router := api.SetupRouter(db, cfg)

	log.Printf("Server starting on %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
