package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/api"
	"github.com/Strizzyy/care-engine/internal/config"
	"github.com/Strizzyy/care-engine/internal/nlu"
	"github.com/Strizzyy/care-engine/internal/oracle"
	"github.com/Strizzyy/care-engine/internal/realtime"
	"github.com/Strizzyy/care-engine/internal/repository/postgres"
	"github.com/Strizzyy/care-engine/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.EnsureSchema(db); err != nil {
		logger.Fatal("Failed to ensure schema", zap.Error(err))
	}

	// Create repositories and clients
	repos := postgres.NewRepositories(db, logger)
	oracleClient := oracle.NewClient(cfg.Oracle, logger)
	nluClient := nlu.NewClient(cfg.NLU, logger)

	// Escalation feed for the agent dashboard
	hub := realtime.NewHub(logger)
	go hub.Run()

	// Workflow engine
	resolver := service.NewResolutionService(repos, oracleClient, hub, logger)

	router := api.NewRouter(cfg, repos, nluClient, resolver, hub, logger)

	logger.Info("Starting server", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
