package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romangod6/newslens/config"
	"github.com/romangod6/newslens/internal/api"
	"github.com/romangod6/newslens/internal/dataset"
	"github.com/romangod6/newslens/internal/models"
	"github.com/romangod6/newslens/internal/storage"
	"github.com/romangod6/newslens/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize storage
	store, err := storage.NewStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	if err := store.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database tables: %v", err)
	}

	// Ingest the dataset
	report, err := ingestDataset(cfg, store)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	// Initialize API server
	server := api.NewServer(cfg.Server.Port, store, report,
		cfg.Dashboard.TopKeywords, cfg.Dashboard.TopCountries)

	go func() {
		log.Printf("Starting dashboard server on port %d", cfg.Server.Port)
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start dashboard server: %v", err)
		}
	}()

	waitForShutdown(server)
}

func ingestDataset(cfg *config.Config, store storage.Store) (*models.LoadReport, error) {
	logger, err := utils.NewIngestLogger()
	if err != nil {
		return nil, err
	}
	defer logger.Close()

	logger.LogInfo("Loading dataset from %s (encoding: %s)", cfg.Dataset.Path, cfg.Dataset.Encoding)

	loader := dataset.NewLoader(cfg.Dataset.Path, cfg.Dataset.Encoding)
	articles, report, err := loader.Load()
	if err != nil {
		logger.LogError("Dataset load failed: %v", err)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := store.ImportArticles(ctx, articles); err != nil {
		logger.LogError("Dataset import failed: %v", err)
		return nil, err
	}

	logger.LogInfo("Dataset loaded: %d rows read, %d imported, %d skipped",
		report.TotalRows, report.Imported, report.Skipped)
	for _, reason := range report.SkippedReasons {
		logger.LogInfo("  skipped %s", reason)
	}

	return report, nil
}

func waitForShutdown(server *api.Server) {
	// Handle system signals for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutting down...")

	// Graceful server shutdown
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
	log.Println("Server shut down gracefully")
}
