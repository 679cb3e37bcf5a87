package main

import (
	"fmt"
	"log"
	"os"

	"github.com/medcompare/backend/config"
	httpDelivery "github.com/medcompare/backend/internal/delivery/http"
	"github.com/medcompare/backend/internal/domain"
	"github.com/medcompare/backend/internal/infrastructure/reader"
	"github.com/medcompare/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting MedCompare Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Reader proxy: %s", cfg.Reader.BaseURL)

	// Initialize infrastructure dependencies
	readerClient := reader.NewClient(cfg.Reader.BaseURL, cfg.Reader.Timeout)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		readerClient.SetDebug(true)
		log.Printf("Reader client debug mode enabled")
	}

	sources := domain.DefaultSources()
	for _, source := range sources {
		log.Printf("Source registered: %s (%s)", source.Key, source.BaseURL)
	}

	// Initialize usecase layer
	compareService := usecase.NewCompareService(
		sources,
		readerClient,
		usecase.CompareServiceConfig{
			MinScore:      cfg.Compare.MinScore,
			MinPrice:      cfg.Compare.MinPrice,
			MaxPrice:      cfg.Compare.MaxPrice,
			DosageBonus:   cfg.Compare.DosageBonus,
			SourceTimeout: cfg.Compare.SourceTimeout,
		},
	)

	log.Printf("Pipeline: min_score=%.2f, price_bounds=(%.0f, %.0f), source_timeout=%s",
		cfg.Compare.MinScore,
		cfg.Compare.MinPrice,
		cfg.Compare.MaxPrice,
		cfg.Compare.SourceTimeout)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(compareService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
