package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/pricelens/backend/config"
	httpDelivery "github.com/pricelens/backend/internal/delivery/http"
	"github.com/pricelens/backend/internal/infrastructure/page"
	"github.com/pricelens/backend/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debug := cfg.Server.Environment == "development"

	log.Printf("Starting PriceLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Upstream: %s (%s, timeout %s)", cfg.Upstream.AllowedHost, cfg.Upstream.PlatformName, cfg.Upstream.Timeout)

	// Initialize infrastructure dependencies
	pageClient := page.NewClient(page.Options{
		UserAgent:      cfg.Upstream.UserAgent,
		AcceptLanguage: cfg.Upstream.AcceptLanguage,
		Timeout:        cfg.Upstream.Timeout,
	})

	// Enable debug mode in development environment
	if debug {
		pageClient.SetDebug(true)
		log.Printf("Page client debug mode enabled")
	}

	// Initialize usecase layer
	extractionService := usecase.NewExtractionService(
		pageClient,
		usecase.ExtractionServiceConfig{
			AllowedHost:        cfg.Upstream.AllowedHost,
			PlatformName:       cfg.Upstream.PlatformName,
			CurrencySuffix:     cfg.Upstream.CurrencySuffix,
			EnableDebugLogging: debug,
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(extractionService, cfg.Upstream.AllowedHost)

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
