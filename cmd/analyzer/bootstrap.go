package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ratio-analyzer/internal/datasource"
	"ratio-analyzer/internal/interfaces"
	"ratio-analyzer/internal/logger"
	"ratio-analyzer/internal/store"
	"ratio-analyzer/internal/trace"
)

// initializeSystem initializes environment, logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// newDataSource builds the data source selected by config mode
func newDataSource(cfg *store.Config) interfaces.MarketDataSource {
	if cfg.Mode == "LIVE" {
		return datasource.NewLiveDataSource(cfg)
	}
	return datasource.NewMockDataSource()
}
