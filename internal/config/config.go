// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

// Package config provides centralized configuration for all Clientele
// components: the HTTP server, the DuckDB dataset store, the segmentation
// engine, the fallback recommender, the demand forecast wrapper, file
// ingest limits, and logging.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	db, err := database.New(&cfg.Database)
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Database     DatabaseConfig     `koanf:"database"`
	Segmentation SegmentationConfig `koanf:"segmentation"`
	Recommend    RecommendConfig    `koanf:"recommend"`
	Forecast     ForecastConfig     `koanf:"forecast"`
	Ingest       IngestConfig       `koanf:"ingest"`
	API          APIConfig          `koanf:"api"`
	Logging      LoggingConfig      `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT: Listen port (default: 8000)
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds DuckDB settings for the dataset store.
//
// Environment Variables:
//   - DUCKDB_PATH: Database file path (default: /data/clientele.duckdb)
//   - DUCKDB_MAX_MEMORY: Memory limit (default: 1GB)
//   - DUCKDB_THREADS: Worker threads, 0 = runtime.NumCPU() (default: 0)
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// SegmentationConfig holds the clustering parameters for the segmentation
// engine. The values mirror the reference behavior: four clusters, a fixed
// seed, and ten restarts with the best inertia kept, so cluster membership
// is reproducible run to run.
type SegmentationConfig struct {
	// Clusters is the fixed number of customer segments (K).
	Clusters int `koanf:"clusters"`

	// Seed initializes the random source for centroid seeding.
	Seed int64 `koanf:"seed"`

	// Restarts is the number of independent k-means runs; the run with
	// the lowest within-cluster variance wins.
	Restarts int `koanf:"restarts"`

	// MaxIterations bounds a single k-means run.
	MaxIterations int `koanf:"max_iterations"`
}

// RecommendConfig holds fallback recommender settings.
//
// Environment Variables:
//   - RECOMMEND_REFERENCE_REGION: Region whose popularity counts drive the
//     cold-start fallback (default: "Great Britain")
type RecommendConfig struct {
	ReferenceRegion string `koanf:"reference_region"`
}

// ForecastConfig holds demand forecast wrapper settings.
//
// Environment Variables:
//   - FORECAST_MODEL_PATH: BadgerDB directory for cached models (default: /data/forecast)
//   - FORECAST_WINDOW: Input window length in days (default: 60)
//   - FORECAST_HORIZON: Prediction horizon in days (default: 20)
type ForecastConfig struct {
	ModelPath string `koanf:"model_path"`
	Window    int    `koanf:"window"`
	Horizon   int    `koanf:"horizon"`
	Epochs    int    `koanf:"epochs"`
}

// IngestConfig holds upload decoding limits.
type IngestConfig struct {
	// MaxUploadBytes caps the size of an uploaded transaction file.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// MaxRows caps the number of rows decoded from a single file.
	MaxRows int `koanf:"max_rows"`
}

// APIConfig holds HTTP API behavior settings.
type APIConfig struct {
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Segmentation.Clusters < 2 {
		return fmt.Errorf("segmentation.clusters must be >= 2, got %d", c.Segmentation.Clusters)
	}
	if c.Segmentation.Restarts < 1 {
		return fmt.Errorf("segmentation.restarts must be >= 1, got %d", c.Segmentation.Restarts)
	}
	if c.Segmentation.MaxIterations < 1 {
		return fmt.Errorf("segmentation.max_iterations must be >= 1, got %d", c.Segmentation.MaxIterations)
	}
	if c.Recommend.ReferenceRegion == "" {
		return fmt.Errorf("recommend.reference_region must not be empty")
	}
	if c.Forecast.Window < 2 {
		return fmt.Errorf("forecast.window must be >= 2, got %d", c.Forecast.Window)
	}
	if c.Forecast.Horizon < 1 {
		return fmt.Errorf("forecast.horizon must be >= 1, got %d", c.Forecast.Horizon)
	}
	if c.Ingest.MaxUploadBytes <= 0 {
		return fmt.Errorf("ingest.max_upload_bytes must be positive, got %d", c.Ingest.MaxUploadBytes)
	}
	if c.Ingest.MaxRows <= 0 {
		return fmt.Errorf("ingest.max_rows must be positive, got %d", c.Ingest.MaxRows)
	}
	if !c.API.RateLimitDisabled && c.API.RateLimitRequests <= 0 {
		return fmt.Errorf("api.rate_limit_requests must be positive, got %d", c.API.RateLimitRequests)
	}
	return nil
}
