// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

// Package main is the entry point for the Clientele server.
//
// Clientele is a customer analytics service for retail transaction data.
// It segments customers into behavioral groups via RFM scoring and seeded
// k-means clustering, recommends products to unknown customers from
// regional popularity, and forecasts per-product daily demand with cached
// autoregressive models.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered loading (defaults, config.yaml, env)
//  2. Logging: zerolog global logger, JSON by default
//  3. Dataset store: DuckDB holding uploaded transaction sets
//  4. Model cache: BadgerDB holding trained forecast models
//  5. Supervision tree: Suture root with storage and api layers
//  6. HTTP server: chi router with the REST API and /metrics
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests within the configured timeout, then the stores close.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/clientele-io/clientele/internal/api"
	"github.com/clientele-io/clientele/internal/config"
	"github.com/clientele-io/clientele/internal/database"
	"github.com/clientele-io/clientele/internal/forecast"
	"github.com/clientele-io/clientele/internal/logging"
	"github.com/clientele-io/clientele/internal/supervisor"
	"github.com/clientele-io/clientele/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("database", cfg.Database.Path).
		Str("model_cache", cfg.Forecast.ModelPath).
		Msg("Starting Clientele server")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logging.Error().Err(cerr).Msg("Failed to close dataset store")
		}
	}()

	store, err := forecast.NewModelStore(cfg.Forecast.ModelPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logging.Error().Err(cerr).Msg("Failed to close model cache")
		}
	}()

	forecaster := forecast.NewForecaster(store, &cfg.Forecast)
	server := api.NewServer(cfg, db, forecaster)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	if cfg.Server.ShutdownTimeout > 0 {
		treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	}
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)
	tree.AddStorageService(services.NewModelCacheGCService(store, 0, 0))
	tree.AddAPIService(services.NewHTTPServerService(httpServer, treeCfg.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
		}
	}

	logging.Info().Msg("Server stopped")
	return nil
}
