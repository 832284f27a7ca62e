// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

// Package api implements the HTTP layer: routing, middleware wiring,
// the response envelope, and the handlers that drive the dataset store,
// the segmentation engine, the fallback recommender, and the forecast
// wrapper.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clientele-io/clientele/internal/middleware"
)

// Router builds the chi router with the full middleware stack and all
// API routes mounted.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PrometheusMetrics)
	r.Use(securityHeaders)
	r.Use(corsMiddleware(&s.cfg.API))
	if limiter := rateLimitMiddleware(&s.cfg.API); limiter != nil {
		r.Use(limiter)
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/health/live", s.handleHealthLive)
		r.Get("/health/ready", s.handleHealthReady)

		r.Post("/segments", s.handleSegmentsOneShot)

		r.Route("/datasets", func(r chi.Router) {
			r.Post("/", s.handleUploadDataset)
			r.Get("/", s.handleListDatasets)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDataset)
				r.Delete("/", s.handleDeleteDataset)

				r.Get("/segments", s.handleDatasetSegments)
				r.Get("/segments/chart", s.handleSegmentsChart)
				r.Get("/recommendations/fallback/{customerID}", s.handleFallbackRecommendation)
				r.Get("/forecast/{productID}", s.handleForecast)
				r.Get("/forecast/{productID}/chart", s.handleForecastChart)
			})
		})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
