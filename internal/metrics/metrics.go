// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

// Package metrics provides Prometheus instrumentation for the HTTP API,
// the segmentation engine, file ingestion, and the forecast cache.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Segmentation engine metrics
	SegmentationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "segmentation_runs_total",
			Help: "Total number of segmentation runs",
		},
		[]string{"outcome"}, // "success", "data_format_error", "internal_error"
	)

	SegmentationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "segmentation_run_duration_seconds",
			Help:    "Duration of full segmentation runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SegmentationCustomers = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "segmentation_customers",
			Help:    "Distinct customers per segmentation run",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
	)

	// Ingest metrics
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_total",
			Help: "Total number of dataset uploads",
		},
		[]string{"format", "outcome"},
	)

	UploadRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upload_rows",
			Help:    "Decoded rows per uploaded file",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
	)

	// Forecast metrics
	ForecastRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_requests_total",
			Help: "Total number of forecast requests",
		},
		[]string{"cache"}, // "hit", "miss"
	)

	ForecastTrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forecast_training_duration_seconds",
			Help:    "Duration of demand model training in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the active request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSegmentationRun records one segmentation run with its outcome.
func RecordSegmentationRun(outcome string, customers int, duration time.Duration) {
	SegmentationRunsTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		SegmentationDuration.Observe(duration.Seconds())
		SegmentationCustomers.Observe(float64(customers))
	}
}

// RecordUpload records one dataset upload attempt.
func RecordUpload(format, outcome string, rows int) {
	UploadsTotal.WithLabelValues(format, outcome).Inc()
	if outcome == "success" {
		UploadRows.Observe(float64(rows))
	}
}

// RecordForecast records one forecast request and whether the model cache served it.
func RecordForecast(fromCache bool) {
	if fromCache {
		ForecastRequestsTotal.WithLabelValues("hit").Inc()
	} else {
		ForecastRequestsTotal.WithLabelValues("miss").Inc()
	}
}
