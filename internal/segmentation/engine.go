// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package segmentation

import (
	"context"
	"fmt"
	"time"

	"github.com/clientele-io/clientele/internal/config"
	"github.com/clientele-io/clientele/internal/logging"
	"github.com/clientele-io/clientele/internal/models"
)

// Engine runs the full segmentation pipeline over sanitized orders.
// It holds only configuration and a Clusterer, keeps no per-run state,
// and is safe for concurrent use.
type Engine struct {
	clusters  int
	clusterer Clusterer
}

// NewEngine builds an Engine from configuration, using the seeded
// multi-restart k-means as the Clusterer.
func NewEngine(cfg *config.SegmentationConfig) *Engine {
	return &Engine{
		clusters: cfg.Clusters,
		clusterer: &KMeans{
			Seed:          cfg.Seed,
			Restarts:      cfg.Restarts,
			MaxIterations: cfg.MaxIterations,
		},
	}
}

// NewEngineWithClusterer builds an Engine with a caller-supplied Clusterer.
func NewEngineWithClusterer(clusters int, c Clusterer) *Engine {
	return &Engine{clusters: clusters, clusterer: c}
}

// ComputeSegments runs aggregation, quantization, clustering, labeling,
// and summary reporting over sanitized orders.
//
// The input must already have passed Sanitize. Fewer distinct customers
// than configured clusters is a DataFormatError: the population cannot
// support the segmentation. On any error no partial result is returned.
func (e *Engine) ComputeSegments(ctx context.Context, orders []models.CleanOrder) (*models.SegmentationResult, error) {
	start := time.Now()
	log := logging.Ctx(ctx)

	table, snapshot, err := AggregateRFM(orders)
	if err != nil {
		return nil, err
	}
	if len(table) < e.clusters {
		return nil, models.NewDataFormatError(fmt.Sprintf(
			"need at least %d distinct customers to form %d segments, got %d",
			e.clusters, e.clusters, len(table)))
	}

	scores, err := Quantize(table)
	if err != nil {
		return nil, err
	}

	points := make([][]float64, len(scores))
	for i, s := range scores {
		points[i] = []float64{float64(s.RScore), float64(s.FScore), float64(s.MScore)}
	}

	assign, _, err := e.clusterer.Fit(ctx, points, e.clusters)
	if err != nil {
		return nil, err
	}
	if len(assign) != len(scores) {
		return nil, models.NewInternalError(fmt.Sprintf(
			"clusterer returned %d assignments for %d customers", len(assign), len(scores)))
	}

	labels, err := labelClusters(scores, assign, e.clusters)
	if err != nil {
		return nil, err
	}

	assignments := make([]models.CustomerSegment, len(scores))
	for i, s := range scores {
		assignments[i] = models.CustomerSegment{
			CustomerID: s.CustomerID,
			Cluster:    assign[i],
			Label:      labels[assign[i]],
			Scores:     s,
		}
	}

	result := &models.SegmentationResult{
		SnapshotDate:   snapshot,
		TotalCustomers: len(table),
		Summaries:      summarize(scores, assign, e.clusters, labels),
		Assignments:    assignments,
	}

	log.Info().
		Int("customers", len(table)).
		Int("clusters", e.clusters).
		Time("snapshot_date", snapshot).
		Dur("duration", time.Since(start)).
		Msg("Segmentation run completed")

	return result, nil
}
