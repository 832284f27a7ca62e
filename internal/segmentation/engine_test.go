// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package segmentation

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/clientele-io/clientele/internal/config"
	"github.com/clientele-io/clientele/internal/models"
)

func testEngineConfig() *config.SegmentationConfig {
	return &config.SegmentationConfig{
		Clusters:      4,
		Seed:          42,
		Restarts:      10,
		MaxIterations: 300,
	}
}

// testPopulation builds a mixed population of four behavior archetypes:
// heavy recent spenders, steady repeat buyers, long-lapsed customers, and
// fresh one-off buyers. Three of each, twelve customers total.
func testPopulation() []models.CleanOrder {
	anchor := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var orders []models.CleanOrder

	addInvoices := func(customer int, daysAgo int, invoices int, qty int, price float64) {
		for n := 0; n < invoices; n++ {
			day := anchor.AddDate(0, 0, -daysAgo-n)
			orders = append(orders, models.CleanOrder{
				InvoiceID:  fmt.Sprintf("%d-%s", customer, day.Format("20060102")),
				ProductID:  "85123A",
				Quantity:   qty,
				Timestamp:  day,
				UnitPrice:  price,
				CustomerID: customer,
				Country:    "Great Britain",
			})
		}
	}

	for i := 0; i < 3; i++ {
		addInvoices(100+i, 2+i, 12, 10, 80) // heavy recent spenders
		addInvoices(200+i, 30+i, 5, 4, 30)  // steady repeat buyers
		addInvoices(300+i, 280+i, 2, 2, 15) // long lapsed
		addInvoices(400+i, 5+i, 1, 1, 12)   // fresh one-off buyers
	}
	return orders
}

func TestComputeSegmentsFullRun(t *testing.T) {
	engine := NewEngine(testEngineConfig())

	result, err := engine.ComputeSegments(context.Background(), testPopulation())
	if err != nil {
		t.Fatalf("ComputeSegments failed: %v", err)
	}

	if result.TotalCustomers != 12 {
		t.Errorf("expected 12 customers, got %d", result.TotalCustomers)
	}
	if len(result.Summaries) != 4 {
		t.Fatalf("expected 4 summaries, got %d", len(result.Summaries))
	}
	if len(result.Assignments) != 12 {
		t.Fatalf("expected 12 assignments, got %d", len(result.Assignments))
	}

	var pctSum float64
	for _, s := range result.Summaries {
		if s.Count == 0 {
			t.Errorf("cluster %d is empty", s.Cluster)
		}
		pctSum += s.Percentage
	}
	if math.Abs(pctSum-100) > 1e-9 {
		t.Errorf("percentages should sum to 100, got %g", pctSum)
	}

	// Partition completeness: every customer appears exactly once.
	seen := make(map[int]bool)
	for _, a := range result.Assignments {
		if seen[a.CustomerID] {
			t.Errorf("customer %d assigned twice", a.CustomerID)
		}
		seen[a.CustomerID] = true
	}
}

func TestComputeSegmentsUsesFixedLabelVocabulary(t *testing.T) {
	engine := NewEngine(testEngineConfig())

	result, err := engine.ComputeSegments(context.Background(), testPopulation())
	if err != nil {
		t.Fatalf("ComputeSegments failed: %v", err)
	}

	want := map[string]bool{
		"Power Shoppers":    true,
		"Loyal Customers":   true,
		"At-risk Customers": true,
		"Recent Customers":  true,
	}
	got := make(map[string]bool)
	for _, s := range result.Summaries {
		got[s.Label] = true
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("expected labels %v, got %v", want, got)
	}

	for _, a := range result.Assignments {
		if !want[a.Label] {
			t.Errorf("customer %d has unknown label %q", a.CustomerID, a.Label)
		}
	}
}

func TestComputeSegmentsLabelsFollowScoreRank(t *testing.T) {
	engine := NewEngine(testEngineConfig())

	result, err := engine.ComputeSegments(context.Background(), testPopulation())
	if err != nil {
		t.Fatalf("ComputeSegments failed: %v", err)
	}

	// The label vocabulary is ordered by value rank, so the cluster
	// labeled Power Shoppers must have the highest mean total score.
	rank := map[string]int{
		"Power Shoppers":    0,
		"Loyal Customers":   1,
		"At-risk Customers": 2,
		"Recent Customers":  3,
	}
	means := make([]float64, 4)
	for _, s := range result.Summaries {
		means[rank[s.Label]] = s.MeanR + s.MeanF + s.MeanM
	}
	for i := 1; i < len(means); i++ {
		if means[i] > means[i-1] {
			t.Errorf("label rank %d has mean score %g above rank %d's %g",
				i, means[i], i-1, means[i-1])
		}
	}
}

func TestComputeSegmentsIdempotent(t *testing.T) {
	engine := NewEngine(testEngineConfig())

	first, err := engine.ComputeSegments(context.Background(), testPopulation())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := engine.ComputeSegments(context.Background(), testPopulation())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical input and seed must produce identical results")
	}
}

func TestComputeSegmentsSnapshotDerivedFromData(t *testing.T) {
	engine := NewEngine(testEngineConfig())

	result, err := engine.ComputeSegments(context.Background(), testPopulation())
	if err != nil {
		t.Fatalf("ComputeSegments failed: %v", err)
	}

	// Latest invoice in the population is 2 days before the anchor.
	want := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	if !result.SnapshotDate.Equal(want) {
		t.Errorf("expected snapshot %s, got %s", want, result.SnapshotDate)
	}
}

func TestComputeSegmentsTooFewCustomers(t *testing.T) {
	engine := NewEngine(testEngineConfig())

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := []models.CleanOrder{
		orderAt(1, "A", day, 1, 10),
		orderAt(2, "B", day, 1, 20),
		orderAt(3, "C", day, 1, 30),
	}

	_, err := engine.ComputeSegments(context.Background(), orders)
	if err == nil {
		t.Fatal("expected error for fewer customers than clusters")
	}
	if !models.IsDataFormatError(err) {
		t.Errorf("expected DataFormatError, got %T: %v", err, err)
	}
}

func TestComputeSegmentsEmptyInput(t *testing.T) {
	engine := NewEngine(testEngineConfig())

	_, err := engine.ComputeSegments(context.Background(), nil)
	if !models.IsDataFormatError(err) {
		t.Errorf("expected DataFormatError, got %v", err)
	}
}

// stubClusterer assigns points round-robin, exercising the engine's
// orchestration without real clustering.
type stubClusterer struct {
	calls int
}

func (s *stubClusterer) Fit(_ context.Context, points [][]float64, k int) ([]int, [][]float64, error) {
	s.calls++
	assign := make([]int, len(points))
	for i := range assign {
		assign[i] = i % k
	}
	return assign, make([][]float64, k), nil
}

func TestComputeSegmentsWithInjectedClusterer(t *testing.T) {
	stub := &stubClusterer{}
	engine := NewEngineWithClusterer(4, stub)

	result, err := engine.ComputeSegments(context.Background(), testPopulation())
	if err != nil {
		t.Fatalf("ComputeSegments failed: %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("expected exactly one Fit call, got %d", stub.calls)
	}
	for i, a := range result.Assignments {
		if a.Cluster != i%4 {
			t.Errorf("assignment %d: expected cluster %d, got %d", i, i%4, a.Cluster)
		}
	}
}
