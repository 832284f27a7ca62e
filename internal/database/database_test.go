// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clientele-io/clientele/internal/config"
	"github.com/clientele-io/clientele/internal/models"
)

// testDBSemaphore serializes DuckDB lifecycles across tests. Concurrent
// CGO connections can hang under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "1GB",
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return db
}

func testOrders() []models.CleanOrder {
	day := func(d int) time.Time {
		return time.Date(2024, 1, d, 10, 0, 0, 0, time.UTC)
	}
	return []models.CleanOrder{
		{InvoiceID: "A1", ProductID: "85123A", Quantity: 6, Timestamp: day(1), UnitPrice: 2.55, CustomerID: 17850, Country: "Great Britain"},
		{InvoiceID: "A2", ProductID: "85123A", Quantity: 2, Timestamp: day(2), UnitPrice: 2.55, CustomerID: 17850, Country: "Great Britain"},
		{InvoiceID: "B1", ProductID: "71053", Quantity: 1, Timestamp: day(3), UnitPrice: 3.39, CustomerID: 13047, Country: "France"},
	}
}

func TestSaveAndGetDataset(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	ds, err := db.SaveDataset(ctx, "january", testOrders())
	if err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}
	if ds.ID == "" {
		t.Fatal("expected a generated dataset id")
	}
	if ds.RowCount != 3 || ds.Customers != 2 {
		t.Errorf("expected 3 rows and 2 customers, got %d and %d", ds.RowCount, ds.Customers)
	}

	got, err := db.GetDataset(ctx, ds.ID)
	if err != nil {
		t.Fatalf("GetDataset failed: %v", err)
	}
	if got.Name != "january" {
		t.Errorf("expected name january, got %q", got.Name)
	}
	if !got.FirstOrder.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected first order %s", got.FirstOrder)
	}
	if !got.LastOrder.Equal(time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected last order %s", got.LastOrder)
	}
}

func TestSaveDatasetRejectsEmpty(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.SaveDataset(context.Background(), "empty", nil)
	if !models.IsDataFormatError(err) {
		t.Errorf("expected DataFormatError, got %v", err)
	}
}

func TestGetDatasetNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetDataset(context.Background(), "no-such-id")
	if !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("expected ErrDatasetNotFound, got %v", err)
	}
}

func TestListDatasets(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.SaveDataset(ctx, "first", testOrders()); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}
	if _, err := db.SaveDataset(ctx, "second", testOrders()); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	datasets, err := db.ListDatasets(ctx)
	if err != nil {
		t.Fatalf("ListDatasets failed: %v", err)
	}
	if len(datasets) != 2 {
		t.Errorf("expected 2 datasets, got %d", len(datasets))
	}
}

func TestDeleteDataset(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	ds, err := db.SaveDataset(ctx, "doomed", testOrders())
	if err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	if err := db.DeleteDataset(ctx, ds.ID); err != nil {
		t.Fatalf("DeleteDataset failed: %v", err)
	}
	if _, err := db.GetDataset(ctx, ds.ID); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("expected dataset gone, got %v", err)
	}
	if _, err := db.LoadOrders(ctx, ds.ID); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("expected orders gone, got %v", err)
	}

	if err := db.DeleteDataset(ctx, ds.ID); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("second delete should report not found, got %v", err)
	}
}

func TestLoadOrdersRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	ds, err := db.SaveDataset(ctx, "roundtrip", testOrders())
	if err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	orders, err := db.LoadOrders(ctx, ds.ID)
	if err != nil {
		t.Fatalf("LoadOrders failed: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}

	// Ordered by invoice timestamp.
	if orders[0].InvoiceID != "A1" || orders[2].InvoiceID != "B1" {
		t.Errorf("unexpected order sequence: %v, %v, %v",
			orders[0].InvoiceID, orders[1].InvoiceID, orders[2].InvoiceID)
	}
	if orders[0].Quantity != 6 || orders[0].UnitPrice != 2.55 {
		t.Errorf("unexpected first order values: %+v", orders[0])
	}
	if orders[0].CustomerID != 17850 || orders[0].Country != "Great Britain" {
		t.Errorf("unexpected first order identity: %+v", orders[0])
	}
}

func TestDailyDemand(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	ds, err := db.SaveDataset(ctx, "demand", testOrders())
	if err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	series, err := db.DailyDemand(ctx, ds.ID, "85123A")
	if err != nil {
		t.Fatalf("DailyDemand failed: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 demand days, got %d", len(series))
	}
	if series[0].Quantity != 6 || series[1].Quantity != 2 {
		t.Errorf("unexpected quantities: %g, %g", series[0].Quantity, series[1].Quantity)
	}
	if !series[0].Day.Before(series[1].Day) {
		t.Error("series must be ordered by day")
	}

	empty, err := db.DailyDemand(ctx, ds.ID, "NOPE")
	if err != nil {
		t.Fatalf("DailyDemand for unknown product failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty series, got %d points", len(empty))
	}
}
