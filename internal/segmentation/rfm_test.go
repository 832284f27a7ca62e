// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package segmentation

import (
	"testing"
	"time"

	"github.com/clientele-io/clientele/internal/models"
)

func orderAt(customer int, invoice string, day time.Time, qty int, price float64) models.CleanOrder {
	return models.CleanOrder{
		InvoiceID:  invoice,
		ProductID:  "85123A",
		Quantity:   qty,
		Timestamp:  day,
		UnitPrice:  price,
		CustomerID: customer,
		Country:    "Great Britain",
	}
}

// Mirrors the documented two-customer reference case: snapshot lands one
// day past the latest invoice and the RFM values follow from it.
func TestAggregateRFMReferenceCase(t *testing.T) {
	orders := []models.CleanOrder{
		orderAt(1, "A", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 2, 5),
		orderAt(2, "B", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 1, 500),
	}

	table, snapshot, err := AggregateRFM(orders)
	if err != nil {
		t.Fatalf("AggregateRFM failed: %v", err)
	}

	wantSnapshot := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	if !snapshot.Equal(wantSnapshot) {
		t.Errorf("expected snapshot %s, got %s", wantSnapshot, snapshot)
	}
	if len(table) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(table))
	}

	c1, c2 := table[0], table[1]
	if c1.CustomerID != 1 || c2.CustomerID != 2 {
		t.Fatalf("expected table sorted by customer id, got %d,%d", c1.CustomerID, c2.CustomerID)
	}
	if c1.RecencyDays != 10 || c1.Frequency != 1 || c1.MonetaryValue != 10 {
		t.Errorf("customer 1: got recency=%d frequency=%d monetary=%g, want 10/1/10",
			c1.RecencyDays, c1.Frequency, c1.MonetaryValue)
	}
	if c2.RecencyDays != 1 || c2.Frequency != 1 || c2.MonetaryValue != 500 {
		t.Errorf("customer 2: got recency=%d frequency=%d monetary=%g, want 1/1/500",
			c2.RecencyDays, c2.Frequency, c2.MonetaryValue)
	}
}

func TestAggregateRFMCountsDistinctInvoices(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := []models.CleanOrder{
		orderAt(7, "INV-1", day, 1, 10),
		orderAt(7, "INV-1", day, 3, 4), // second line of the same invoice
		orderAt(7, "INV-2", day.AddDate(0, 0, 5), 2, 25),
	}

	table, _, err := AggregateRFM(orders)
	if err != nil {
		t.Fatalf("AggregateRFM failed: %v", err)
	}
	if len(table) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(table))
	}

	got := table[0]
	if got.Frequency != 2 {
		t.Errorf("expected 2 distinct invoices, got %d", got.Frequency)
	}
	if got.MonetaryValue != 72 {
		t.Errorf("expected monetary 72, got %g", got.MonetaryValue)
	}
	if got.RecencyDays != 1 {
		t.Errorf("latest invoice should give recency 1, got %d", got.RecencyDays)
	}
}

func TestAggregateRFMEmptyInput(t *testing.T) {
	_, _, err := AggregateRFM(nil)
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	if !models.IsDataFormatError(err) {
		t.Errorf("expected DataFormatError, got %T: %v", err, err)
	}
}
