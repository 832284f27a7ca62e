// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package segmentation

import (
	"math"
	"testing"
	"time"

	"github.com/clientele-io/clientele/internal/models"
)

func validRawOrder() models.RawOrder {
	return models.RawOrder{
		InvoiceID:  "536365",
		ProductID:  "85123A",
		Quantity:   "6",
		Timestamp:  "2024-01-01 08:26:00",
		UnitPrice:  "2.55",
		CustomerID: "17850",
		Country:    "Great Britain",
	}
}

func TestSanitizeValidRow(t *testing.T) {
	clean, err := Sanitize([]models.RawOrder{validRawOrder()})
	if err != nil {
		t.Fatalf("Sanitize failed: %v", err)
	}
	if len(clean) != 1 {
		t.Fatalf("expected 1 clean row, got %d", len(clean))
	}

	got := clean[0]
	if got.CustomerID != 17850 {
		t.Errorf("expected customer 17850, got %d", got.CustomerID)
	}
	if got.Quantity != 6 {
		t.Errorf("expected quantity 6, got %d", got.Quantity)
	}
	if got.UnitPrice != 2.55 {
		t.Errorf("expected unit price 2.55, got %g", got.UnitPrice)
	}
	want := time.Date(2024, 1, 1, 8, 26, 0, 0, time.UTC)
	if !got.Timestamp.Equal(want) {
		t.Errorf("expected timestamp %s, got %s", want, got.Timestamp)
	}
	// 6 * 2.55 is not exactly representable in float64.
	if math.Abs(got.Total()-15.3) > 1e-9 {
		t.Errorf("expected total 15.3, got %g", got.Total())
	}
}

func TestSanitizeDropsEmptyCustomerID(t *testing.T) {
	row := validRawOrder()
	row.CustomerID = "  "

	clean, err := Sanitize([]models.RawOrder{row})
	if err != nil {
		t.Fatalf("missing customer id should be dropped, not fail: %v", err)
	}
	if len(clean) != 0 {
		t.Errorf("expected 0 clean rows, got %d", len(clean))
	}
}

func TestSanitizeAcceptsFloatSerializedCustomerID(t *testing.T) {
	row := validRawOrder()
	row.CustomerID = "17850.0"

	clean, err := Sanitize([]models.RawOrder{row})
	if err != nil {
		t.Fatalf("integral float customer id should parse: %v", err)
	}
	if clean[0].CustomerID != 17850 {
		t.Errorf("expected customer 17850, got %d", clean[0].CustomerID)
	}
}

func TestSanitizeFiltersNonPositiveRows(t *testing.T) {
	returned := validRawOrder()
	returned.Quantity = "-2"
	freebie := validRawOrder()
	freebie.UnitPrice = "0"

	clean, err := Sanitize([]models.RawOrder{returned, freebie, validRawOrder()})
	if err != nil {
		t.Fatalf("Sanitize failed: %v", err)
	}
	if len(clean) != 1 {
		t.Errorf("expected returns and freebies filtered, got %d rows", len(clean))
	}
}

func TestSanitizeCoercionFailuresAreFatal(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.RawOrder)
	}{
		{"non-numeric quantity", func(r *models.RawOrder) { r.Quantity = "six" }},
		{"non-numeric unit price", func(r *models.RawOrder) { r.UnitPrice = "free" }},
		{"fractional customer id", func(r *models.RawOrder) { r.CustomerID = "17850.5" }},
		{"non-numeric customer id", func(r *models.RawOrder) { r.CustomerID = "anonymous" }},
		{"garbage timestamp", func(r *models.RawOrder) { r.Timestamp = "last tuesday" }},
		{"empty timestamp", func(r *models.RawOrder) { r.Timestamp = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := validRawOrder()
			tt.mutate(&bad)

			// The bad row must fail the whole batch, not be dropped.
			_, err := Sanitize([]models.RawOrder{validRawOrder(), bad})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !models.IsDataFormatError(err) {
				t.Errorf("expected DataFormatError, got %T: %v", err, err)
			}
		})
	}
}

func TestSanitizeTimestampLayouts(t *testing.T) {
	layouts := []string{
		"2024-01-01T08:26:00Z",
		"2024-01-01T08:26:00",
		"2024-01-01 08:26",
		"2024-01-01",
		"1/1/2024 08:26:00",
		"12/1/2010 8:26",
	}

	for _, raw := range layouts {
		t.Run(raw, func(t *testing.T) {
			row := validRawOrder()
			row.Timestamp = raw
			if _, err := Sanitize([]models.RawOrder{row}); err != nil {
				t.Errorf("timestamp %q should parse: %v", raw, err)
			}
		})
	}
}

func TestSanitizeEmptyInput(t *testing.T) {
	clean, err := Sanitize(nil)
	if err != nil {
		t.Fatalf("empty input should sanitize to empty, got %v", err)
	}
	if len(clean) != 0 {
		t.Errorf("expected empty output, got %d rows", len(clean))
	}
}
