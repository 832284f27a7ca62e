// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package ingest

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/clientele-io/clientele/internal/models"
)

// buildWorkbook writes rows into the first sheet of an in-memory workbook
// and returns the serialized file.
func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("failed to build cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to set row %d: %v", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to serialize workbook: %v", err)
	}
	return buf
}

func TestReadXLSX(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"invoice_id", "product_id", "quantity", "invoice_timestamp", "unit_price", "customer_id", "country"},
		{"536365", "85123A", "6", "2024-01-01 08:26:00", "2.55", "17850", "Great Britain"},
		{"536366", "71053", "2", "2024-01-01 08:28:00", "3.39", "17850", "Great Britain"},
	})

	orders, err := ReadXLSX(buf, Limits{})
	if err != nil {
		t.Fatalf("ReadXLSX failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(orders))
	}
	if orders[0].InvoiceID != "536365" || orders[0].ProductID != "85123A" {
		t.Errorf("unexpected first row: %+v", orders[0])
	}
	if orders[1].UnitPrice != "3.39" {
		t.Errorf("expected unit price 3.39, got %q", orders[1].UnitPrice)
	}
}

func TestReadXLSXSkipsBlankRows(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"invoice_id", "product_id", "quantity", "invoice_timestamp", "unit_price", "customer_id", "country"},
		{"536365", "85123A", "6", "2024-01-01 08:26:00", "2.55", "17850", "Great Britain"},
		{"", "", "", "", "", "", ""},
		{"536366", "71053", "2", "2024-01-01 08:28:00", "3.39", "17850", "Great Britain"},
	})

	orders, err := ReadXLSX(buf, Limits{})
	if err != nil {
		t.Fatalf("ReadXLSX failed: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("expected blank row skipped, got %d rows", len(orders))
	}
}

func TestReadXLSXMissingColumn(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"invoice_id", "product_id", "quantity", "invoice_timestamp", "unit_price", "customer_id"},
		{"536365", "85123A", "6", "2024-01-01 08:26:00", "2.55", "17850"},
	})

	_, err := ReadXLSX(buf, Limits{})
	if !models.IsDataFormatError(err) {
		t.Errorf("expected DataFormatError for missing column, got %v", err)
	}
}

func TestReadXLSXNotAWorkbook(t *testing.T) {
	_, err := ReadXLSX(bytes.NewReader([]byte("this is not a zip archive")), Limits{})
	if !models.IsDataFormatError(err) {
		t.Errorf("expected DataFormatError for invalid file, got %v", err)
	}
}

func TestReadXLSXRowLimit(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"invoice_id", "product_id", "quantity", "invoice_timestamp", "unit_price", "customer_id", "country"},
		{"536365", "85123A", "6", "2024-01-01 08:26:00", "2.55", "17850", "Great Britain"},
		{"536366", "71053", "2", "2024-01-01 08:28:00", "3.39", "17850", "Great Britain"},
	})

	_, err := ReadXLSX(buf, Limits{MaxRows: 1})
	if !models.IsDataFormatError(err) {
		t.Errorf("expected DataFormatError for row limit, got %v", err)
	}
}
