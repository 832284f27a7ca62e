// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

// Package ingest decodes uploaded transaction files into raw order rows.
//
// Two formats are supported: CSV and Excel (xlsx). Readers handle file
// structure only; every value stays a string and all coercion decisions
// belong to the segmentation sanitizer. Structurally broken CSV rows
// (wrong field count) are skipped, while an unreadable file or an
// unrecognizable header fails the upload.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/clientele-io/clientele/internal/models"
)

// Limits caps the work a single upload may cause.
type Limits struct {
	// MaxRows caps the number of data rows decoded from one file.
	MaxRows int
}

// columnAliases maps recognized header spellings to canonical columns.
// Covers both the service's own export names and the classic
// online-retail dataset headers (InvoiceNo, StockCode, InvoiceDate).
var columnAliases = map[string]string{
	"invoice_id":        "invoice_id",
	"invoiceno":         "invoice_id",
	"invoice":           "invoice_id",
	"product_id":        "product_id",
	"stockcode":         "product_id",
	"quantity":          "quantity",
	"invoice_timestamp": "timestamp",
	"invoicedate":       "timestamp",
	"unit_price":        "unit_price",
	"unitprice":         "unit_price",
	"price":             "unit_price",
	"customer_id":       "customer_id",
	"customerid":        "customer_id",
	"country":           "country",
}

// requiredColumns must all be present in a header for the file to decode.
var requiredColumns = []string{
	"invoice_id", "product_id", "quantity", "timestamp", "unit_price", "customer_id", "country",
}

// columnIndex maps canonical column names to their position in a file.
type columnIndex map[string]int

// mapHeader resolves a header row into a columnIndex. Unknown columns are
// ignored; a missing required column is a DataFormatError.
func mapHeader(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(requiredColumns))
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		key = strings.ReplaceAll(key, " ", "_")
		if canonical, ok := columnAliases[key]; ok {
			if _, dup := idx[canonical]; !dup {
				idx[canonical] = i
			}
		}
	}

	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, models.NewDataFormatError(
				fmt.Sprintf("required column %q not found in header %v", col, header))
		}
	}
	return idx, nil
}

// rowToOrder extracts a RawOrder from a data row using the column index.
// Short rows yield empty strings for the missing cells; the sanitizer
// decides what that means.
func (idx columnIndex) rowToOrder(row []string) models.RawOrder {
	cell := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	return models.RawOrder{
		InvoiceID:  cell("invoice_id"),
		ProductID:  cell("product_id"),
		Quantity:   cell("quantity"),
		Timestamp:  cell("timestamp"),
		UnitPrice:  cell("unit_price"),
		CustomerID: cell("customer_id"),
		Country:    cell("country"),
	}
}

// FormatForFilename reports the decoder format for an uploaded filename.
// Returns an error for extensions no decoder handles.
func FormatForFilename(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "csv", nil
	case ".xlsx", ".xlsm":
		return "xlsx", nil
	default:
		return "", models.NewDataFormatError(
			fmt.Sprintf("unsupported file type %q, expected .csv or .xlsx", filepath.Ext(name)))
	}
}
