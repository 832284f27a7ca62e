// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package segmentation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/clientele-io/clientele/internal/models"
)

// timestampLayouts are tried in order when parsing invoice timestamps.
// Retail exports are inconsistent: ISO-8601 from API clients, slash-dated
// spreadsheet formats from the classic online-retail CSV dumps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/06 15:04",
}

// Sanitize validates and normalizes raw order rows into a clean typed table.
//
// Per-row rules:
//   - rows with an empty customer id are dropped (not an error)
//   - quantity, unit price, customer id, and timestamp that are present but
//     uncoercible fail the whole request with a DataFormatError; a silent
//     zero would corrupt the unit-economic aggregates downstream
//   - rows with quantity <= 0 or unit price <= 0 are filtered out
//
// Sanitize is a pure transform: the input slice is never mutated.
func Sanitize(rows []models.RawOrder) ([]models.CleanOrder, error) {
	clean := make([]models.CleanOrder, 0, len(rows))

	for i, row := range rows {
		customerRaw := strings.TrimSpace(row.CustomerID)
		if customerRaw == "" {
			continue
		}

		customerID, err := parseIntLike(customerRaw)
		if err != nil {
			return nil, models.WrapDataFormatError(
				fmt.Sprintf("row %d: customer id %q is not numeric", i+1, row.CustomerID), err)
		}

		quantity, err := parseIntLike(strings.TrimSpace(row.Quantity))
		if err != nil {
			return nil, models.WrapDataFormatError(
				fmt.Sprintf("row %d: quantity %q is not numeric", i+1, row.Quantity), err)
		}

		unitPrice, err := strconv.ParseFloat(strings.TrimSpace(row.UnitPrice), 64)
		if err != nil {
			return nil, models.WrapDataFormatError(
				fmt.Sprintf("row %d: unit price %q is not numeric", i+1, row.UnitPrice), err)
		}

		ts, err := parseTimestamp(strings.TrimSpace(row.Timestamp))
		if err != nil {
			return nil, models.WrapDataFormatError(
				fmt.Sprintf("row %d: invoice timestamp %q is not parsable", i+1, row.Timestamp), err)
		}

		if quantity <= 0 || unitPrice <= 0 {
			continue
		}

		clean = append(clean, models.CleanOrder{
			InvoiceID:  strings.TrimSpace(row.InvoiceID),
			ProductID:  strings.TrimSpace(row.ProductID),
			Quantity:   quantity,
			Timestamp:  ts,
			UnitPrice:  unitPrice,
			CustomerID: customerID,
			Country:    strings.TrimSpace(row.Country),
		})
	}

	return clean, nil
}

// parseIntLike parses integers that may be serialized as floats
// ("17850" and "17850.0" both appear in real exports).
func parseIntLike(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.Trunc(f) != f {
		return 0, fmt.Errorf("%q has a fractional part", s)
	}
	return int(f), nil
}

// parseTimestamp tries the known invoice timestamp layouts in order.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("no known layout matches %q", s)
}
