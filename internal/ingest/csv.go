// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/clientele-io/clientele/internal/logging"
	"github.com/clientele-io/clientele/internal/models"
)

// ReadCSV decodes order rows from a CSV stream.
//
// The first row must be a header containing every required column under
// a recognized spelling. Rows with a wrong field count are counted and
// skipped. Exceeding the row cap is a DataFormatError.
func ReadCSV(r io.Reader, limits Limits) ([]models.RawOrder, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, models.NewDataFormatError("file is empty")
		}
		return nil, models.WrapDataFormatError("failed to read header row", err)
	}

	idx, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var (
		orders  []models.RawOrder
		skipped int
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, models.WrapDataFormatError("failed to read row", err)
		}
		if len(row) < len(header) {
			skipped++
			continue
		}

		if limits.MaxRows > 0 && len(orders) >= limits.MaxRows {
			return nil, models.NewDataFormatError(
				fmt.Sprintf("file exceeds the %d row limit", limits.MaxRows))
		}
		orders = append(orders, idx.rowToOrder(row))
	}

	if skipped > 0 {
		logging.Warn().Int("skipped_rows", skipped).Msg("Skipped structurally broken CSV rows")
	}
	return orders, nil
}
