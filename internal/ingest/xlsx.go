// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/clientele-io/clientele/internal/logging"
	"github.com/clientele-io/clientele/internal/models"
)

// ReadXLSX decodes order rows from the first sheet of an Excel workbook.
//
// The first row of the sheet must be a recognizable header. Blank rows
// are skipped. Exceeding the row cap is a DataFormatError.
func ReadXLSX(r io.Reader, limits Limits) ([]models.RawOrder, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, models.WrapDataFormatError("failed to open workbook", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error closing workbook")
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, models.NewDataFormatError("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, models.WrapDataFormatError("failed to read sheet rows", err)
	}
	if len(rows) == 0 {
		return nil, models.NewDataFormatError("file is empty")
	}

	idx, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	orders := make([]models.RawOrder, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		if limits.MaxRows > 0 && len(orders) >= limits.MaxRows {
			return nil, models.NewDataFormatError(
				fmt.Sprintf("file exceeds the %d row limit", limits.MaxRows))
		}
		orders = append(orders, idx.rowToOrder(row))
	}
	return orders, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
