// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package segmentation

import (
	"sort"
	"time"

	"github.com/clientele-io/clientele/internal/models"
)

// AggregateRFM computes the per-customer Recency/Frequency/Monetary table
// from sanitized orders.
//
// The snapshot date is derived from the data, not the wall clock: one day
// past the latest invoice timestamp in the input. Recency is the whole
// number of days between a customer's latest invoice and that snapshot,
// frequency counts distinct invoice ids, and monetary value sums
// quantity x unit price.
//
// The returned table is sorted by customer id so identical inputs always
// produce identical output ordering. An empty input is a DataFormatError:
// there is no population to derive a snapshot from.
func AggregateRFM(orders []models.CleanOrder) ([]models.CustomerRFM, time.Time, error) {
	if len(orders) == 0 {
		return nil, time.Time{}, models.NewDataFormatError(
			"no valid orders remain after sanitization")
	}

	type accum struct {
		lastInvoice time.Time
		invoices    map[string]struct{}
		monetary    float64
	}

	byCustomer := make(map[int]*accum)
	var maxTS time.Time

	for _, o := range orders {
		if o.Timestamp.After(maxTS) {
			maxTS = o.Timestamp
		}

		a, ok := byCustomer[o.CustomerID]
		if !ok {
			a = &accum{invoices: make(map[string]struct{})}
			byCustomer[o.CustomerID] = a
		}
		if o.Timestamp.After(a.lastInvoice) {
			a.lastInvoice = o.Timestamp
		}
		a.invoices[o.InvoiceID] = struct{}{}
		a.monetary += o.Total()
	}

	snapshot := maxTS.AddDate(0, 0, 1)

	table := make([]models.CustomerRFM, 0, len(byCustomer))
	for id, a := range byCustomer {
		table = append(table, models.CustomerRFM{
			CustomerID:    id,
			RecencyDays:   int(snapshot.Sub(a.lastInvoice).Hours() / 24),
			Frequency:     len(a.invoices),
			MonetaryValue: a.monetary,
		})
	}

	sort.Slice(table, func(i, j int) bool {
		return table[i].CustomerID < table[j].CustomerID
	})

	return table, snapshot, nil
}
