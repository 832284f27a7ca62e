// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

// Package recommend implements the cold-start fallback recommender.
//
// A customer with no purchase history cannot be segmented or targeted, so
// the recommender falls back to the single most popular product in a
// configured reference region. Popularity is the count of order rows for
// the product, not the summed quantity, matching the behavior analysts
// already rely on.
package recommend

import (
	"context"
	"fmt"

	"github.com/clientele-io/clientele/internal/logging"
	"github.com/clientele-io/clientele/internal/models"
)

// Fallback chooses products for customers absent from the transaction set.
// It is stateless and safe for concurrent use.
type Fallback struct {
	referenceRegion string
}

// NewFallback builds a Fallback using the given reference region.
func NewFallback(referenceRegion string) *Fallback {
	return &Fallback{referenceRegion: referenceRegion}
}

// Recommend returns the fallback product for customerID.
//
// If the customer appears anywhere in the sanitized orders no fallback is
// needed and the result says so. Otherwise the most frequent product id
// among the reference region's rows is returned, ties broken by the
// lexicographically smaller product id so the outcome never depends on
// input order. A reference region with no rows is a DataFormatError.
func (f *Fallback) Recommend(ctx context.Context, orders []models.CleanOrder, customerID int) (*models.FallbackResult, error) {
	for _, o := range orders {
		if o.CustomerID == customerID {
			return &models.FallbackResult{
				CustomerID:       customerID,
				NoFallbackNeeded: true,
			}, nil
		}
	}

	counts := make(map[string]int)
	for _, o := range orders {
		if o.Country == f.referenceRegion {
			counts[o.ProductID]++
		}
	}
	if len(counts) == 0 {
		return nil, models.NewDataFormatError(fmt.Sprintf(
			"reference region %q has no rows in the dataset", f.referenceRegion))
	}

	var bestProduct string
	var bestCount int
	for product, count := range counts {
		if count > bestCount || (count == bestCount && product < bestProduct) {
			bestProduct = product
			bestCount = count
		}
	}

	logging.Ctx(ctx).Debug().
		Int("customer_id", customerID).
		Str("region", f.referenceRegion).
		Str("product_id", bestProduct).
		Int("occurrences", bestCount).
		Msg("Cold-start fallback selected")

	return &models.FallbackResult{
		CustomerID:  customerID,
		ProductID:   bestProduct,
		Region:      f.referenceRegion,
		Occurrences: bestCount,
	}, nil
}
