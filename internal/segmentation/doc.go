// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

// Package segmentation implements the behavioral segmentation engine:
// sanitization of raw order rows, per-customer RFM aggregation,
// quantization of RFM features into ordinal 1-5 scores, k-means grouping
// of the score vectors, and per-cluster summary reporting.
//
// The engine is a pure, synchronous batch computation. Every run derives
// its own snapshot date and bin edges from the input population and keeps
// no state between invocations, so concurrent requests are fully isolated.
//
// Pipeline:
//
//	raw rows -> Sanitize -> AggregateRFM -> Quantize -> Clusterer.Fit -> summaries
//
// Errors are split into two kinds: *models.DataFormatError for malformed
// or insufficient input (the caller can retry with better data) and
// *models.InternalError for violated engine invariants (a bug; the run is
// aborted rather than degraded to a partial result).
package segmentation
