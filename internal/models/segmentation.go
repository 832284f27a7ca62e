// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package models

import "time"

// CustomerRFM holds the Recency/Frequency/Monetary feature vector for one
// customer, computed once per aggregation pass and immutable afterward.
type CustomerRFM struct {
	// CustomerID is the customer this vector belongs to.
	CustomerID int `json:"customer_id"`

	// RecencyDays is the number of days between the snapshot date and the
	// customer's most recent invoice. Always >= 0 because the snapshot date
	// is one day past the latest invoice in the dataset.
	RecencyDays int `json:"recency_days"`

	// Frequency is the count of distinct invoice ids. Always >= 1.
	Frequency int `json:"frequency"`

	// MonetaryValue is the sum of quantity x unit price across the
	// customer's orders.
	MonetaryValue float64 `json:"monetary_value"`
}

// ScoreVector holds the ordinal RFM scores for one customer.
// Each component is in [1,5]. A higher RScore means more recently active;
// higher FScore/MScore mean more purchases/spend.
type ScoreVector struct {
	CustomerID int `json:"customer_id"`
	RScore     int `json:"r_score"`
	FScore     int `json:"f_score"`
	MScore     int `json:"m_score"`
}

// Sum returns the total of the three score components. Used to rank
// clusters when attaching segment labels.
func (s ScoreVector) Sum() int {
	return s.RScore + s.FScore + s.MScore
}

// CustomerSegment is the per-customer cluster assignment.
type CustomerSegment struct {
	CustomerID int         `json:"customer_id"`
	Cluster    int         `json:"cluster"`
	Label      string      `json:"label"`
	Scores     ScoreVector `json:"scores"`
}

// SegmentSummary aggregates one cluster for reporting: how many customers
// it holds, its share of the population, and its mean scores.
type SegmentSummary struct {
	Cluster    int     `json:"cluster"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	MeanR      float64 `json:"mean_r_score"`
	MeanF      float64 `json:"mean_f_score"`
	MeanM      float64 `json:"mean_m_score"`
}

// SegmentationResult is the full output of one segmentation run.
type SegmentationResult struct {
	// SnapshotDate anchors the recency computation: one day past the
	// latest invoice in the dataset, recomputed every run.
	SnapshotDate time.Time `json:"snapshot_date"`

	// TotalCustomers is the number of distinct customers segmented.
	TotalCustomers int `json:"total_customers"`

	// Summaries holds one entry per cluster, ordered by cluster id.
	Summaries []SegmentSummary `json:"summaries"`

	// Assignments holds the per-customer cluster assignment, ordered by
	// customer id for deterministic output.
	Assignments []CustomerSegment `json:"assignments"`
}

// FallbackResult is the outcome of a cold-start fallback recommendation.
// Exactly one of NoFallbackNeeded or ProductID is meaningful: when the
// queried customer exists in the dataset no fallback is computed.
type FallbackResult struct {
	CustomerID       int    `json:"customer_id"`
	NoFallbackNeeded bool   `json:"no_fallback_needed"`
	ProductID        string `json:"product_id,omitempty"`
	Region           string `json:"region,omitempty"`
	Occurrences      int    `json:"occurrences,omitempty"`
}

// DemandPoint is one day of summed sales quantity for a product.
type DemandPoint struct {
	Day      time.Time `json:"day"`
	Quantity float64   `json:"quantity"`
}

// ForecastResult is the output of the demand forecast wrapper.
type ForecastResult struct {
	DatasetID   string    `json:"dataset_id"`
	ProductID   string    `json:"product_id"`
	Horizon     int       `json:"horizon"`
	Predicted   []float64 `json:"predicted"`
	TrainedAt   time.Time `json:"trained_at"`
	FromCache   bool      `json:"from_cache"`
	SeriesStart time.Time `json:"series_start"`
	SeriesEnd   time.Time `json:"series_end"`
}
