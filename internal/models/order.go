// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

// Package models defines the shared data contracts for the segmentation
// engine, the fallback recommender, the dataset store, and the HTTP layer.
//
// The central types follow the transaction lifecycle:
//
//	RawOrder   - one row as read from an uploaded file, all fields unparsed
//	CleanOrder - a validated, typed row that survived sanitization
//	CustomerRFM / ScoreVector / SegmentSummary - derived per-run values
//
// RawOrder and CleanOrder are transient and owned by the request that
// supplied them; nothing in this module mutates a row after sanitization.
package models

import "time"

// RawOrder is a single order row as decoded from an uploaded CSV or
// spreadsheet file. All fields are kept as strings so the sanitizer owns
// every coercion decision; the file readers only handle row structure.
type RawOrder struct {
	InvoiceID  string `json:"invoice_id"`
	ProductID  string `json:"product_id"`
	Quantity   string `json:"quantity"`
	Timestamp  string `json:"invoice_timestamp"`
	UnitPrice  string `json:"unit_price"`
	CustomerID string `json:"customer_id"`
	Country    string `json:"country"`
}

// CleanOrder is an order row that passed sanitization.
//
// Invariant: Quantity > 0, UnitPrice > 0, CustomerID is set, and
// Timestamp is a parsed, non-zero time.
type CleanOrder struct {
	InvoiceID  string    `json:"invoice_id"`
	ProductID  string    `json:"product_id"`
	Quantity   int       `json:"quantity"`
	Timestamp  time.Time `json:"invoice_timestamp"`
	UnitPrice  float64   `json:"unit_price"`
	CustomerID int       `json:"customer_id"`
	Country    string    `json:"country"`
}

// Total returns the monetary value of the order line (quantity x unit price).
func (o CleanOrder) Total() float64 {
	return float64(o.Quantity) * o.UnitPrice
}

// Dataset describes a stored, sanitized transaction set.
type Dataset struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	RowCount   int64     `json:"row_count"`
	Customers  int64     `json:"customers"`
	FirstOrder time.Time `json:"first_order"`
	LastOrder  time.Time `json:"last_order"`
	UploadedAt time.Time `json:"uploaded_at"`
}
