// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package models

import "time"

// APIResponse is the standard envelope for all JSON API responses.
type APIResponse struct {
	// Status is "success" or "error".
	Status string `json:"status"`

	// Data contains the response payload (null on error).
	Data interface{} `json:"data"`

	// Metadata contains response metadata (timestamp, timing).
	Metadata Metadata `json:"metadata"`

	// Error contains error details when Status is "error".
	Error *APIError `json:"error,omitempty"`
}

// Metadata holds response metadata.
type Metadata struct {
	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`

	// QueryTimeMS is the processing time in milliseconds.
	QueryTimeMS int64 `json:"query_time_ms,omitempty"`

	// RequestID is the request correlation id, when available.
	RequestID string `json:"request_id,omitempty"`
}

// APIError carries a machine-readable code and a human-readable message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes used by the HTTP layer. DataFormatError maps to
// DATA_FORMAT_ERROR (400) and InternalError to INTERNAL_ERROR (500).
const (
	ErrCodeDataFormat       = "DATA_FORMAT_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeUpload           = "UPLOAD_ERROR"
)
