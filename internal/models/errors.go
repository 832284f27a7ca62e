// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package models

import (
	"errors"
	"fmt"
)

// DataFormatError indicates malformed or insufficient input data.
// It is recoverable by the caller by supplying better data, and maps to
// an HTTP 400 response at the API boundary. The engine surfaces it instead
// of silently patching values because the computed aggregates are
// unit-economic: a silently zeroed price corrupts every downstream number.
type DataFormatError struct {
	// Reason describes what was wrong with the input.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data format error: %s: %v", e.Reason, e.Err)
	}
	return "data format error: " + e.Reason
}

// Unwrap returns the underlying cause.
func (e *DataFormatError) Unwrap() error {
	return e.Err
}

// NewDataFormatError creates a DataFormatError with the given reason.
func NewDataFormatError(reason string) *DataFormatError {
	return &DataFormatError{Reason: reason}
}

// WrapDataFormatError creates a DataFormatError wrapping an underlying cause.
func WrapDataFormatError(reason string, err error) *DataFormatError {
	return &DataFormatError{Reason: reason, Err: err}
}

// IsDataFormatError reports whether err is (or wraps) a DataFormatError.
func IsDataFormatError(err error) bool {
	var dfe *DataFormatError
	return errors.As(err, &dfe)
}

// InternalError indicates a violated engine invariant. It signals a bug,
// aborts the whole run, and maps to an HTTP 500 response at the API
// boundary. The engine never degrades to a partial result instead.
type InternalError struct {
	// Reason describes the violated invariant.
	Reason string
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	return "internal error: " + e.Reason
}

// NewInternalError creates an InternalError with the given reason.
func NewInternalError(reason string) *InternalError {
	return &InternalError{Reason: reason}
}

// IsInternalError reports whether err is (or wraps) an InternalError.
func IsInternalError(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}
