// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/clientele-io/clientele/internal/logging"
	"github.com/clientele-io/clientele/internal/models"
)

// writeJSON serializes v into the response. Encoding failures are logged
// but cannot be reported to the client because the header is already out.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func metadataFor(r *http.Request, start time.Time) models.Metadata {
	md := models.Metadata{
		Timestamp: time.Now().UTC(),
		RequestID: logging.RequestIDFromContext(r.Context()),
	}
	if !start.IsZero() {
		md.QueryTimeMS = time.Since(start).Milliseconds()
	}
	return md
}

// writeSuccess wraps data in the standard response envelope.
func writeSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}, start time.Time) {
	writeJSON(w, r, status, models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: metadataFor(r, start),
	})
}

// writeAPIError writes an error envelope with a null data field.
func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, models.APIResponse{
		Status:   "error",
		Metadata: metadataFor(r, time.Time{}),
		Error:    &models.APIError{Code: code, Message: message},
	})
}

// writePNG streams a rendered chart to the client.
func writePNG(w http.ResponseWriter, r *http.Request, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write PNG response")
	}
}
