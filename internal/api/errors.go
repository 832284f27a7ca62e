// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package api

import (
	"errors"
	"net/http"

	"github.com/clientele-io/clientele/internal/database"
	"github.com/clientele-io/clientele/internal/logging"
	"github.com/clientele-io/clientele/internal/models"
	"github.com/clientele-io/clientele/internal/validation"
)

// writeDomainError maps a pipeline error onto the HTTP contract.
// Malformed input data is the caller's fault (400), a missing dataset is
// 404, and anything else is an engine defect reported as 500 with the
// detail kept in the server log.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	switch {
	case models.IsDataFormatError(err):
		writeAPIError(w, r, http.StatusBadRequest, models.ErrCodeDataFormat, err.Error())

	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		writeAPIError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message)

	case errors.Is(err, database.ErrDatasetNotFound):
		writeAPIError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "dataset not found")

	default:
		logging.Ctx(r.Context()).Error().Err(err).
			Str("path", r.URL.Path).
			Msg("Request failed with internal error")
		writeAPIError(w, r, http.StatusInternalServerError, models.ErrCodeInternal,
			"internal server error")
	}
}

// errorOutcome labels an error for metrics.
func errorOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case models.IsDataFormatError(err):
		return "data_format_error"
	default:
		return "internal_error"
	}
}
