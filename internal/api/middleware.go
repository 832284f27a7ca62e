// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package api

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/clientele-io/clientele/internal/config"
	"github.com/clientele-io/clientele/internal/models"
)

// corsMiddleware builds the CORS handler from the configured origins.
// An empty origin list allows any origin, matching local development use.
func corsMiddleware(cfg *config.APIConfig) func(http.Handler) http.Handler {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// rateLimitMiddleware limits requests per client IP. Returns nil when
// rate limiting is disabled so the router can skip it.
func rateLimitMiddleware(cfg *config.APIConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled {
		return nil
	}
	return httprate.Limit(
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(w, r, http.StatusTooManyRequests, "RATE_LIMITED",
				"too many requests, slow down")
		}),
	)
}

// securityHeaders sets the baseline response headers for an API that
// serves JSON and PNG only.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// methodNotAllowed is the router-wide 405 handler.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeAPIError(w, r, http.StatusMethodNotAllowed, models.ErrCodeMethodNotAllowed,
		"method not allowed")
}

// notFound is the router-wide 404 handler.
func notFound(w http.ResponseWriter, r *http.Request) {
	writeAPIError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "route not found")
}
