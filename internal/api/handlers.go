// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package api

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clientele-io/clientele/internal/cache"
	"github.com/clientele-io/clientele/internal/charts"
	"github.com/clientele-io/clientele/internal/config"
	"github.com/clientele-io/clientele/internal/database"
	"github.com/clientele-io/clientele/internal/forecast"
	"github.com/clientele-io/clientele/internal/ingest"
	"github.com/clientele-io/clientele/internal/logging"
	"github.com/clientele-io/clientele/internal/metrics"
	"github.com/clientele-io/clientele/internal/models"
	"github.com/clientele-io/clientele/internal/recommend"
	"github.com/clientele-io/clientele/internal/segmentation"
	"github.com/clientele-io/clientele/internal/validation"
)

// Server holds the wired application components behind the HTTP API.
type Server struct {
	cfg        *config.Config
	db         *database.DB
	engine     *segmentation.Engine
	fallback   *recommend.Fallback
	forecaster *forecast.Forecaster
	results    *cache.ResultCache
}

// NewServer wires the HTTP layer over the given components.
func NewServer(cfg *config.Config, db *database.DB, forecaster *forecast.Forecaster) *Server {
	return &Server{
		cfg:        cfg,
		db:         db,
		engine:     segmentation.NewEngine(&cfg.Segmentation),
		fallback:   recommend.NewFallback(cfg.Recommend.ReferenceRegion),
		forecaster: forecaster,
		results:    cache.NewResultCache(64, 10*time.Minute),
	}
}

// readUpload extracts and decodes the transaction file of a multipart
// upload, returning the sanitized orders, the detected format, and the
// submitted filename.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]models.CleanOrder, string, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Ingest.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", "", models.WrapDataFormatError("missing or unreadable file field", err)
	}
	defer func(f multipart.File) {
		if cerr := f.Close(); cerr != nil {
			logging.Ctx(r.Context()).Warn().Err(cerr).Msg("Failed to close uploaded file")
		}
	}(file)

	format, err := ingest.FormatForFilename(header.Filename)
	if err != nil {
		return nil, "", header.Filename, err
	}

	limits := ingest.Limits{MaxRows: s.cfg.Ingest.MaxRows}
	var raw []models.RawOrder
	switch format {
	case "csv":
		raw, err = ingest.ReadCSV(file, limits)
	case "xlsx":
		raw, err = ingest.ReadXLSX(file, limits)
	}
	if err != nil {
		return nil, format, header.Filename, err
	}

	orders, err := segmentation.Sanitize(raw)
	if err != nil {
		return nil, format, header.Filename, err
	}
	return orders, format, header.Filename, nil
}

// handleUploadDataset decodes, sanitizes, and persists a transaction file.
func (s *Server) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	orders, format, filename, err := s.readUpload(w, r)
	if err != nil {
		metrics.RecordUpload(format, errorOutcome(err), 0)
		writeDomainError(w, r, err)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = filename
	}

	dataset, err := s.db.SaveDataset(r.Context(), name, orders)
	if err != nil {
		metrics.RecordUpload(format, errorOutcome(err), 0)
		writeDomainError(w, r, err)
		return
	}

	metrics.RecordUpload(format, "success", len(orders))
	writeSuccess(w, r, http.StatusCreated, dataset, start)
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	datasets, err := s.db.ListDatasets(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if datasets == nil {
		datasets = []models.Dataset{}
	}
	writeSuccess(w, r, http.StatusOK, datasets, start)
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	dataset, err := s.db.GetDataset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, dataset, start)
}

// handleDeleteDataset removes a dataset and drops its cached forecast models.
func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	if err := s.db.DeleteDataset(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.results.InvalidateDataset(id)
	if err := s.forecaster.Invalidate(id); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("dataset_id", id).
			Msg("Failed to drop cached forecast models")
	}

	writeSuccess(w, r, http.StatusOK, map[string]string{"id": id, "deleted": "true"}, start)
}

// segmentsParams holds the optional overrides of a segmentation request.
type segmentsParams struct {
	Clusters int `validate:"omitempty,min=2,max=4"`
}

// segmentsEngine resolves the optional clusters override and returns the
// engine to use plus the effective cluster count.
func (s *Server) segmentsEngine(r *http.Request) (*segmentation.Engine, int, error) {
	params := segmentsParams{}
	if raw := r.URL.Query().Get("clusters"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, 0, models.WrapDataFormatError("clusters must be an integer", err)
		}
		params.Clusters = n
	}
	if err := validation.ValidateStruct(params); err != nil {
		return nil, 0, err
	}
	if params.Clusters == 0 || params.Clusters == s.cfg.Segmentation.Clusters {
		return s.engine, s.cfg.Segmentation.Clusters, nil
	}

	cfg := s.cfg.Segmentation
	cfg.Clusters = params.Clusters
	return segmentation.NewEngine(&cfg), params.Clusters, nil
}

func (s *Server) runSegmentation(r *http.Request, engine *segmentation.Engine, orders []models.CleanOrder) (*models.SegmentationResult, error) {
	start := time.Now()
	result, err := engine.ComputeSegments(r.Context(), orders)
	if err != nil {
		metrics.RecordSegmentationRun(errorOutcome(err), 0, 0)
		return nil, err
	}
	metrics.RecordSegmentationRun("success", result.TotalCustomers, time.Since(start))
	return result, nil
}

// handleSegmentsOneShot segments an uploaded file without persisting it.
func (s *Server) handleSegmentsOneShot(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	engine, _, err := s.segmentsEngine(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	orders, _, _, err := s.readUpload(w, r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := s.runSegmentation(r, engine, orders)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, result, start)
}

// loadAndSegment segments a stored dataset, serving repeated requests
// from the result cache. The engine is deterministic, so a cached result
// is identical to a recomputed one.
func (s *Server) loadAndSegment(r *http.Request) (*models.SegmentationResult, error) {
	engine, clusters, err := s.segmentsEngine(r)
	if err != nil {
		return nil, err
	}

	id := chi.URLParam(r, "id")
	key := cache.Key(id, clusters)
	if result := s.results.Get(key); result != nil {
		return result, nil
	}

	orders, err := s.db.LoadOrders(r.Context(), id)
	if err != nil {
		return nil, err
	}
	result, err := s.runSegmentation(r, engine, orders)
	if err != nil {
		return nil, err
	}
	s.results.Put(key, result)
	return result, nil
}

// handleDatasetSegments segments a stored dataset.
func (s *Server) handleDatasetSegments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	result, err := s.loadAndSegment(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, result, start)
}

// handleSegmentsChart renders the segment distribution of a stored
// dataset as a pie chart.
func (s *Server) handleSegmentsChart(w http.ResponseWriter, r *http.Request) {
	result, err := s.loadAndSegment(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	buf, err := charts.SegmentPie(result.Summaries)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writePNG(w, r, buf.Bytes())
}

// handleFallbackRecommendation answers a cold-start product recommendation.
func (s *Server) handleFallbackRecommendation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	customerID, err := strconv.Atoi(chi.URLParam(r, "customerID"))
	if err != nil {
		writeDomainError(w, r,
			models.WrapDataFormatError("customer id must be an integer", err))
		return
	}

	orders, err := s.db.LoadOrders(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := s.fallback.Recommend(r.Context(), orders, customerID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, result, start)
}

func (s *Server) forecastProduct(r *http.Request) ([]models.DemandPoint, *models.ForecastResult, error) {
	datasetID := chi.URLParam(r, "id")
	productID := chi.URLParam(r, "productID")

	series, err := s.db.DailyDemand(r.Context(), datasetID, productID)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.forecaster.Forecast(r.Context(), datasetID, productID, series)
	if err != nil {
		return nil, nil, err
	}
	metrics.RecordForecast(result.FromCache)
	return series, result, nil
}

// handleForecast trains or loads a demand model and predicts the horizon.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	_, result, err := s.forecastProduct(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, r, http.StatusOK, result, start)
}

// handleForecastChart renders history plus predictions as a line chart.
func (s *Server) handleForecastChart(w http.ResponseWriter, r *http.Request) {
	series, result, err := s.forecastProduct(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	buf, err := charts.ForecastLine(series, result)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writePNG(w, r, buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, r, http.StatusOK, map[string]string{"status": "healthy"}, time.Time{})
}

func (s *Server) handleHealthLive(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, r, http.StatusOK, map[string]string{"status": "alive"}, time.Time{})
}

// handleHealthReady reports ready only when the dataset store answers.
func (s *Server) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Readiness check failed")
		writeAPIError(w, r, http.StatusServiceUnavailable, models.ErrCodeInternal,
			"dataset store unavailable")
		return
	}
	writeSuccess(w, r, http.StatusOK, map[string]string{"status": "ready"}, time.Time{})
}
