// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clientele-io/clientele/internal/config"
	"github.com/clientele-io/clientele/internal/logging"
	"github.com/clientele-io/clientele/internal/metrics"
	"github.com/clientele-io/clientele/internal/models"
)

// Forecaster produces per-product demand forecasts with a train-or-load
// model cache. Safe for concurrent use; concurrent first requests for
// the same product may both train, with the later Save winning, which is
// harmless because training is deterministic.
type Forecaster struct {
	store   *ModelStore
	window  int
	horizon int
	epochs  int
}

// NewForecaster builds a Forecaster on the given model store.
func NewForecaster(store *ModelStore, cfg *config.ForecastConfig) *Forecaster {
	return &Forecaster{
		store:   store,
		window:  cfg.Window,
		horizon: cfg.Horizon,
		epochs:  cfg.Epochs,
	}
}

// Forecast predicts the next horizon days of demand for one product.
//
// A cached model for (dataset, product) is used when present; otherwise
// a model is trained on the series and cached. The series must contain
// at least window+1 points.
func (f *Forecaster) Forecast(ctx context.Context, datasetID, productID string, series []models.DemandPoint) (*models.ForecastResult, error) {
	if len(series) == 0 {
		return nil, models.NewDataFormatError(fmt.Sprintf(
			"product %q has no demand history in the dataset", productID))
	}

	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Quantity
	}

	log := logging.Ctx(ctx)
	fromCache := true

	model, err := f.store.Load(datasetID, productID)
	if errors.Is(err, ErrModelNotCached) {
		fromCache = false
		start := time.Now()
		model, err = Train(values, f.window, f.epochs)
		if err != nil {
			return nil, err
		}
		metrics.ForecastTrainingDuration.Observe(time.Since(start).Seconds())
		if saveErr := f.store.Save(datasetID, productID, model); saveErr != nil {
			log.Warn().Err(saveErr).Str("product_id", productID).Msg("Failed to cache trained model")
		}
		log.Info().
			Str("dataset_id", datasetID).
			Str("product_id", productID).
			Int("series_points", len(values)).
			Dur("training_time", time.Since(start)).
			Msg("Demand model trained")
	} else if err != nil {
		return nil, err
	}

	predicted, err := model.Predict(values, f.horizon)
	if err != nil {
		return nil, err
	}

	return &models.ForecastResult{
		DatasetID:   datasetID,
		ProductID:   productID,
		Horizon:     f.horizon,
		Predicted:   predicted,
		TrainedAt:   model.TrainedAt,
		FromCache:   fromCache,
		SeriesStart: series[0].Day,
		SeriesEnd:   series[len(series)-1].Day,
	}, nil
}

// Invalidate drops cached models for a dataset.
func (f *Forecaster) Invalidate(datasetID string) error {
	return f.store.DeleteDataset(datasetID)
}
