// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

// Package forecast provides the per-product demand forecaster.
//
// A windowed autoregressive model is trained on the min-max scaled daily
// demand series: each training sample maps the previous Window days onto
// the next day's demand. Prediction rolls the window forward, feeding
// each predicted step back in as input for the next. Trained models are
// cached in BadgerDB keyed by dataset and product, so repeat forecasts
// load instead of retraining.
package forecast

import (
	"fmt"
	"time"

	"github.com/clientele-io/clientele/internal/models"
)

// Model is a trained windowed autoregressive demand model.
type Model struct {
	Window    int          `json:"window"`
	Weights   []float64    `json:"weights"`
	Bias      float64      `json:"bias"`
	Scaler    MinMaxScaler `json:"scaler"`
	TrainedAt time.Time    `json:"trained_at"`
}

// learningRate for full-batch gradient descent. Inputs are scaled to
// [0,1], so a fixed rate converges across products.
const learningRate = 0.01

// Train fits a model of the given window length on the demand series.
// Training needs at least window+1 points to form one sample; shorter
// series are a DataFormatError since more data is the only remedy.
func Train(series []float64, window, epochs int) (*Model, error) {
	if window < 2 {
		return nil, models.NewInternalError(fmt.Sprintf("window must be >= 2, got %d", window))
	}
	if len(series) < window+1 {
		return nil, models.NewDataFormatError(fmt.Sprintf(
			"demand history has %d points, need at least %d to train a forecast", len(series), window+1))
	}
	if epochs < 1 {
		epochs = 1
	}

	m := &Model{
		Window:    window,
		Weights:   make([]float64, window),
		TrainedAt: time.Now().UTC(),
	}
	m.Scaler.Fit(series)
	scaled := m.Scaler.TransformAll(series)

	samples := len(scaled) - window
	gradW := make([]float64, window)

	for epoch := 0; epoch < epochs; epoch++ {
		for i := range gradW {
			gradW[i] = 0
		}
		var gradB float64

		for s := 0; s < samples; s++ {
			input := scaled[s : s+window]
			pred := m.step(input)
			residual := pred - scaled[s+window]
			for i, v := range input {
				gradW[i] += residual * v
			}
			gradB += residual
		}

		scale := learningRate / float64(samples)
		for i := range m.Weights {
			m.Weights[i] -= scale * gradW[i]
		}
		m.Bias -= scale * gradB
	}

	return m, nil
}

// step predicts the next scaled value from a scaled window.
func (m *Model) step(window []float64) float64 {
	out := m.Bias
	for i, v := range window {
		out += m.Weights[i] * v
	}
	return out
}

// Predict rolls the model horizon steps past the end of the series and
// returns the predictions in the original scale. Negative demand is
// clamped to zero.
func (m *Model) Predict(series []float64, horizon int) ([]float64, error) {
	if len(series) < m.Window {
		return nil, models.NewDataFormatError(fmt.Sprintf(
			"demand history has %d points, need at least %d to forecast", len(series), m.Window))
	}

	window := m.Scaler.TransformAll(series[len(series)-m.Window:])
	predictions := make([]float64, horizon)

	for h := 0; h < horizon; h++ {
		next := m.step(window)
		copy(window, window[1:])
		window[m.Window-1] = next

		v := m.Scaler.Inverse(next)
		if v < 0 {
			v = 0
		}
		predictions[h] = v
	}

	return predictions, nil
}
