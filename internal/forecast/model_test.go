// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package forecast

import (
	"math"
	"testing"

	"github.com/clientele-io/clientele/internal/models"
)

func constantSeries(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func rampSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestScalerRoundTrip(t *testing.T) {
	s := &MinMaxScaler{}
	series := []float64{10, 50, 30, 90}
	s.Fit(series)

	if s.Min != 10 || s.Max != 90 {
		t.Fatalf("expected bounds [10,90], got [%g,%g]", s.Min, s.Max)
	}
	for _, v := range series {
		scaled := s.Transform(v)
		if scaled < 0 || scaled > 1 {
			t.Errorf("Transform(%g) = %g out of [0,1]", v, scaled)
		}
		if got := s.Inverse(scaled); math.Abs(got-v) > 1e-9 {
			t.Errorf("round trip of %g gave %g", v, got)
		}
	}
}

func TestScalerConstantSeries(t *testing.T) {
	s := &MinMaxScaler{}
	s.Fit(constantSeries(7, 5))

	if got := s.Transform(7); got != 0 {
		t.Errorf("constant series should scale to 0, got %g", got)
	}
	if got := s.Inverse(0); got != 7 {
		t.Errorf("inverse of 0 should restore 7, got %g", got)
	}
}

func TestTrainTooShortSeries(t *testing.T) {
	_, err := Train(constantSeries(5, 10), 10, 50)
	if err == nil {
		t.Fatal("expected error for series shorter than window+1")
	}
	if !models.IsDataFormatError(err) {
		t.Errorf("expected DataFormatError, got %T: %v", err, err)
	}
}

func TestTrainAndPredictConstantDemand(t *testing.T) {
	series := constantSeries(20, 40)
	m, err := Train(series, 10, 500)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	predicted, err := m.Predict(series, 5)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if len(predicted) != 5 {
		t.Fatalf("expected 5 predictions, got %d", len(predicted))
	}
	// A constant history scales to all zeros, so predictions invert back
	// onto the constant.
	for i, v := range predicted {
		if math.Abs(v-20) > 5 {
			t.Errorf("prediction %d = %g, expected near 20", i, v)
		}
	}
}

func TestPredictNeverNegative(t *testing.T) {
	// A steep downward ramp pushes raw predictions below zero.
	n := 30
	series := make([]float64, n)
	for i := range series {
		series[i] = float64(n - i)
	}

	m, err := Train(series, 5, 200)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	predicted, err := m.Predict(series, 20)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i, v := range predicted {
		if v < 0 {
			t.Errorf("prediction %d = %g, demand must not go negative", i, v)
		}
	}
}

func TestTrainDeterministic(t *testing.T) {
	series := rampSeries(50)

	first, err := Train(series, 10, 100)
	if err != nil {
		t.Fatalf("first Train failed: %v", err)
	}
	second, err := Train(series, 10, 100)
	if err != nil {
		t.Fatalf("second Train failed: %v", err)
	}

	for i := range first.Weights {
		if first.Weights[i] != second.Weights[i] {
			t.Fatalf("weight %d differs between runs: %g vs %g", i, first.Weights[i], second.Weights[i])
		}
	}
	if first.Bias != second.Bias {
		t.Errorf("bias differs between runs: %g vs %g", first.Bias, second.Bias)
	}
}

func TestPredictRequiresFullWindow(t *testing.T) {
	m, err := Train(rampSeries(50), 10, 50)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	_, err = m.Predict(rampSeries(5), 3)
	if !models.IsDataFormatError(err) {
		t.Errorf("expected DataFormatError for short history, got %v", err)
	}
}
