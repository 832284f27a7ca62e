// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package forecast

// MinMaxScaler rescales values into [0,1] using the bounds observed at
// fit time. The fitted bounds are persisted with the model so cached
// predictions invert to the original scale.
type MinMaxScaler struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Fit records the bounds of the series.
func (s *MinMaxScaler) Fit(series []float64) {
	if len(series) == 0 {
		return
	}
	s.Min, s.Max = series[0], series[0]
	for _, v := range series[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
}

// Transform maps v into [0,1]. A constant series maps to 0.
func (s *MinMaxScaler) Transform(v float64) float64 {
	if s.Max == s.Min {
		return 0
	}
	return (v - s.Min) / (s.Max - s.Min)
}

// Inverse maps a scaled value back to the original range.
func (s *MinMaxScaler) Inverse(v float64) float64 {
	return v*(s.Max-s.Min) + s.Min
}

// TransformAll returns a scaled copy of the series.
func (s *MinMaxScaler) TransformAll(series []float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = s.Transform(v)
	}
	return out
}
