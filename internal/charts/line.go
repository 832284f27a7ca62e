// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package charts

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/clientele-io/clientele/internal/models"
)

const (
	lineWidth  = 900
	lineHeight = 480
	lineMargin = 60
	historyLen = 90 // most recent history days shown
)

// ForecastLine renders observed demand and the forecast that extends it
// as a line chart PNG. History draws in blue, predictions in orange,
// separated by a vertical marker at the forecast boundary.
func ForecastLine(history []models.DemandPoint, result *models.ForecastResult) (*bytes.Buffer, error) {
	if len(history) == 0 || result == nil || len(result.Predicted) == 0 {
		return nil, models.NewInternalError("nothing to render")
	}

	if len(history) > historyLen {
		history = history[len(history)-historyLen:]
	}

	values := make([]float64, 0, len(history)+len(result.Predicted))
	for _, p := range history {
		values = append(values, p.Quantity)
	}
	values = append(values, result.Predicted...)

	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if maxV == minV {
		maxV = minV + 1
	}

	plotW := float64(lineWidth - 2*lineMargin)
	plotH := float64(lineHeight - 2*lineMargin)
	toX := func(i int) float64 {
		return lineMargin + plotW*float64(i)/float64(len(values)-1)
	}
	toY := func(v float64) float64 {
		return float64(lineHeight-lineMargin) - plotH*(v-minV)/(maxV-minV)
	}

	dc := gg.NewContext(lineWidth, lineHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Axes
	dc.SetRGB(0.4, 0.4, 0.4)
	dc.SetLineWidth(1)
	dc.DrawLine(lineMargin, lineMargin, lineMargin, float64(lineHeight-lineMargin))
	dc.DrawLine(lineMargin, float64(lineHeight-lineMargin),
		float64(lineWidth-lineMargin), float64(lineHeight-lineMargin))
	dc.Stroke()

	// Observed demand
	dc.SetRGB(0.22, 0.49, 0.72)
	dc.SetLineWidth(2)
	for i := 1; i < len(history); i++ {
		dc.DrawLine(toX(i-1), toY(history[i-1].Quantity), toX(i), toY(history[i].Quantity))
	}
	dc.Stroke()

	// Forecast boundary
	boundary := toX(len(history) - 1)
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.SetLineWidth(1)
	dc.DrawLine(boundary, lineMargin, boundary, float64(lineHeight-lineMargin))
	dc.Stroke()

	// Predictions, joined to the last observed point
	dc.SetRGB(0.89, 0.47, 0.22)
	dc.SetLineWidth(2)
	prevX, prevY := toX(len(history)-1), toY(history[len(history)-1].Quantity)
	for i, v := range result.Predicted {
		x, y := toX(len(history)+i), toY(v)
		dc.DrawLine(prevX, prevY, x, y)
		prevX, prevY = x, y
	}
	dc.Stroke()

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(
		fmt.Sprintf("Demand forecast for %s (+%d days)", result.ProductID, result.Horizon),
		float64(lineWidth)/2, 24, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode line chart: %w", err)
	}
	return &buf, nil
}
