// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

// Package charts renders PNG visualizations of segmentation and forecast
// results. Rendering is a presentation concern layered on top of the
// value objects the engine produces; nothing here feeds back into any
// computation.
package charts

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/clientele-io/clientele/internal/models"
)

// segmentColors assigns each slice a stable color by slice order.
var segmentColors = [][3]float64{
	{0.22, 0.49, 0.72}, // blue
	{0.89, 0.47, 0.22}, // orange
	{0.30, 0.69, 0.29}, // green
	{0.84, 0.15, 0.16}, // red
	{0.58, 0.40, 0.74}, // purple
	{0.55, 0.34, 0.29}, // brown
}

const (
	pieSize   = 640
	pieRadius = 220
)

// SegmentPie renders the segment distribution as a pie chart PNG.
// Slices follow the summary order; each is labeled with the segment name
// and its population share.
func SegmentPie(summaries []models.SegmentSummary) (*bytes.Buffer, error) {
	if len(summaries) == 0 {
		return nil, models.NewInternalError("no segment summaries to render")
	}

	var total float64
	for _, s := range summaries {
		total += float64(s.Count)
	}
	if total == 0 {
		return nil, models.NewInternalError("segment summaries cover zero customers")
	}

	dc := gg.NewContext(pieSize, pieSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	cx, cy := float64(pieSize)/2, float64(pieSize)/2
	angle := -math.Pi / 2 // start at 12 o'clock

	for i, s := range summaries {
		share := float64(s.Count) / total
		sweep := share * 2 * math.Pi

		c := segmentColors[i%len(segmentColors)]
		dc.SetRGB(c[0], c[1], c[2])
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, pieRadius, angle, angle+sweep)
		dc.ClosePath()
		dc.Fill()

		// Label at the slice midpoint, pushed past the rim.
		mid := angle + sweep/2
		lx := cx + math.Cos(mid)*(pieRadius+46)
		ly := cy + math.Sin(mid)*(pieRadius+46)
		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawStringAnchored(
			fmt.Sprintf("%s (%.1f%%)", s.Label, s.Percentage), lx, ly, 0.5, 0.5)

		angle += sweep
	}

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored("Customer Segments", cx, 24, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode pie chart: %w", err)
	}
	return &buf, nil
}
