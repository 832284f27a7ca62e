// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package segmentation

import (
	"fmt"

	"github.com/clientele-io/clientele/internal/models"
)

// Interior bin boundaries for the three RFM dimensions. The outermost
// edges are population-derived at quantization time; these fixed interior
// cut points encode the retail domain knowledge the scores rest on.
var (
	recencyCuts   = []float64{20, 50, 150, 250}
	frequencyCuts = []float64{2, 3, 10, 100}
	monetaryCuts  = []float64{300, 600, 2000, 5000}
)

// Quantize converts each customer's raw RFM values into ordinal 1-5 scores.
//
// Each dimension is cut into five right-closed bins. The lowest edge sits
// just below the population minimum so the smallest value still lands in
// bin 1, and the highest edge is the population maximum so every value is
// covered. Recency is inverted (score = 6 - bin): a small recency means a
// recent purchase and should score high.
//
// The fixed interior cut points make scores comparable across runs even
// though the outer edges move with the population.
func Quantize(table []models.CustomerRFM) ([]models.ScoreVector, error) {
	if len(table) == 0 {
		return nil, models.NewDataFormatError("no customers to score")
	}

	recency := make([]float64, len(table))
	frequency := make([]float64, len(table))
	monetary := make([]float64, len(table))
	for i, c := range table {
		recency[i] = float64(c.RecencyDays)
		frequency[i] = float64(c.Frequency)
		monetary[i] = float64(c.MonetaryValue)
	}

	recEdges := binEdges(recency, recencyCuts, 1)
	freqEdges := binEdges(frequency, frequencyCuts, 1)
	monEdges := binEdges(monetary, monetaryCuts, 3)

	scores := make([]models.ScoreVector, len(table))
	for i, c := range table {
		rBin, err := assignBin(recency[i], recEdges)
		if err != nil {
			return nil, err
		}
		fBin, err := assignBin(frequency[i], freqEdges)
		if err != nil {
			return nil, err
		}
		mBin, err := assignBin(monetary[i], monEdges)
		if err != nil {
			return nil, err
		}

		scores[i] = models.ScoreVector{
			CustomerID: c.CustomerID,
			RScore:     6 - rBin,
			FScore:     fBin,
			MScore:     mBin,
		}
	}

	return scores, nil
}

// binEdges builds the six bin edges for one dimension: population minimum
// lowered by margin, the four fixed interior cuts, and the population
// maximum. Edges are not required to be monotone; assignBin scans them in
// order, which matches right-closed lowest-inclusive interval cutting.
func binEdges(values []float64, cuts []float64, margin float64) [6]float64 {
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	return [6]float64{minV - margin, cuts[0], cuts[1], cuts[2], cuts[3], maxV}
}

// assignBin returns the 1-based bin for v: the first upper edge that v does
// not exceed. The final edge is the population maximum, so every input
// value is covered. Failing to place a value means the edge construction
// is broken, which is an engine bug, not a data problem.
func assignBin(v float64, edges [6]float64) (int, error) {
	for bin := 1; bin <= 5; bin++ {
		if v <= edges[bin] {
			return bin, nil
		}
	}
	return 0, models.NewInternalError(
		fmt.Sprintf("value %g exceeds every bin edge %v", v, edges))
}
