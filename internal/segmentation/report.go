// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package segmentation

import (
	"sort"

	"github.com/clientele-io/clientele/internal/models"
)

// segmentLabels is the fixed label vocabulary, ordered from the
// highest-value segment to the lowest. Clusters are ranked by their mean
// total score and labeled in that order, so the label always reflects
// observed behavior rather than an arbitrary cluster index.
var segmentLabels = []string{
	"Power Shoppers",
	"Loyal Customers",
	"At-risk Customers",
	"Recent Customers",
}

// labelClusters maps each cluster index to a label from the fixed
// vocabulary. Clusters are ranked by descending mean score sum; ties break
// on the lower cluster index so the mapping is deterministic.
//
// Supports any k <= len(segmentLabels). Larger k is an engine invariant
// violation: the vocabulary has nothing left to assign.
func labelClusters(scores []models.ScoreVector, assign []int, k int) (map[int]string, error) {
	if k > len(segmentLabels) {
		return nil, models.NewInternalError("more clusters than segment labels")
	}

	sums := make([]int, k)
	counts := make([]int, k)
	for i, s := range scores {
		sums[assign[i]] += s.Sum()
		counts[assign[i]]++
	}

	order := make([]int, k)
	for c := range order {
		order[c] = c
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		ma := meanOf(sums[a], counts[a])
		mb := meanOf(sums[b], counts[b])
		if ma != mb {
			return ma > mb
		}
		return a < b
	})

	labels := make(map[int]string, k)
	for rank, c := range order {
		labels[c] = segmentLabels[rank]
	}
	return labels, nil
}

// summarize builds the per-cluster report: member count, population share,
// and mean scores per dimension. Returned ordered by cluster index.
func summarize(scores []models.ScoreVector, assign []int, k int, labels map[int]string) []models.SegmentSummary {
	counts := make([]int, k)
	sumR := make([]int, k)
	sumF := make([]int, k)
	sumM := make([]int, k)

	for i, s := range scores {
		c := assign[i]
		counts[c]++
		sumR[c] += s.RScore
		sumF[c] += s.FScore
		sumM[c] += s.MScore
	}

	total := float64(len(scores))
	summaries := make([]models.SegmentSummary, k)
	for c := 0; c < k; c++ {
		summaries[c] = models.SegmentSummary{
			Cluster:    c,
			Label:      labels[c],
			Count:      counts[c],
			Percentage: float64(counts[c]) / total * 100,
			MeanR:      meanOf(sumR[c], counts[c]),
			MeanF:      meanOf(sumF[c], counts[c]),
			MeanM:      meanOf(sumM[c], counts[c]),
		}
	}
	return summaries
}

func meanOf(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
