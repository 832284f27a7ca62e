// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package segmentation

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/clientele-io/clientele/internal/models"
)

// Clusterer groups feature vectors into k clusters. Implementations must
// be deterministic for a fixed configuration and input so segmentation
// results are reproducible across runs and replicas.
type Clusterer interface {
	// Fit assigns each point to one of k clusters and returns the
	// per-point cluster index together with the final centroids.
	Fit(ctx context.Context, points [][]float64, k int) ([]int, [][]float64, error)
}

// KMeans is a seeded Lloyd's k-means with k-means++ initialization.
// It runs Restarts independent initializations from a single seeded
// random source and keeps the run with the lowest inertia (sum of
// squared distances to the assigned centroid).
type KMeans struct {
	// Seed initializes the random source shared by all restarts.
	Seed int64

	// Restarts is the number of independent runs. Must be >= 1.
	Restarts int

	// MaxIterations bounds a single run. Must be >= 1.
	MaxIterations int
}

// Fit implements Clusterer.
func (km *KMeans) Fit(ctx context.Context, points [][]float64, k int) ([]int, [][]float64, error) {
	if k < 1 {
		return nil, nil, models.NewInternalError(fmt.Sprintf("k must be >= 1, got %d", k))
	}
	if len(points) < k {
		return nil, nil, models.NewDataFormatError(
			fmt.Sprintf("need at least %d customers to form %d segments, got %d", k, k, len(points)))
	}
	restarts := km.Restarts
	if restarts < 1 {
		restarts = 1
	}
	maxIter := km.MaxIterations
	if maxIter < 1 {
		maxIter = 300
	}

	// One source feeds every restart, so the whole multi-start procedure
	// is a deterministic function of (seed, input).
	rng := rand.New(rand.NewSource(km.Seed))

	var (
		bestAssign    []int
		bestCentroids [][]float64
		bestInertia   = math.Inf(1)
	)

	for r := 0; r < restarts; r++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		assign, centroids, inertia := km.run(ctx, points, k, maxIter, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			bestAssign = assign
			bestCentroids = centroids
		}
	}

	if bestAssign == nil {
		return nil, nil, models.NewInternalError("k-means produced no candidate run")
	}
	return bestAssign, bestCentroids, nil
}

// run performs a single k-means++ initialization followed by Lloyd
// iterations until assignments stabilize or maxIter is reached.
func (km *KMeans) run(ctx context.Context, points [][]float64, k, maxIter int, rng *rand.Rand) ([]int, [][]float64, float64) {
	centroids := seedCentroids(points, k, rng)
	assign := make([]int, len(points))
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		if ctx.Err() != nil {
			break
		}

		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if best != assign[i] {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		recomputeCentroids(points, assign, centroids)
		fixEmptyClusters(points, assign, centroids)
	}

	var inertia float64
	for i, p := range points {
		inertia += squaredDistance(p, centroids[assign[i]])
	}
	return assign, centroids, inertia
}

// seedCentroids picks k initial centroids with k-means++: the first
// uniformly at random, each subsequent one weighted by squared distance
// to the nearest centroid already chosen.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneVector(points[rng.Intn(len(points))]))

	dist := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			d := squaredDistance(p, centroids[0])
			for _, c := range centroids[1:] {
				if dd := squaredDistance(p, c); dd < d {
					d = dd
				}
			}
			dist[i] = d
			total += d
		}

		// All remaining points coincide with a centroid; any pick works.
		if total == 0 {
			centroids = append(centroids, cloneVector(points[rng.Intn(len(points))]))
			continue
		}

		target := rng.Float64() * total
		chosen := len(points) - 1
		var cum float64
		for i, d := range dist {
			cum += d
			if cum >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, cloneVector(points[chosen]))
	}

	return centroids
}

// recomputeCentroids moves each centroid to the mean of its members.
// Empty clusters are left in place for fixEmptyClusters to handle.
func recomputeCentroids(points [][]float64, assign []int, centroids [][]float64) {
	dim := len(points[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}

	for i, p := range points {
		c := assign[i]
		counts[c]++
		for d, v := range p {
			sums[c][d] += v
		}
	}

	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for d := range centroids[c] {
			centroids[c][d] = sums[c][d] / float64(counts[c])
		}
	}
}

// fixEmptyClusters reseats any centroid that lost all members onto the
// point farthest from its current centroid, keeping k clusters live.
func fixEmptyClusters(points [][]float64, assign []int, centroids [][]float64) {
	counts := make([]int, len(centroids))
	for _, c := range assign {
		counts[c]++
	}

	for c := range centroids {
		if counts[c] > 0 {
			continue
		}

		farthest, worst := 0, -1.0
		for i, p := range points {
			if counts[assign[i]] <= 1 {
				continue
			}
			if d := squaredDistance(p, centroids[assign[i]]); d > worst {
				worst = d
				farthest = i
			}
		}

		counts[assign[farthest]]--
		assign[farthest] = c
		counts[c] = 1
		copy(centroids[c], points[farthest])
	}
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best, bestD := 0, squaredDistance(p, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := squaredDistance(p, centroids[c]); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func cloneVector(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
