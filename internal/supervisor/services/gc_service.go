// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package services

import (
	"context"
	"time"

	"github.com/clientele-io/clientele/internal/logging"
)

// GCTarget is the garbage collection hook of the model cache.
type GCTarget interface {
	RunGC(discardRatio float64) error
}

// ModelCacheGCService periodically compacts the BadgerDB model cache.
// Retraining and dataset deletion leave dead versions in the value log;
// without GC the cache directory only ever grows.
type ModelCacheGCService struct {
	target       GCTarget
	interval     time.Duration
	discardRatio float64
}

// NewModelCacheGCService builds the GC loop. Zero values fall back to a
// 10 minute interval and the badger-recommended 0.5 discard ratio.
func NewModelCacheGCService(target GCTarget, interval time.Duration, discardRatio float64) *ModelCacheGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = 0.5
	}
	return &ModelCacheGCService{target: target, interval: interval, discardRatio: discardRatio}
}

// Serve implements suture.Service.
func (s *ModelCacheGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.target.RunGC(s.discardRatio); err != nil {
				logging.Warn().Err(err).Msg("Model cache GC cycle failed")
			}
		}
	}
}

// String identifies the service in suture's logs.
func (s *ModelCacheGCService) String() string {
	return "model-cache-gc"
}
