// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

// Package cache holds the in-memory segmentation result cache. A run over
// a stored dataset is deterministic, so the result can be served from
// memory until the dataset changes or the entry ages out.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/clientele-io/clientele/internal/models"
)

// entry is a node of the doubly-linked recency list.
type entry struct {
	key       string
	value     *models.SegmentationResult
	prev      *entry
	next      *entry
	expiresAt time.Time
}

// ResultCache is a thread-safe LRU cache for segmentation results with
// TTL support. Get, Put, and eviction are O(1); expired entries are
// dropped lazily on access.
type ResultCache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration

	items map[string]*entry

	// head.next is the most recently used, tail.prev the least.
	head *entry
	tail *entry

	hits   int64
	misses int64
}

// NewResultCache creates a result cache. Non-positive capacity or TTL
// fall back to 64 entries and 10 minutes.
func NewResultCache(capacity int, ttl time.Duration) *ResultCache {
	if capacity <= 0 {
		capacity = 64
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	c := &ResultCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry, capacity),
		head:     &entry{},
		tail:     &entry{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Key builds the cache key for one dataset and cluster count.
func Key(datasetID string, clusters int) string {
	return fmt.Sprintf("%s:%d", datasetID, clusters)
}

func (c *ResultCache) unlink(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
}

func (c *ResultCache) pushFront(e *entry) {
	e.next = c.head.next
	e.prev = c.head
	c.head.next.prev = e
	c.head.next = e
}

// Get returns the cached result for key, or nil.
func (c *ResultCache) Get(key string) *models.SegmentationResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.misses++
		return nil
	}
	if time.Now().After(e.expiresAt) {
		c.unlink(e)
		delete(c.items, key)
		c.misses++
		return nil
	}

	c.unlink(e)
	c.pushFront(e)
	c.hits++
	return e.value
}

// Put stores a result, evicting the least recently used entry when full.
func (c *ResultCache) Put(key string, result *models.SegmentationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = result
		e.expiresAt = time.Now().Add(c.ttl)
		c.unlink(e)
		c.pushFront(e)
		return
	}

	if len(c.items) >= c.capacity {
		lru := c.tail.prev
		c.unlink(lru)
		delete(c.items, lru.key)
	}

	e := &entry{key: key, value: result, expiresAt: time.Now().Add(c.ttl)}
	c.items[key] = e
	c.pushFront(e)
}

// InvalidateDataset drops every entry belonging to a dataset.
func (c *ResultCache) InvalidateDataset(datasetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := datasetID + ":"
	for key, e := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.unlink(e)
			delete(c.items, key)
		}
	}
}

// Len returns the number of live entries, counting expired ones that
// have not been touched yet.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns the hit and miss counters.
func (c *ResultCache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
