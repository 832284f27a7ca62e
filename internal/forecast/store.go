// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package forecast

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// ErrModelNotCached is returned when no trained model exists for the key.
var ErrModelNotCached = errors.New("model not cached")

const modelKeyPrefix = "model:"

// ModelStore caches trained models in BadgerDB.
type ModelStore struct {
	db *badger.DB
}

// NewModelStore opens a BadgerDB model cache at dir.
func NewModelStore(dir string) (*ModelStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open model cache: %w", err)
	}
	return &ModelStore{db: db}, nil
}

// NewModelStoreWithDB wraps an already-open BadgerDB handle.
func NewModelStoreWithDB(db *badger.DB) *ModelStore {
	return &ModelStore{db: db}
}

// Close closes the underlying BadgerDB.
func (s *ModelStore) Close() error {
	return s.db.Close()
}

func modelKey(datasetID, productID string) []byte {
	return []byte(modelKeyPrefix + datasetID + ":" + productID)
}

// Save persists a trained model for a dataset and product.
func (s *ModelStore) Save(datasetID, productID string, m *Model) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(modelKey(datasetID, productID), data)
	})
}

// Load retrieves a cached model, or ErrModelNotCached.
func (s *ModelStore) Load(datasetID, productID string) (*Model, error) {
	var m Model

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(modelKey(datasetID, productID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrModelNotCached
		}
		if err != nil {
			return fmt.Errorf("get model: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &m)
		})
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RunGC triggers one BadgerDB value log garbage collection cycle.
// badger.ErrNoRewrite means there was nothing to collect and is not an
// error for the caller.
func (s *ModelStore) RunGC(discardRatio float64) error {
	err := s.db.RunValueLogGC(discardRatio)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// DeleteDataset drops every cached model belonging to a dataset. Called
// when the dataset itself is deleted so stale models cannot serve.
func (s *ModelStore) DeleteDataset(datasetID string) error {
	prefix := []byte(modelKeyPrefix + datasetID + ":")

	return s.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()

		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete model %s: %w", key, err)
			}
		}
		return nil
	})
}
