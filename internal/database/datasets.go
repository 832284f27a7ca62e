// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clientele-io/clientele/internal/logging"
	"github.com/clientele-io/clientele/internal/models"
)

// ErrDatasetNotFound is returned when the requested dataset id does not exist.
var ErrDatasetNotFound = errors.New("dataset not found")

// SaveDataset persists a sanitized transaction set under a fresh uuid and
// returns its metadata. The metadata row and the transaction rows are
// written in one transaction so a failed upload leaves nothing behind.
func (db *DB) SaveDataset(ctx context.Context, name string, orders []models.CleanOrder) (*models.Dataset, error) {
	if len(orders) == 0 {
		return nil, models.NewDataFormatError("dataset has no valid rows to store")
	}

	first, last := orders[0].Timestamp, orders[0].Timestamp
	customers := make(map[int]struct{})
	for _, o := range orders {
		if o.Timestamp.Before(first) {
			first = o.Timestamp
		}
		if o.Timestamp.After(last) {
			last = o.Timestamp
		}
		customers[o.CustomerID] = struct{}{}
	}

	ds := &models.Dataset{
		ID:         uuid.NewString(),
		Name:       name,
		RowCount:   int64(len(orders)),
		Customers:  int64(len(customers)),
		FirstOrder: first,
		LastOrder:  last,
		UploadedAt: time.Now().UTC(),
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (id, name, row_count, customers, first_order, last_order, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ds.ID, ds.Name, ds.RowCount, ds.Customers, ds.FirstOrder, ds.LastOrder, ds.UploadedAt,
	); err != nil {
		return nil, fmt.Errorf("insert dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (dataset_id, invoice_id, product_id, quantity, invoice_ts, unit_price, customer_id, country)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare transaction insert: %w", err)
	}
	defer closeQuietly(stmt)

	for _, o := range orders {
		if _, err := stmt.ExecContext(ctx,
			ds.ID, o.InvoiceID, o.ProductID, o.Quantity, o.Timestamp, o.UnitPrice, o.CustomerID, o.Country,
		); err != nil {
			return nil, fmt.Errorf("insert transaction row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit dataset: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("dataset_id", ds.ID).
		Str("name", ds.Name).
		Int64("rows", ds.RowCount).
		Int64("customers", ds.Customers).
		Msg("Dataset stored")

	return ds, nil
}

// GetDataset returns metadata for one dataset.
func (db *DB) GetDataset(ctx context.Context, id string) (*models.Dataset, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, row_count, customers, first_order, last_order, uploaded_at
		 FROM datasets WHERE id = ?`, id)

	ds := &models.Dataset{}
	err := row.Scan(&ds.ID, &ds.Name, &ds.RowCount, &ds.Customers, &ds.FirstOrder, &ds.LastOrder, &ds.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDatasetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query dataset: %w", err)
	}
	return ds, nil
}

// ListDatasets returns metadata for all stored datasets, newest first.
func (db *DB) ListDatasets(ctx context.Context) ([]models.Dataset, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, row_count, customers, first_order, last_order, uploaded_at
		 FROM datasets ORDER BY uploaded_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer closeQuietly(rows)

	datasets := make([]models.Dataset, 0)
	for rows.Next() {
		var ds models.Dataset
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.RowCount, &ds.Customers,
			&ds.FirstOrder, &ds.LastOrder, &ds.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		datasets = append(datasets, ds)
	}
	return datasets, rows.Err()
}

// DeleteDataset removes a dataset and its transaction rows.
func (db *DB) DeleteDataset(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDatasetNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE dataset_id = ?`, id); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	logging.Ctx(ctx).Info().Str("dataset_id", id).Msg("Dataset deleted")
	return nil
}

// LoadOrders returns every transaction row of a dataset as CleanOrders,
// ordered by invoice timestamp then invoice id for stable output.
func (db *DB) LoadOrders(ctx context.Context, datasetID string) ([]models.CleanOrder, error) {
	if _, err := db.GetDataset(ctx, datasetID); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT invoice_id, product_id, quantity, invoice_ts, unit_price, customer_id, country
		 FROM transactions WHERE dataset_id = ?
		 ORDER BY invoice_ts, invoice_id`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer closeQuietly(rows)

	var orders []models.CleanOrder
	for rows.Next() {
		var o models.CleanOrder
		if err := rows.Scan(&o.InvoiceID, &o.ProductID, &o.Quantity, &o.Timestamp,
			&o.UnitPrice, &o.CustomerID, &o.Country); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// DailyDemand returns the per-day total quantity sold for one product in
// a dataset, ordered by day. Days with no sales are absent; the forecast
// layer decides how to treat gaps.
func (db *DB) DailyDemand(ctx context.Context, datasetID, productID string) ([]models.DemandPoint, error) {
	if _, err := db.GetDataset(ctx, datasetID); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT date_trunc('day', invoice_ts) AS day, CAST(SUM(quantity) AS DOUBLE) AS qty
		 FROM transactions
		 WHERE dataset_id = ? AND product_id = ?
		 GROUP BY day ORDER BY day`, datasetID, productID)
	if err != nil {
		return nil, fmt.Errorf("query daily demand: %w", err)
	}
	defer closeQuietly(rows)

	var series []models.DemandPoint
	for rows.Next() {
		var p models.DemandPoint
		if err := rows.Scan(&p.Day, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scan demand point: %w", err)
		}
		series = append(series, p)
	}
	return series, rows.Err()
}
