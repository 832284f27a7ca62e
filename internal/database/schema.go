// Clientele - Customer Segmentation and Demand Analytics for Retail Transactions
// Copyright 2026 Clientele Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clientele-io/clientele

package database

import (
	"context"
	"fmt"
)

// schemaStatements create the dataset store tables. Statements are
// idempotent so startup can run them unconditionally.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS datasets (
		id          VARCHAR PRIMARY KEY,
		name        VARCHAR NOT NULL,
		row_count   BIGINT NOT NULL,
		customers   BIGINT NOT NULL,
		first_order TIMESTAMP NOT NULL,
		last_order  TIMESTAMP NOT NULL,
		uploaded_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		dataset_id  VARCHAR NOT NULL,
		invoice_id  VARCHAR NOT NULL,
		product_id  VARCHAR NOT NULL,
		quantity    INTEGER NOT NULL,
		invoice_ts  TIMESTAMP NOT NULL,
		unit_price  DOUBLE NOT NULL,
		customer_id INTEGER NOT NULL,
		country     VARCHAR NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_dataset ON transactions(dataset_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_customer ON transactions(dataset_id, customer_id)`,
}

// initSchema creates the tables and indexes if they do not exist.
func (db *DB) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
