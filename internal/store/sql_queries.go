// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	tablesTable  = "store_tables"
	recordsTable = "store_records"
	indexesTable = "store_record_indexes"

	upsertTable = `
		INSERT INTO store_tables (site_id, table_name, indexes)
		VALUES (?, ?, ?)
		ON CONFLICT (site_id, table_name) DO UPDATE SET indexes = excluded.indexes
	`

	// The conflict branch keeps seq so an overwritten record stays in its
	// original insertion position.
	upsertRecord = `
		INSERT INTO store_records (site_id, table_name, record_key, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (site_id, table_name, record_key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`
)
