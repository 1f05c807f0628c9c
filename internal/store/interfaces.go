// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
)

// LocalStore is the key-value persistence layer of the client. Every table is
// namespaced by site; tables must be created with [LocalStore.CreateTable]
// before they are used.
//
// Implementations are safe for concurrent use. A failed call leaves the store
// unchanged.
type LocalStore interface {
	// CreateTable registers a table and its secondary indexes for a site.
	// Creating an existing table is a no-op; new indexes are added.
	CreateTable(ctx context.Context, siteID string, schema TableSchema) error

	// Get returns the record stored under key.
	// Returns ErrRecordNotFound when the key is absent and
	// ErrStoreNotInitialized when the table does not exist for the site.
	Get(ctx context.Context, siteID, table string, key Key) (Record, error)

	// Insert stores rec, replacing any record with the same key. An
	// overwritten record keeps its original insertion position.
	Insert(ctx context.Context, siteID, table string, rec Record) error

	// Remove deletes the record stored under key. Removing an absent key is
	// not an error.
	Remove(ctx context.Context, siteID, table string, key Key) error

	// RemoveWhere deletes all records whose index matches value.
	RemoveWhere(ctx context.Context, siteID, table, index, value string) error

	// Query returns the records whose index matches value, in insertion
	// order. Returns ErrUnknownIndex if the index was not declared.
	Query(ctx context.Context, siteID, table, index, value string) ([]Record, error)

	// All returns every record of the table in insertion order.
	All(ctx context.Context, siteID, table string) ([]Record, error)

	// DeleteSite removes every table of the site and their records.
	DeleteSite(ctx context.Context, siteID string) error

	// Close releases the underlying resources.
	Close() error
}
