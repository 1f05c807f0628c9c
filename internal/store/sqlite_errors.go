package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrorClassification tells whether a failed database operation may succeed
// if attempted again.
type ErrorClassification int

const (
	// NonRetryable is the default for unrecognised errors, constraint
	// violations and corrupt databases.
	NonRetryable ErrorClassification = iota

	// Retryable marks transient lock contention.
	Retryable
)

// ErrorClassificator classifies database errors.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// SQLiteErrorClassifier implements [ErrorClassificator] for the sqlite3
// driver.
type SQLiteErrorClassifier struct{}

// NewSQLiteErrorClassifier constructs a [SQLiteErrorClassifier].
func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

// Classify returns [Retryable] for SQLITE_BUSY and SQLITE_LOCKED and
// [NonRetryable] for everything else.
func (c *SQLiteErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return Retryable
		}
	}

	return NonRetryable
}
