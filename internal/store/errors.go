package store

import "errors"

// Sentinel errors returned by [LocalStore] implementations. Callers should use
// [errors.Is] to match against these values. Any store error is a local error:
// the operation that hit it fails and the error is propagated.
var (
	// ErrStoreNotInitialized is returned when a table is used before it was
	// created for the site (for example after logout removed the site's
	// tables).
	ErrStoreNotInitialized = errors.New("local store table is not initialized")

	// ErrRecordNotFound is returned by Get when no record is stored under the
	// requested key.
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnknownIndex is returned when a query names an index the table does
	// not declare.
	ErrUnknownIndex = errors.New("unknown index")

	// ErrMissingIndexValue is returned when a record is inserted without a
	// value for one of the declared indexes.
	ErrMissingIndexValue = errors.New("record has no value for a declared index")

	// ErrStoreClosed is returned after Close was called.
	ErrStoreClosed = errors.New("local store is closed")
)

// Low-level database operation errors, wrapped by the SQLite implementation
// when a SQL-level operation fails.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing a transaction fails.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when an INSERT, UPDATE or DELETE
	// fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRows is returned when scanning result rows fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrCompressedData is returned when a stored blob cannot be decompressed.
	ErrCompressedData = errors.New("corrupted record data")
)
