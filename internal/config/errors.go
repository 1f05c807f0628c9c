package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid web-service client settings
	// (for example, a zero request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid client storage settings
	// (for example, an empty files directory).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates an empty control API address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidSyncConfigs indicates non-positive sync intervals or
	// prefetch concurrency.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidSiteConfigs indicates a startup site URL without a token.
	ErrInvalidSiteConfigs = errors.New("invalid site configuration")
)
