// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// course sync client. It aggregates all sub-configurations and is populated by
// merging defaults, environment variables, command-line flags, and an
// optional JSON or YAML file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings.
	App App `envPrefix:"APP_"`

	// Storage holds configuration of the local store and the downloaded
	// files directory.
	Storage Storage `envPrefix:"STORAGE_"`

	// Site describes the site logged in at startup, if any.
	Site Site `envPrefix:"SITE_"`

	// Server holds the local control API settings.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds settings of the outbound web-service client.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds the synchronization and prefetch settings.
	Sync Sync `envPrefix:"SYNC_"`

	// ConfigFilePath is the optional path to a JSON or YAML configuration
	// file, chosen by extension. When non-empty, the file is parsed and
	// merged on top of the values already loaded.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	ConfigFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogToFile sends logs to a "logs" file next to the executable instead
	// of stdout.
	// Env: APP_LOG_TO_FILE
	LogToFile bool `env:"LOG_TO_FILE"`
}

// Storage groups the configuration for all storage backends used by the
// client.
type Storage struct {
	// DB holds the local store settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the downloaded files settings.
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the local store.
type DB struct {
	// DSN is the SQLite database path. ":memory:" or a path ending in
	// ".json" selects the map-backed store.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Files holds file-system settings for downloaded package files.
type Files struct {
	// Dir is the directory downloaded files are written to.
	// Env: STORAGE_FILES_DIR
	Dir string `env:"DIR"`
}

// Site describes a site to log in at startup.
type Site struct {
	// ID is the local identifier of the site.
	// Env: SITE_ID
	ID string `env:"ID"`

	// URL is the base URL of the site.
	// Env: SITE_URL
	URL string `env:"URL"`

	// Token is the web-service token of the user.
	// Env: SITE_TOKEN
	Token string `env:"TOKEN"`

	// UserID is the id of the logged-in user on the site.
	// Env: SITE_USER_ID
	UserID int64 `env:"USER_ID"`
}

// Server holds the local control API settings.
type Server struct {
	// HTTPAddress is the TCP address of the control API, in "host:port"
	// format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single control API request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds settings of the outbound web-service client.
type Adapter struct {
	// RequestTimeout is the maximum duration of a single web-service call.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RetryCount is how many times resty retries a transient failure.
	// Env: ADAPTER_RETRY_COUNT
	RetryCount int `env:"RETRY_COUNT"`
}

// Sync holds the synchronization and prefetch settings.
type Sync struct {
	// WifiOnly forbids background sync and prefetch on metered networks.
	// Env: SYNC_WIFI_ONLY
	WifiOnly bool `env:"WIFI_ONLY"`

	// Metered marks the current network as metered when the platform
	// cannot tell.
	// Env: SYNC_METERED
	Metered bool `env:"METERED"`

	// AssignInterval is the periodic sync interval of assignments.
	// Env: SYNC_ASSIGN_INTERVAL
	AssignInterval time.Duration `env:"ASSIGN_INTERVAL"`

	// LessonInterval is the periodic sync interval of lessons.
	// Env: SYNC_LESSON_INTERVAL
	LessonInterval time.Duration `env:"LESSON_INTERVAL"`

	// QuizInterval is the periodic sync interval of quizzes.
	// Env: SYNC_QUIZ_INTERVAL
	QuizInterval time.Duration `env:"QUIZ_INTERVAL"`

	// MinSyncInterval is how recent the last sync of a resource must be
	// for "sync if needed" to skip it.
	// Env: SYNC_MIN_INTERVAL
	MinSyncInterval time.Duration `env:"MIN_INTERVAL"`

	// PrefetchConcurrency bounds concurrent module downloads of a bulk
	// prefetch.
	// Env: SYNC_PREFETCH_CONCURRENCY
	PrefetchConcurrency int `env:"PREFETCH_CONCURRENCY"`

	// ProbeInterval is how often connectivity to the site is checked.
	// Env: SYNC_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources in the following priority order (later sources override non-zero
// fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags
//  4. JSON or YAML file (path resolved from sources 2 and 3)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags().
		withFile().
		build()
}
