// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client's access to a site: the web service
// client, a cache of web service responses, the remote file manifest of
// course modules and the local pool of downloaded files.
//
// Errors are classified so callers can decide what to do with a failed call:
// [ErrTransient] (and the errors wrapping it, [ErrNetwork] and [ErrTimeout])
// means the call may succeed later, a [*WSError] means the server rejected it.
package adapter

import (
	"context"
	"time"

	"github.com/MKhiriev/go-course-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// WebService calls functions of a site's REST web service.
type WebService interface {
	// Call invokes the web service function method with params and decodes
	// the answer into result. A nil result discards the answer.
	Call(ctx context.Context, site models.Site, method string, params map[string]any, result any) error
}

// PreSets controls how a cached web service call uses the response cache.
type PreSets struct {
	// CacheKey groups entries so they can be invalidated together.
	CacheKey string
	// UpdateFrequency is how long an entry is fresh.
	UpdateFrequency time.Duration
	// CacheErrors lists web service error codes whose answers are cached.
	CacheErrors []string
	// OmitExpires returns a cached entry even when it expired.
	OmitExpires bool
	// GetFromCache allows answering from the cache.
	GetFromCache bool
	// SaveToCache allows storing the answer.
	SaveToCache bool
}

// CachedWebService is a [WebService] that can answer from a per-site cache.
type CachedWebService interface {
	WebService

	// CachedCall is Call going through the response cache as preSets say.
	// A transient failure falls back to an expired entry when there is one.
	CachedCall(ctx context.Context, site models.Site, method string, params map[string]any, result any, preSets PreSets) error

	// InvalidateByKey expires every entry stored under cacheKey.
	InvalidateByKey(ctx context.Context, siteID, cacheKey string) error
}

// FileManifest lists the remote files of course modules.
type FileManifest interface {
	ModuleFiles(ctx context.Context, site models.Site, module models.CourseModule) ([]models.RemoteFile, error)
}

// FilePool stores the downloaded files of packages.
type FilePool interface {
	// AddFilesToQueueByURL downloads the files of the package that are not
	// present locally in their current version.
	AddFilesToQueueByURL(ctx context.Context, site models.Site, ref models.PackageRef, files []models.RemoteFile) error
	// InvalidateAllFiles forces the next download of the package files.
	InvalidateAllFiles(ctx context.Context, siteID string, ref models.PackageRef) error
	// RemoveFiles deletes the local files of the package.
	RemoveFiles(ctx context.Context, siteID string, ref models.PackageRef) error
	// GetDownloadedSize returns the size of the local files of the package.
	GetDownloadedSize(ctx context.Context, siteID string, ref models.PackageRef) (int64, error)
}
