// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package prefetch downloads course modules ahead of offline use and reports
// their download status.
package prefetch

import (
	"context"

	"github.com/MKhiriev/go-course-sync/internal/syncer"
	"github.com/MKhiriev/go-course-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/prefetch_mock.go -package=mock

// Handler downloads the modules of one module type.
type Handler interface {
	ModName() models.ModuleType
	// Component is the component the module packages are tracked under.
	Component() string
	IsDownloadable(ctx context.Context, site models.Site, module models.CourseModule) (bool, error)
	// GetFiles returns the remote files of the module. Their fingerprint
	// decides whether a downloaded copy is still current.
	GetFiles(ctx context.Context, site models.Site, module models.CourseModule) ([]models.RemoteFile, error)
	// Prefetch fetches the web service data the module needs offline.
	Prefetch(ctx context.Context, site models.Site, module models.CourseModule) error
}

// SyncProviders looks up the synchronization provider of a module type, so
// pending offline data is sent before a module is downloaded again.
type SyncProviders interface {
	Get(module models.ModuleType) (syncer.Provider, error)
}

// ProgressFunc receives the progress of a bulk prefetch.
type ProgressFunc func(models.PrefetchProgress)
