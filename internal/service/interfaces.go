package service

import (
	"context"

	"github.com/MKhiriev/go-course-sync/internal/network"
	"github.com/MKhiriev/go-course-sync/internal/prefetch"
	"github.com/MKhiriev/go-course-sync/models"
)

// SiteService manages the sites the client is logged in to.
type SiteService interface {
	Login(ctx context.Context, site models.Site) error
	Logout(ctx context.Context, siteID string, retain bool) error
	Get(ctx context.Context, siteID string) (models.Site, error)
	Current(ctx context.Context) (models.Site, error)
	List(ctx context.Context) ([]models.Site, error)
}

// SyncService exposes the synchronization of offline data per resource.
type SyncService interface {
	Status(ctx context.Context, siteID string, module models.ModuleType, entityID int64) (models.SyncStatus, error)
	Synchronize(ctx context.Context, siteID string, module models.ModuleType, entityID int64) (models.SyncResult, error)
	Warnings(ctx context.Context, siteID string, module models.ModuleType, entityID int64) ([]string, error)
	ClearWarnings(ctx context.Context, siteID string, module models.ModuleType, entityID int64) error
	SyncAll(ctx context.Context, siteID string, force bool) error
	// Wait returns the result of the running synchronization of the resource,
	// or an empty result when none runs.
	Wait(ctx context.Context, siteID string, module models.ModuleType, entityID int64) (models.SyncResult, error)
	// Block keeps the resource from synchronizing while its offline data is
	// edited; every Block needs a matching Unblock.
	Block(ctx context.Context, siteID string, module models.ModuleType, entityID int64) error
	Unblock(ctx context.Context, siteID string, module models.ModuleType, entityID int64) error
}

// PrefetchService exposes download status and prefetching of course modules.
type PrefetchService interface {
	ModuleStatus(ctx context.Context, siteID string, module models.CourseModule) (models.DownloadStatus, error)
	ModulesStatus(ctx context.Context, siteID string, modules []models.CourseModule) (models.DownloadStatus, error)
	SectionStatus(ctx context.Context, siteID string, courseID, sectionID int64) (models.DownloadStatus, error)
	DownloadSize(ctx context.Context, siteID string, modules []models.CourseModule) (models.FileSizeSum, error)
	// Prefetch starts downloading modules in the background and returns the
	// download id progress events are published under.
	Prefetch(ctx context.Context, siteID, downloadID string, modules []models.CourseModule) (string, error)
	RemoveFiles(ctx context.Context, siteID string, module models.CourseModule) error
}

// NetworkService holds the connectivity state reported by the platform.
type NetworkService interface {
	State() network.State
	Set(ctx context.Context, s network.State)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// Downloader is the prefetch delegate surface used by [PrefetchService].
type Downloader interface {
	GetModuleStatus(ctx context.Context, site models.Site, module models.CourseModule) (models.DownloadStatus, error)
	GetModulesStatus(ctx context.Context, site models.Site, modules []models.CourseModule) (models.DownloadStatus, error)
	GetSectionStatus(ctx context.Context, siteID string, courseID, sectionID int64) (models.DownloadStatus, error)
	GetDownloadSize(ctx context.Context, site models.Site, modules []models.CourseModule) (models.FileSizeSum, error)
	PrefetchAll(ctx context.Context, site models.Site, downloadID string, modules []models.CourseModule, onProgress prefetch.ProgressFunc) error
	RemoveModuleFiles(ctx context.Context, site models.Site, module models.CourseModule) error
}
