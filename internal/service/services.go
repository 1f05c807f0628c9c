// Package service is the application layer behind the local control API. It
// resolves sites and delegates to the sync providers and the prefetch
// delegate.
package service

import (
	"github.com/MKhiriev/go-course-sync/internal/config"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/syncer"
)

type Services struct {
	SiteService     SiteService
	SyncService     SyncService
	PrefetchService PrefetchService
	NetworkService  NetworkService
	AppInfoService  AppInfoService
}

func NewServices(sites SiteService, registry *syncer.Registry, downloader Downloader, network NetworkService, cfg config.ClientApp, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		SiteService:     sites,
		SyncService:     NewSyncService(sites, registry, logger),
		PrefetchService: NewPrefetchService(sites, downloader, logger),
		NetworkService:  network,
		AppInfoService:  appInfo,
	}, nil
}
