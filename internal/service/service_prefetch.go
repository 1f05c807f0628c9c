package service

import (
	"context"

	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/utils"
	"github.com/MKhiriev/go-course-sync/models"
)

type prefetchService struct {
	sites      SiteService
	downloader Downloader
	ids        utils.IDGenerator

	logger *logger.Logger
}

func NewPrefetchService(sites SiteService, downloader Downloader, logger *logger.Logger) PrefetchService {
	return &prefetchService{
		sites:      sites,
		downloader: downloader,
		ids:        utils.NewUUIDGenerator(),
		logger:     logger,
	}
}

func (s *prefetchService) ModuleStatus(ctx context.Context, siteID string, module models.CourseModule) (models.DownloadStatus, error) {
	site, err := s.sites.Get(ctx, siteID)
	if err != nil {
		return "", err
	}
	return s.downloader.GetModuleStatus(ctx, site, module)
}

func (s *prefetchService) ModulesStatus(ctx context.Context, siteID string, modules []models.CourseModule) (models.DownloadStatus, error) {
	if len(modules) == 0 {
		return "", ErrValidationNoModulesProvided
	}
	site, err := s.sites.Get(ctx, siteID)
	if err != nil {
		return "", err
	}
	return s.downloader.GetModulesStatus(ctx, site, modules)
}

func (s *prefetchService) SectionStatus(ctx context.Context, siteID string, courseID, sectionID int64) (models.DownloadStatus, error) {
	return s.downloader.GetSectionStatus(ctx, siteID, courseID, sectionID)
}

func (s *prefetchService) DownloadSize(ctx context.Context, siteID string, modules []models.CourseModule) (models.FileSizeSum, error) {
	site, err := s.sites.Get(ctx, siteID)
	if err != nil {
		return models.FileSizeSum{}, err
	}
	return s.downloader.GetDownloadSize(ctx, site, modules)
}

func (s *prefetchService) Prefetch(ctx context.Context, siteID, downloadID string, modules []models.CourseModule) (string, error) {
	if len(modules) == 0 {
		return "", ErrValidationNoModulesProvided
	}
	site, err := s.sites.Get(ctx, siteID)
	if err != nil {
		return "", err
	}
	if downloadID == "" {
		downloadID = s.ids.Generate()
	}

	log := logger.FromContext(ctx)
	bg := context.WithoutCancel(ctx)
	go func() {
		if err := s.downloader.PrefetchAll(bg, site, downloadID, modules, nil); err != nil {
			log.Err(err).
				Str("func", "prefetchService.Prefetch").
				Str("site_id", siteID).
				Str("download_id", downloadID).
				Msg("prefetch finished with errors")
		}
	}()

	return downloadID, nil
}

func (s *prefetchService) RemoveFiles(ctx context.Context, siteID string, module models.CourseModule) error {
	site, err := s.sites.Get(ctx, siteID)
	if err != nil {
		return err
	}
	return s.downloader.RemoveModuleFiles(ctx, site, module)
}
