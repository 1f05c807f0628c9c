package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/syncer"
	"github.com/MKhiriev/go-course-sync/models"
)

type syncService struct {
	sites    SiteService
	registry *syncer.Registry

	logger *logger.Logger
}

func NewSyncService(sites SiteService, registry *syncer.Registry, logger *logger.Logger) SyncService {
	return &syncService{
		sites:    sites,
		registry: registry,
		logger:   logger,
	}
}

func (s *syncService) provider(module models.ModuleType, entityID int64) (syncer.Provider, error) {
	if entityID <= 0 {
		return nil, ErrValidationNoEntityID
	}
	return s.registry.Get(module)
}

func (s *syncService) Status(ctx context.Context, siteID string, module models.ModuleType, entityID int64) (models.SyncStatus, error) {
	p, err := s.provider(module, entityID)
	if err != nil {
		return models.SyncStatus{}, err
	}

	hasData, err := p.HasDataToSync(ctx, siteID, entityID)
	if err != nil {
		return models.SyncStatus{}, fmt.Errorf("check offline data: %w", err)
	}
	warnings, err := p.GetSyncWarnings(ctx, siteID, entityID)
	if err != nil {
		return models.SyncStatus{}, fmt.Errorf("get sync warnings: %w", err)
	}

	return models.SyncStatus{
		Module:   module,
		EntityID: entityID,
		HasData:  hasData,
		Syncing:  p.IsSyncing(siteID, entityID),
		Blocked:  p.IsBlocked(siteID, entityID),
		Warnings: warnings,
	}, nil
}

func (s *syncService) Synchronize(ctx context.Context, siteID string, module models.ModuleType, entityID int64) (models.SyncResult, error) {
	log := logger.FromContext(ctx)

	p, err := s.provider(module, entityID)
	if err != nil {
		return models.SyncResult{}, err
	}
	site, err := s.sites.Get(ctx, siteID)
	if err != nil {
		return models.SyncResult{}, err
	}

	result, err := p.Synchronize(ctx, site, entityID)
	if err != nil {
		log.Err(err).
			Str("func", "syncService.Synchronize").
			Str("site_id", siteID).
			Str("module", string(module)).
			Int64("entity_id", entityID).
			Msg("synchronization failed")
		return models.SyncResult{}, err
	}
	return result, nil
}

func (s *syncService) Warnings(ctx context.Context, siteID string, module models.ModuleType, entityID int64) ([]string, error) {
	p, err := s.provider(module, entityID)
	if err != nil {
		return nil, err
	}
	return p.GetSyncWarnings(ctx, siteID, entityID)
}

func (s *syncService) ClearWarnings(ctx context.Context, siteID string, module models.ModuleType, entityID int64) error {
	p, err := s.provider(module, entityID)
	if err != nil {
		return err
	}
	return p.ClearSyncWarnings(ctx, siteID, entityID)
}

func (s *syncService) SyncAll(ctx context.Context, siteID string, force bool) error {
	site, err := s.sites.Get(ctx, siteID)
	if err != nil {
		return err
	}
	return s.registry.SyncAll(ctx, site, force)
}

func (s *syncService) Wait(ctx context.Context, siteID string, module models.ModuleType, entityID int64) (models.SyncResult, error) {
	p, err := s.provider(module, entityID)
	if err != nil {
		return models.SyncResult{}, err
	}

	result, err := p.WaitForSync(ctx, siteID, entityID)
	if err != nil {
		return models.SyncResult{}, err
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	return result, nil
}

func (s *syncService) Block(ctx context.Context, siteID string, module models.ModuleType, entityID int64) error {
	p, err := s.provider(module, entityID)
	if err != nil {
		return err
	}
	p.BlockSync(siteID, entityID)

	logger.FromContext(ctx).Debug().
		Str("func", "syncService.Block").
		Str("site_id", siteID).
		Str("module", string(module)).
		Int64("entity_id", entityID).
		Msg("synchronization blocked")
	return nil
}

func (s *syncService) Unblock(ctx context.Context, siteID string, module models.ModuleType, entityID int64) error {
	p, err := s.provider(module, entityID)
	if err != nil {
		return err
	}
	p.UnblockSync(siteID, entityID)
	return nil
}
