package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/network"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/models"
)

const (
	warningsTable  = "sync_warnings"
	syncTimesTable = "sync_times"
	moduleIndex    = "module"
)

// Schemas returns the site tables used by every [ModuleSyncer].
func Schemas() []store.TableSchema {
	return []store.TableSchema{
		{Name: warningsTable, Indexes: []string{moduleIndex}},
		{Name: syncTimesTable, Indexes: []string{moduleIndex}},
	}
}

//go:generate mockgen -source=provider.go -destination=../mock/sync_provider_mock.go -package=mock

// Provider is the synchronization surface a module type exposes to the rest
// of the client.
type Provider interface {
	Module() models.ModuleType
	HasDataToSync(ctx context.Context, siteID string, entityID int64) (bool, error)
	// Synchronize sends the offline data of the entity.
	Synchronize(ctx context.Context, site models.Site, entityID int64) (models.SyncResult, error)
	// SynchronizeIfNeeded is Synchronize unless the entity was synchronized
	// recently.
	SynchronizeIfNeeded(ctx context.Context, site models.Site, entityID int64) (models.SyncResult, error)
	// SyncAll synchronizes every entity of the site with offline data.
	SyncAll(ctx context.Context, site models.Site, force bool) error
	GetSyncWarnings(ctx context.Context, siteID string, entityID int64) ([]string, error)
	ClearSyncWarnings(ctx context.Context, siteID string, entityID int64) error
	// WaitForSync waits for the in-flight synchronization of the entity, if
	// any, and returns its result.
	WaitForSync(ctx context.Context, siteID string, entityID int64) (models.SyncResult, error)
	IsSyncing(siteID string, entityID int64) bool
	// BlockSync refuses synchronizations of the entity until the matching
	// UnblockSync, so a caller can edit its offline data. Blocks nest.
	BlockSync(siteID string, entityID int64)
	UnblockSync(siteID string, entityID int64)
	IsBlocked(siteID string, entityID int64) bool
}

// NetworkState reports the connectivity state.
type NetworkState interface {
	State() network.State
}

// Policy holds the network restrictions of synchronization.
type Policy struct {
	WifiOnly        bool
	MinSyncInterval time.Duration
}

// CheckNetwork returns ErrOffline or ErrWifiOnly when s does not allow
// sending data.
func CheckNetwork(s network.State, wifiOnly bool) error {
	if !s.Online {
		return ErrOffline
	}
	if wifiOnly && (s.Metered || !s.Wifi) {
		return ErrWifiOnly
	}
	return nil
}

type warningsRecord struct {
	Warnings []string `json:"warnings"`
}

type syncTimeRecord struct {
	Time int64 `json:"time"`
}

// ModuleSyncer is the [Provider] of one module type.
type ModuleSyncer struct {
	module Module
	coord  *Coordinator
	store  store.LocalStore
	bus    *events.Bus
	net    NetworkState
	policy Policy
	now    func() time.Time
}

// NewModuleSyncer returns the provider of module. All providers of a client
// share coord.
func NewModuleSyncer(module Module, coord *Coordinator, st store.LocalStore, bus *events.Bus, net NetworkState, policy Policy) *ModuleSyncer {
	return &ModuleSyncer{
		module: module,
		coord:  coord,
		store:  st,
		bus:    bus,
		net:    net,
		policy: policy,
		now:    time.Now,
	}
}

func (s *ModuleSyncer) resource(siteID string, entityID int64) models.ResourceID {
	return models.ResourceID{SiteID: siteID, Module: s.module.Type(), EntityID: entityID}
}

// Module implements [Provider].
func (s *ModuleSyncer) Module() models.ModuleType {
	return s.module.Type()
}

// Schemas returns the site tables the provider needs.
func (s *ModuleSyncer) Schemas() []store.TableSchema {
	return s.module.Schemas()
}

// HasDataToSync implements [Provider].
func (s *ModuleSyncer) HasDataToSync(ctx context.Context, siteID string, entityID int64) (bool, error) {
	return s.module.HasDataToSync(ctx, siteID, entityID)
}

// IsSyncing implements [Provider].
func (s *ModuleSyncer) IsSyncing(siteID string, entityID int64) bool {
	return s.coord.IsRunning(s.resource(siteID, entityID))
}

// BlockSync implements [Provider].
func (s *ModuleSyncer) BlockSync(siteID string, entityID int64) {
	s.coord.Block(s.resource(siteID, entityID))
}

// UnblockSync implements [Provider].
func (s *ModuleSyncer) UnblockSync(siteID string, entityID int64) {
	s.coord.Unblock(s.resource(siteID, entityID))
}

// IsBlocked implements [Provider].
func (s *ModuleSyncer) IsBlocked(siteID string, entityID int64) bool {
	return s.coord.IsBlocked(s.resource(siteID, entityID))
}

// Synchronize implements [Provider].
func (s *ModuleSyncer) Synchronize(ctx context.Context, site models.Site, entityID int64) (models.SyncResult, error) {
	return s.coord.Run(ctx, s.resource(site.ID, entityID), func(ctx context.Context) (models.SyncResult, error) {
		return s.run(ctx, site, entityID)
	})
}

func (s *ModuleSyncer) run(ctx context.Context, site models.Site, entityID int64) (models.SyncResult, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "ModuleSyncer.run").
		Str("site_id", site.ID).
		Str("module", string(s.module.Type())).
		Int64("entity_id", entityID).
		Logger()

	has, err := s.module.HasDataToSync(ctx, site.ID, entityID)
	if err != nil {
		return models.SyncResult{}, err
	}
	if !has {
		return models.SyncResult{Warnings: []string{}}, s.setSyncTime(ctx, site.ID, entityID)
	}

	if err = CheckNetwork(s.net.State(), s.policy.WifiOnly); err != nil {
		return models.SyncResult{}, err
	}

	result, err := s.module.SyncInstance(ctx, site, entityID)
	if len(result.Warnings) > 0 {
		if werr := s.addWarnings(ctx, site.ID, entityID, result.Warnings); werr != nil {
			log.Err(werr).Msg("failed to store sync warnings")
		}
	}
	if err != nil {
		log.Warn().Err(err).Msg("synchronization did not complete")
		return failed(result), err
	}

	log.Debug().Bool("updated", result.Updated).Int("warnings", len(result.Warnings)).Msg("synchronized")
	return result, s.setSyncTime(ctx, site.ID, entityID)
}

// SynchronizeIfNeeded implements [Provider].
func (s *ModuleSyncer) SynchronizeIfNeeded(ctx context.Context, site models.Site, entityID int64) (models.SyncResult, error) {
	needed, err := s.isSyncNeeded(ctx, site.ID, entityID)
	if err != nil {
		return models.SyncResult{}, err
	}
	if !needed {
		return models.SyncResult{Warnings: []string{}}, nil
	}
	return s.Synchronize(ctx, site, entityID)
}

// SyncAll implements [Provider]. Entities are synchronized one after another;
// a failing entity does not stop the others.
func (s *ModuleSyncer) SyncAll(ctx context.Context, site models.Site, force bool) error {
	log := logger.FromContext(ctx)

	ids, err := s.module.EntitiesWithData(ctx, site.ID)
	if err != nil {
		return fmt.Errorf("list %s entities to sync: %w", s.module.Type(), err)
	}

	var errs []error
	for _, id := range ids {
		var result models.SyncResult
		if force {
			result, err = s.Synchronize(ctx, site, id)
		} else {
			result, err = s.SynchronizeIfNeeded(ctx, site, id)
		}
		if err != nil {
			if errors.Is(err, ErrSyncBlocked) {
				continue
			}
			log.Warn().Err(err).
				Str("func", "ModuleSyncer.SyncAll").
				Str("site_id", site.ID).
				Str("module", string(s.module.Type())).
				Int64("entity_id", id).
				Msg("automatic synchronization failed")
			errs = append(errs, err)
			continue
		}

		if result.Updated {
			s.bus.Publish(ctx, models.Event{
				Name:     models.EventAutoSynced,
				SiteID:   site.ID,
				Module:   s.module.Type(),
				EntityID: id,
				Warnings: result.Warnings,
			})
		}
	}
	return errors.Join(errs...)
}

// WaitForSync implements [Provider].
func (s *ModuleSyncer) WaitForSync(ctx context.Context, siteID string, entityID int64) (models.SyncResult, error) {
	result, _, err := s.coord.Wait(ctx, s.resource(siteID, entityID))
	return result, err
}

// GetSyncWarnings implements [Provider].
func (s *ModuleSyncer) GetSyncWarnings(ctx context.Context, siteID string, entityID int64) ([]string, error) {
	rec, err := s.store.Get(ctx, siteID, warningsTable, s.key(entityID))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("get sync warnings: %w", err)
	}

	var stored warningsRecord
	if err = rec.Decode(&stored); err != nil {
		return nil, err
	}
	return stored.Warnings, nil
}

// ClearSyncWarnings implements [Provider].
func (s *ModuleSyncer) ClearSyncWarnings(ctx context.Context, siteID string, entityID int64) error {
	if err := s.store.Remove(ctx, siteID, warningsTable, s.key(entityID)); err != nil {
		return fmt.Errorf("clear sync warnings: %w", err)
	}
	return nil
}

func (s *ModuleSyncer) key(entityID int64) store.Key {
	return store.NewKey(s.module.Type(), entityID)
}

func (s *ModuleSyncer) indexes() map[string]string {
	return map[string]string{moduleIndex: string(s.module.Type())}
}

func (s *ModuleSyncer) addWarnings(ctx context.Context, siteID string, entityID int64, warnings []string) error {
	current, err := s.GetSyncWarnings(ctx, siteID, entityID)
	if err != nil {
		return err
	}

	rec, err := store.NewRecord(s.key(entityID), warningsRecord{Warnings: append(current, warnings...)}, s.indexes())
	if err != nil {
		return err
	}
	return s.store.Insert(ctx, siteID, warningsTable, rec)
}

func (s *ModuleSyncer) setSyncTime(ctx context.Context, siteID string, entityID int64) error {
	rec, err := store.NewRecord(s.key(entityID), syncTimeRecord{Time: s.now().Unix()}, s.indexes())
	if err != nil {
		return err
	}
	if err = s.store.Insert(ctx, siteID, syncTimesTable, rec); err != nil {
		return fmt.Errorf("store sync time: %w", err)
	}
	return nil
}

// LastSyncTime returns when the entity was last synchronized successfully.
func (s *ModuleSyncer) LastSyncTime(ctx context.Context, siteID string, entityID int64) (time.Time, bool, error) {
	rec, err := s.store.Get(ctx, siteID, syncTimesTable, s.key(entityID))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("get sync time: %w", err)
	}

	var stored syncTimeRecord
	if err = rec.Decode(&stored); err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(stored.Time, 0), true, nil
}

func (s *ModuleSyncer) isSyncNeeded(ctx context.Context, siteID string, entityID int64) (bool, error) {
	last, ok, err := s.LastSyncTime(ctx, siteID, entityID)
	if err != nil || !ok {
		return !ok, err
	}
	return s.now().Sub(last) >= s.policy.MinSyncInterval, nil
}
