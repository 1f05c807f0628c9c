// Package site keeps the list of sites the client is logged in to and
// creates or removes their local tables.
package site

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/models"
)

const sitesTable = "sites"

// Manager persists sites in an application-level table. Logging in creates
// the site tables listed in schemas.
type Manager struct {
	store   store.LocalStore
	bus     *events.Bus
	schemas []store.TableSchema

	mu      sync.RWMutex
	current string
}

// NewManager returns a manager creating schemas for every site logged in.
func NewManager(st store.LocalStore, bus *events.Bus, schemas ...store.TableSchema) *Manager {
	return &Manager{store: st, bus: bus, schemas: schemas}
}

// Init creates the site list table.
func (m *Manager) Init(ctx context.Context) error {
	return m.store.CreateTable(ctx, store.AppSiteID, store.TableSchema{Name: sitesTable})
}

// Login stores site, creates its tables and makes it the current site.
func (m *Manager) Login(ctx context.Context, site models.Site) error {
	log := logger.FromContext(ctx)

	if site.ID == "" || site.URL == "" || site.Token == "" {
		return ErrInvalidSite
	}

	for _, schema := range m.schemas {
		if err := m.store.CreateTable(ctx, site.ID, schema); err != nil {
			return fmt.Errorf("create table %s for site %s: %w", schema.Name, site.ID, err)
		}
	}
	if err := m.save(ctx, site); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = site.ID
	m.mu.Unlock()

	log.Info().
		Str("func", "Manager.Login").
		Str("site_id", site.ID).
		Msg("site logged in")
	m.bus.Publish(ctx, models.Event{Name: models.EventLogin, SiteID: site.ID})
	return nil
}

// Update replaces the stored data of a known site, for example a renewed
// token.
func (m *Manager) Update(ctx context.Context, site models.Site) error {
	if _, err := m.Get(ctx, site.ID); err != nil {
		return err
	}
	if err := m.save(ctx, site); err != nil {
		return err
	}
	m.bus.Publish(ctx, models.Event{Name: models.EventSiteUpdated, SiteID: site.ID})
	return nil
}

// Logout forgets the site. Unless retain is set, its tables and the offline
// data they hold are deleted; a retained site keeps its data but loses its
// token.
func (m *Manager) Logout(ctx context.Context, siteID string, retain bool) error {
	log := logger.FromContext(ctx).With().
		Str("func", "Manager.Logout").
		Str("site_id", siteID).
		Logger()

	site, err := m.Get(ctx, siteID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.current == siteID {
		m.current = ""
	}
	m.mu.Unlock()

	m.bus.Publish(ctx, models.Event{Name: models.EventLogout, SiteID: siteID})

	if retain || site.RetainOffline {
		site.Token = ""
		site.RetainOffline = true
		log.Info().Msg("site logged out, offline data retained")
		return m.save(ctx, site)
	}

	if err = m.store.DeleteSite(ctx, siteID); err != nil {
		log.Err(err).Msg("failed to delete site data")
		return fmt.Errorf("delete site %s: %w", siteID, err)
	}
	if err = m.store.Remove(ctx, store.AppSiteID, sitesTable, store.NewKey(siteID)); err != nil {
		return fmt.Errorf("remove site %s: %w", siteID, err)
	}
	log.Info().Msg("site logged out, data deleted")
	return nil
}

// Get returns a stored site.
func (m *Manager) Get(ctx context.Context, siteID string) (models.Site, error) {
	rec, err := m.store.Get(ctx, store.AppSiteID, sitesTable, store.NewKey(siteID))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return models.Site{}, fmt.Errorf("%w: %s", ErrUnknownSite, siteID)
		}
		return models.Site{}, err
	}

	var site models.Site
	if err = rec.Decode(&site); err != nil {
		return models.Site{}, err
	}
	return site, nil
}

// Current returns the site logged in last.
func (m *Manager) Current(ctx context.Context) (models.Site, error) {
	m.mu.RLock()
	id := m.current
	m.mu.RUnlock()

	if id == "" {
		return models.Site{}, ErrNoCurrentSite
	}
	return m.Get(ctx, id)
}

// List returns every stored site, logged in or retained.
func (m *Manager) List(ctx context.Context) ([]models.Site, error) {
	records, err := m.store.All(ctx, store.AppSiteID, sitesTable)
	if err != nil {
		return nil, err
	}

	sites := make([]models.Site, 0, len(records))
	for _, rec := range records {
		var site models.Site
		if err = rec.Decode(&site); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, nil
}

func (m *Manager) save(ctx context.Context, site models.Site) error {
	rec, err := store.NewRecord(store.NewKey(site.ID), site, nil)
	if err != nil {
		return err
	}
	if err = m.store.Insert(ctx, store.AppSiteID, sitesTable, rec); err != nil {
		return fmt.Errorf("save site %s: %w", site.ID, err)
	}
	return nil
}
