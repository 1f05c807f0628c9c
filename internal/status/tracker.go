// Package status tracks the download status of packages (the locally stored
// copy of a course module) and detects when the remote content changed.
package status

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/models"
)

const (
	table        = "packages"
	sectionIndex = "section"
)

// Schema returns the table schema of package status records.
func Schema() store.TableSchema {
	return store.TableSchema{Name: table, Indexes: []string{sectionIndex}}
}

type location struct {
	courseID  int64
	sectionID int64
}

// Tracker persists package status records and keeps a read-through cache of
// them. Status change notifications are published after the store write
// succeeds and only when the status actually changed.
type Tracker struct {
	store store.LocalStore
	bus   *events.Bus
	now   func() time.Time

	// writeMu serializes read-modify-write cycles on records.
	writeMu sync.Mutex

	mu       sync.RWMutex
	cache    map[string]models.PackageStatus
	sections map[string]location

	unsubscribe func()
}

// NewTracker returns a tracker persisting into st and notifying through bus.
// The tracker drops a site's cache when the site logs out; call Close to stop
// listening.
func NewTracker(st store.LocalStore, bus *events.Bus) *Tracker {
	t := &Tracker{
		store:    st,
		bus:      bus,
		now:      time.Now,
		cache:    make(map[string]models.PackageStatus),
		sections: make(map[string]location),
	}
	t.unsubscribe = bus.Subscribe(models.EventLogout, func(_ context.Context, e models.Event) {
		t.ClearSite(e.SiteID)
	})
	return t
}

// Close stops listening to bus events.
func (t *Tracker) Close() {
	t.unsubscribe()
}

func cacheKey(siteID string, ref models.PackageRef) string {
	return siteID + "#" + ref.String()
}

// CachedStatus returns the cached status of the package without touching the
// store or the network.
func (t *Tracker) CachedStatus(siteID string, ref models.PackageRef) (models.DownloadStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.cache[cacheKey(siteID, ref)]
	return rec.Status, ok
}

// Stored returns the persisted record of the package.
func (t *Tracker) Stored(ctx context.Context, siteID string, ref models.PackageRef) (models.PackageStatus, bool, error) {
	rec, err := t.store.Get(ctx, siteID, table, store.NewKey(ref.String()))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return models.PackageStatus{}, false, nil
		}
		return models.PackageStatus{}, false, fmt.Errorf("get package status %s: %w", ref, err)
	}

	var status models.PackageStatus
	if err = rec.Decode(&status); err != nil {
		return models.PackageStatus{}, false, err
	}
	return status, true, nil
}

// GetStatus determines the status of a downloadable package whose remote
// content currently has fingerprint fp. A package downloaded with the same
// fingerprint is downloaded; with a different one it becomes outdated. The
// first query of a package stores a not-downloaded record for it.
func (t *Tracker) GetStatus(ctx context.Context, siteID string, ref models.PackageRef, fp models.Fingerprint) (models.DownloadStatus, error) {
	stored, ok, err := t.Stored(ctx, siteID, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		if err = t.write(ctx, siteID, ref, func(rec *models.PackageStatus) { rec.Status = models.StatusNotDownloaded }); err != nil {
			return "", err
		}
		return models.StatusNotDownloaded, nil
	}

	status := stored.Status
	switch stored.Status {
	case models.StatusDownloaded, models.StatusOutdated:
		status = models.StatusOutdated
		if stored.Fingerprint().Equal(fp) {
			status = models.StatusDownloaded
		}
	case models.StatusDownloading:
	default:
		status = models.StatusNotDownloaded
	}

	if status != stored.Status && stored.Status != models.StatusNotDownloadable {
		if err = t.write(ctx, siteID, ref, func(rec *models.PackageStatus) { rec.Status = status }); err != nil {
			return "", err
		}
		return status, nil
	}

	stored.Status = status
	t.remember(siteID, ref, stored)
	return status, nil
}

// UpdateStatus stores a new status for the package, keeping the current one
// as the previous status. Writing the current status again is a no-op.
func (t *Tracker) UpdateStatus(ctx context.Context, siteID string, ref models.PackageRef, status models.DownloadStatus) error {
	return t.write(ctx, siteID, ref, func(rec *models.PackageStatus) {
		rec.Status = status
	})
}

// SetDownloading marks the package as being downloaded.
func (t *Tracker) SetDownloading(ctx context.Context, siteID string, ref models.PackageRef) error {
	return t.UpdateStatus(ctx, siteID, ref, models.StatusDownloading)
}

// SetDownloaded marks the package as downloaded with content fingerprint fp.
func (t *Tracker) SetDownloaded(ctx context.Context, siteID string, ref models.PackageRef, fp models.Fingerprint) error {
	now := t.now().Unix()
	return t.write(ctx, siteID, ref, func(rec *models.PackageStatus) {
		rec.Status = models.StatusDownloaded
		rec.Revision = fp.Revision
		rec.TimeModified = fp.TimeModified
		rec.PreviousDownloadTime = rec.DownloadTime
		rec.DownloadTime = now
	})
}

// SetNotDownloadable marks the package as having nothing to download.
func (t *Tracker) SetNotDownloadable(ctx context.Context, siteID string, ref models.PackageRef) error {
	return t.UpdateStatus(ctx, siteID, ref, models.StatusNotDownloadable)
}

// RestorePrevious returns the package to the status it had before the last
// change, used when a download fails.
func (t *Tracker) RestorePrevious(ctx context.Context, siteID string, ref models.PackageRef) error {
	return t.write(ctx, siteID, ref, func(rec *models.PackageStatus) {
		previous := rec.Previous
		if previous == "" || previous == models.StatusDownloading {
			previous = models.StatusNotDownloaded
		}
		rec.Status = previous
	})
}

// Invalidate marks the package as not downloaded, used when its local files
// are removed.
func (t *Tracker) Invalidate(ctx context.Context, siteID string, ref models.PackageRef) error {
	return t.write(ctx, siteID, ref, func(rec *models.PackageStatus) {
		rec.Status = models.StatusNotDownloaded
		rec.Revision = 0
		rec.TimeModified = 0
	})
}

// InvalidateCache forces the next status query of the package to recompute.
func (t *Tracker) InvalidateCache(siteID string, ref models.PackageRef) {
	t.mu.Lock()
	delete(t.cache, cacheKey(siteID, ref))
	t.mu.Unlock()
}

// ClearSite drops every cached entry of the site.
func (t *Tracker) ClearSite(siteID string) {
	prefix := siteID + "#"

	t.mu.Lock()
	defer t.mu.Unlock()

	for key := range t.cache {
		if strings.HasPrefix(key, prefix) {
			delete(t.cache, key)
		}
	}
	for key := range t.sections {
		if strings.HasPrefix(key, prefix) {
			delete(t.sections, key)
		}
	}
}

// SetSection records where the package lives so section status changes can
// be announced.
func (t *Tracker) SetSection(siteID string, ref models.PackageRef, courseID, sectionID int64) {
	t.mu.Lock()
	t.sections[cacheKey(siteID, ref)] = location{courseID: courseID, sectionID: sectionID}
	t.mu.Unlock()
}

// ListSection returns the stored records of the packages of a course section.
func (t *Tracker) ListSection(ctx context.Context, siteID string, courseID, sectionID int64) ([]models.PackageStatus, error) {
	records, err := t.store.Query(ctx, siteID, table, sectionIndex, string(store.NewKey(courseID, sectionID)))
	if err != nil {
		return nil, fmt.Errorf("list section packages: %w", err)
	}

	out := make([]models.PackageStatus, 0, len(records))
	for _, rec := range records {
		var status models.PackageStatus
		if err = rec.Decode(&status); err != nil {
			return nil, err
		}
		out = append(out, status)
	}
	return out, nil
}

func (t *Tracker) remember(siteID string, ref models.PackageRef, rec models.PackageStatus) {
	t.mu.Lock()
	t.cache[cacheKey(siteID, ref)] = rec
	t.mu.Unlock()
}

func (t *Tracker) known(siteID string, ref models.PackageRef, stored models.PackageStatus, found bool) models.DownloadStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if rec, ok := t.cache[cacheKey(siteID, ref)]; ok {
		return rec.Status
	}
	if found {
		return stored.Status
	}
	// a package without a record has never been downloaded
	return models.StatusNotDownloaded
}

// write applies mutate to the stored record, persists it and notifies
// subscribers if the status changed.
func (t *Tracker) write(ctx context.Context, siteID string, ref models.PackageRef, mutate func(rec *models.PackageStatus)) error {
	log := logger.FromContext(ctx)

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	stored, found, err := t.Stored(ctx, siteID, ref)
	if err != nil {
		return err
	}
	before := t.known(siteID, ref, stored, found)

	next := stored
	if !found {
		next = models.PackageStatus{Component: ref.Component, ComponentID: ref.ComponentID}
	}
	t.mu.RLock()
	loc, hasLoc := t.sections[cacheKey(siteID, ref)]
	t.mu.RUnlock()
	if hasLoc {
		next.CourseID = loc.courseID
		next.SectionID = loc.sectionID
	}
	mutate(&next)

	if found && next == stored {
		t.remember(siteID, ref, stored)
		if before != stored.Status {
			t.notify(ctx, siteID, ref, stored.Status)
		}
		return nil
	}

	if !found || next.Status != stored.Status {
		next.Previous = stored.Status
	}
	next.Updated = t.now().Unix()

	rec, err := store.NewRecord(store.NewKey(ref.String()), next, map[string]string{
		sectionIndex: string(store.NewKey(next.CourseID, next.SectionID)),
	})
	if err != nil {
		return err
	}
	if err = t.store.Insert(ctx, siteID, table, rec); err != nil {
		log.Err(err).
			Str("func", "Tracker.write").
			Str("site_id", siteID).
			Str("component", ref.Component).
			Int64("component_id", ref.ComponentID).
			Msg("failed to store package status")
		return fmt.Errorf("store package status %s: %w", ref, err)
	}

	t.remember(siteID, ref, next)
	if before != next.Status {
		t.notify(ctx, siteID, ref, next.Status)
	}
	return nil
}

func (t *Tracker) notify(ctx context.Context, siteID string, ref models.PackageRef, status models.DownloadStatus) {
	t.bus.Publish(ctx, models.Event{
		Name:        models.EventPackageStatusChanged,
		SiteID:      siteID,
		Component:   ref.Component,
		ComponentID: ref.ComponentID,
		Status:      status,
	})

	t.mu.RLock()
	loc, ok := t.sections[cacheKey(siteID, ref)]
	t.mu.RUnlock()
	if !ok {
		return
	}
	t.bus.Publish(ctx, models.Event{
		Name:      models.EventSectionStatusChanged,
		SiteID:    siteID,
		CourseID:  loc.courseID,
		SectionID: loc.sectionID,
	})
}
