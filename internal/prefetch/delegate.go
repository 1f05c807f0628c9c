package prefetch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/MKhiriev/go-course-sync/internal/adapter"
	"github.com/MKhiriev/go-course-sync/internal/config"
	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/status"
	"github.com/MKhiriev/go-course-sync/internal/syncer"
	"github.com/MKhiriev/go-course-sync/models"
)

// download is a bulk prefetch in progress. Callers asking for the same
// download id share it.
type download struct {
	done chan struct{}
	err  error

	mu        sync.Mutex
	progress  models.PrefetchProgress
	listeners []ProgressFunc
}

func (d *download) subscribe(fn ProgressFunc) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	d.listeners = append(d.listeners, fn)
	current := d.progress
	d.mu.Unlock()

	if current.Count > 0 {
		fn(current)
	}
}

func (d *download) advance(success bool) models.PrefetchProgress {
	d.mu.Lock()
	d.progress.Count++
	d.progress.Success = d.progress.Success && success
	p := d.progress
	listeners := append([]ProgressFunc(nil), d.listeners...)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(p)
	}
	return p
}

// Delegate keeps the download status of course modules and downloads them
// through the module type handlers.
type Delegate struct {
	tracker     *status.Tracker
	pool        adapter.FilePool
	syncers     SyncProviders
	bus         *events.Bus
	handlers    map[models.ModuleType]Handler
	concurrency int

	statusCalls   singleflight.Group
	prefetchCalls singleflight.Group

	mu        sync.Mutex
	downloads map[string]*download
	fetching  map[string]struct{}
}

// NewDelegate returns a delegate downloading with handlers. syncers may be
// nil when nothing needs to be synchronized before a download.
func NewDelegate(tracker *status.Tracker, pool adapter.FilePool, syncers SyncProviders, bus *events.Bus, cfg config.ClientSync, handlers ...Handler) *Delegate {
	d := &Delegate{
		tracker:     tracker,
		pool:        pool,
		syncers:     syncers,
		bus:         bus,
		handlers:    make(map[models.ModuleType]Handler, len(handlers)),
		concurrency: cfg.PrefetchConcurrency,
		downloads:   make(map[string]*download),
		fetching:    make(map[string]struct{}),
	}
	if d.concurrency <= 0 {
		d.concurrency = config.DefaultPrefetchConcurrency
	}
	for _, h := range handlers {
		d.handlers[h.ModName()] = h
	}
	return d
}

func (d *Delegate) handler(module models.CourseModule) (Handler, error) {
	h, ok := d.handlers[module.ModName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, module.ModName)
	}
	return h, nil
}

func packageKey(siteID string, ref models.PackageRef) string {
	return siteID + "#" + ref.String()
}

func (d *Delegate) isFetching(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.fetching[key]
	return ok
}

// GetModuleStatus returns the download status of module. A cached status is
// returned without asking the server; otherwise the remote file list is
// fetched and compared with the downloaded copy. Concurrent queries of the
// same module share one file list request.
func (d *Delegate) GetModuleStatus(ctx context.Context, site models.Site, module models.CourseModule) (models.DownloadStatus, error) {
	h, err := d.handler(module)
	if err != nil {
		return "", err
	}
	ref := module.PackageRef()
	key := packageKey(site.ID, ref)
	d.tracker.SetSection(site.ID, ref, module.CourseID, module.SectionID)

	if cached, ok := d.tracker.CachedStatus(site.ID, ref); ok && !(cached == models.StatusDownloading && !d.isFetching(key)) {
		return cached, nil
	}

	// joined callers must not inherit the first caller's cancellation
	v, err, _ := d.statusCalls.Do(key, func() (any, error) {
		return d.computeStatus(context.WithoutCancel(ctx), site, module, h)
	})
	if err != nil {
		return "", err
	}
	return v.(models.DownloadStatus), nil
}

// RefreshModuleStatus is GetModuleStatus ignoring the cached status.
func (d *Delegate) RefreshModuleStatus(ctx context.Context, site models.Site, module models.CourseModule) (models.DownloadStatus, error) {
	d.tracker.InvalidateCache(site.ID, module.PackageRef())
	return d.GetModuleStatus(ctx, site, module)
}

func (d *Delegate) computeStatus(ctx context.Context, site models.Site, module models.CourseModule, h Handler) (models.DownloadStatus, error) {
	ref := module.PackageRef()

	downloadable, err := h.IsDownloadable(ctx, site, module)
	if err != nil {
		return "", err
	}
	if !downloadable {
		if err = d.tracker.SetNotDownloadable(ctx, site.ID, ref); err != nil {
			return "", err
		}
		return models.StatusNotDownloadable, nil
	}

	files, err := h.GetFiles(ctx, site, module)
	if err != nil {
		return "", err
	}

	current, err := d.tracker.GetStatus(ctx, site.ID, ref, models.FingerprintFromFiles(files))
	if err != nil {
		return "", err
	}

	// A download interrupted by a restart left the package downloading.
	if current == models.StatusDownloading && !d.isFetching(packageKey(site.ID, ref)) {
		logger.FromContext(ctx).Info().
			Str("func", "Delegate.computeStatus").
			Str("site_id", site.ID).
			Str("component", ref.Component).
			Int64("component_id", ref.ComponentID).
			Msg("resetting stale downloading status")
		if err = d.tracker.RestorePrevious(ctx, site.ID, ref); err != nil {
			return "", err
		}
		d.tracker.InvalidateCache(site.ID, ref)
		return d.tracker.GetStatus(ctx, site.ID, ref, models.FingerprintFromFiles(files))
	}
	return current, nil
}

// GetModulesStatus returns the aggregated status of modules.
func (d *Delegate) GetModulesStatus(ctx context.Context, site models.Site, modules []models.CourseModule) (models.DownloadStatus, error) {
	statuses := make([]models.DownloadStatus, 0, len(modules))
	for _, m := range modules {
		s, err := d.GetModuleStatus(ctx, site, m)
		if err != nil {
			if errors.Is(err, ErrNoHandler) {
				continue
			}
			return "", err
		}
		statuses = append(statuses, s)
	}
	return models.AggregateStatus(statuses...), nil
}

// GetSectionStatus returns the aggregated status of the packages stored for
// a course section.
func (d *Delegate) GetSectionStatus(ctx context.Context, siteID string, courseID, sectionID int64) (models.DownloadStatus, error) {
	records, err := d.tracker.ListSection(ctx, siteID, courseID, sectionID)
	if err != nil {
		return "", err
	}

	statuses := make([]models.DownloadStatus, 0, len(records))
	for _, rec := range records {
		if cached, ok := d.tracker.CachedStatus(siteID, rec.Ref()); ok {
			statuses = append(statuses, cached)
			continue
		}
		statuses = append(statuses, rec.Status)
	}
	return models.AggregateStatus(statuses...), nil
}

// GetDownloadSize returns how much a prefetch of modules would transfer.
// Modules already downloaded count for nothing.
func (d *Delegate) GetDownloadSize(ctx context.Context, site models.Site, modules []models.CourseModule) (models.FileSizeSum, error) {
	sum := models.FileSizeSum{Total: true}
	for _, m := range modules {
		h, err := d.handler(m)
		if err != nil {
			continue
		}

		s, err := d.GetModuleStatus(ctx, site, m)
		if err != nil {
			sum.Total = false
			continue
		}
		if !s.NeedsDownload() {
			continue
		}

		files, err := h.GetFiles(ctx, site, m)
		if err != nil {
			sum.Total = false
			continue
		}
		for _, f := range files {
			sum.Size += f.FileSize
		}
	}
	return sum, nil
}

// PrefetchModule synchronizes the module's offline data, then downloads its
// data and files. On failure the package returns to its previous status.
func (d *Delegate) PrefetchModule(ctx context.Context, site models.Site, module models.CourseModule) error {
	h, err := d.handler(module)
	if err != nil {
		return err
	}
	key := packageKey(site.ID, module.PackageRef())

	_, err, _ = d.prefetchCalls.Do(key, func() (any, error) {
		d.mu.Lock()
		d.fetching[key] = struct{}{}
		d.mu.Unlock()
		defer func() {
			d.mu.Lock()
			delete(d.fetching, key)
			d.mu.Unlock()
		}()

		return nil, d.prefetch(ctx, site, module, h)
	})
	return err
}

func (d *Delegate) prefetch(ctx context.Context, site models.Site, module models.CourseModule, h Handler) error {
	ref := module.PackageRef()
	log := logger.FromContext(ctx).With().
		Str("func", "Delegate.prefetch").
		Str("site_id", site.ID).
		Str("component", ref.Component).
		Int64("component_id", ref.ComponentID).
		Logger()

	d.syncFirst(ctx, site, module)

	downloadable, err := h.IsDownloadable(ctx, site, module)
	if err != nil {
		return err
	}
	if !downloadable {
		return d.tracker.SetNotDownloadable(ctx, site.ID, ref)
	}

	files, err := h.GetFiles(ctx, site, module)
	if err != nil {
		return err
	}

	d.tracker.SetSection(site.ID, ref, module.CourseID, module.SectionID)
	if err = d.tracker.SetDownloading(ctx, site.ID, ref); err != nil {
		return err
	}

	if err = d.download(ctx, site, module, h, files); err != nil {
		log.Err(err).Msg("prefetch failed")
		if rerr := d.tracker.RestorePrevious(ctx, site.ID, ref); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}

	return d.tracker.SetDownloaded(ctx, site.ID, ref, models.FingerprintFromFiles(files))
}

func (d *Delegate) download(ctx context.Context, site models.Site, module models.CourseModule, h Handler, files []models.RemoteFile) error {
	if err := h.Prefetch(ctx, site, module); err != nil {
		return fmt.Errorf("prefetch %s data: %w", module.ModName, err)
	}
	if err := d.pool.AddFilesToQueueByURL(ctx, site, module.PackageRef(), files); err != nil {
		return fmt.Errorf("download %s files: %w", module.ModName, err)
	}
	return nil
}

// syncFirst sends pending offline data of the module. A failed sync does not
// prevent the download.
func (d *Delegate) syncFirst(ctx context.Context, site models.Site, module models.CourseModule) {
	if d.syncers == nil {
		return
	}
	provider, err := d.syncers.Get(module.ModName)
	if err != nil {
		return
	}
	if _, err = provider.Synchronize(ctx, site, module.Instance); err != nil && !errors.Is(err, syncer.ErrSyncBlocked) {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "Delegate.syncFirst").
			Str("site_id", site.ID).
			Str("module", string(module.ModName)).
			Int64("entity_id", module.Instance).
			Msg("synchronization before prefetch failed")
	}
}

// PrefetchAll downloads modules with bounded concurrency. A second call with
// the same download id while the first runs joins it instead of starting
// again; onProgress is then called for the remaining progress.
func (d *Delegate) PrefetchAll(ctx context.Context, site models.Site, downloadID string, modules []models.CourseModule, onProgress ProgressFunc) error {
	key := site.ID + "#" + downloadID

	d.mu.Lock()
	dl, running := d.downloads[key]
	if !running {
		dl = &download{
			done:     make(chan struct{}),
			progress: models.PrefetchProgress{DownloadID: downloadID, Total: len(modules), Success: true},
		}
		d.downloads[key] = dl
	}
	d.mu.Unlock()

	dl.subscribe(onProgress)

	if !running {
		go d.runDownload(context.WithoutCancel(ctx), site, key, dl, modules)
	}

	select {
	case <-dl.done:
		return dl.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsDownloading reports whether the bulk prefetch downloadID is running.
func (d *Delegate) IsDownloading(siteID, downloadID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.downloads[siteID+"#"+downloadID]
	return ok
}

func (d *Delegate) runDownload(ctx context.Context, site models.Site, key string, dl *download, modules []models.CourseModule) {
	defer func() {
		d.mu.Lock()
		delete(d.downloads, key)
		d.mu.Unlock()
		close(dl.done)
	}()

	var g errgroup.Group
	g.SetLimit(d.concurrency)

	for _, m := range modules {
		g.Go(func() error {
			err := d.PrefetchModule(ctx, site, m)
			p := dl.advance(err == nil)
			d.bus.Publish(ctx, models.Event{
				Name:     models.EventPrefetchProgress,
				SiteID:   site.ID,
				Module:   m.ModName,
				EntityID: m.Instance,
				Progress: &p,
			})
			return err
		})
	}
	dl.err = g.Wait()
}

// RemoveModuleFiles deletes the downloaded files of module and marks it not
// downloaded.
func (d *Delegate) RemoveModuleFiles(ctx context.Context, site models.Site, module models.CourseModule) error {
	ref := module.PackageRef()
	if err := d.pool.RemoveFiles(ctx, site.ID, ref); err != nil {
		return err
	}
	return d.tracker.Invalidate(ctx, site.ID, ref)
}

// InvalidateModule forgets the downloaded file versions of module, so the
// next status query and prefetch fetch everything again.
func (d *Delegate) InvalidateModule(ctx context.Context, site models.Site, module models.CourseModule) error {
	ref := module.PackageRef()
	if err := d.pool.InvalidateAllFiles(ctx, site.ID, ref); err != nil {
		return err
	}
	return d.tracker.Invalidate(ctx, site.ID, ref)
}
