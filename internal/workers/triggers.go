package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/models"
)

type eventTrigger struct {
	bus    *events.Bus
	syncer Syncer
	sites  Sites

	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
}

// NewEventTrigger returns a worker synchronizing a site right after it logs
// in, and the current site whenever the network comes back online.
func NewEventTrigger(bus *events.Bus, syncer Syncer, sites Sites) Worker {
	return &eventTrigger{bus: bus, syncer: syncer, sites: sites}
}

// Run implements Worker.
func (w *eventTrigger) Run(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.unsubscribe = w.bus.SubscribeAll(w.handle, models.EventLogin, models.EventOnlineStatusChanged)
	w.mu.Unlock()
}

func (w *eventTrigger) handle(_ context.Context, e models.Event) {
	if e.Name == models.EventOnlineStatusChanged && !e.Online {
		return
	}

	w.mu.Lock()
	ctx := w.ctx
	if ctx == nil || ctx.Err() != nil {
		w.mu.Unlock()
		return
	}
	w.wg.Add(1)
	w.mu.Unlock()

	// Publishers must not wait for the synchronization.
	go func() {
		defer w.wg.Done()
		w.sync(ctx, e)
	}()
}

func (w *eventTrigger) sync(ctx context.Context, e models.Event) {
	log := logger.FromContext(ctx).With().
		Str("func", "eventTrigger.sync").
		Str("event", string(e.Name)).
		Logger()

	var (
		site models.Site
		err  error
	)
	if e.SiteID != "" {
		site, err = w.sites.Get(ctx, e.SiteID)
	} else {
		site, err = w.sites.Current(ctx)
	}
	if err != nil {
		log.Debug().Err(err).Msg("no site to synchronize")
		return
	}

	if err = w.syncer.SyncAll(ctx, site, false); err != nil {
		log.Warn().Err(err).Str("site_id", site.ID).Msg("triggered synchronization failed")
	}
}

// Stop implements Worker. It unsubscribes and waits for running
// synchronizations.
func (w *eventTrigger) Stop() {
	w.mu.Lock()
	cancel, unsubscribe := w.cancel, w.unsubscribe
	w.cancel, w.unsubscribe = nil, nil
	w.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}
