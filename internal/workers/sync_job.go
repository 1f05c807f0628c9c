package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-course-sync/internal/logger"
)

type syncJob struct {
	name     string
	syncer   Syncer
	sites    Sites
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob returns a worker calling syncer.SyncAll for the current site
// every interval. If interval is zero or negative it defaults to 5 minutes.
func NewSyncJob(name string, syncer Syncer, sites Sites, interval time.Duration) Worker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &syncJob{name: name, syncer: syncer, sites: sites, interval: interval}
}

// Run implements Worker. It stops any previously running job, then launches a
// background goroutine ticking every interval.
func (j *syncJob) Run(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.tick(jobCtx)
			}
		}
	}()
}

func (j *syncJob) tick(ctx context.Context) {
	log := logger.FromContext(ctx).With().
		Str("func", "syncJob.tick").
		Str("job", j.name).
		Logger()

	site, err := j.sites.Current(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("no site to synchronize")
		return
	}
	if err = j.syncer.SyncAll(ctx, site, false); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Str("site_id", site.ID).Msg("periodic synchronization failed")
	}
}

// Stop implements Worker. It cancels the background goroutine and blocks
// until it exits. Safe to call when the job is not running.
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
