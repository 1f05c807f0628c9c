package syncer

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/models"
)

// SyncFunc is one synchronization run of a resource.
type SyncFunc func(ctx context.Context) (models.SyncResult, error)

type inflight struct {
	done    chan struct{}
	callers int
	result  models.SyncResult
	err     error
}

// Coordinator makes sure at most one synchronization of a resource runs at a
// time. Callers arriving while a run is in flight get its result.
type Coordinator struct {
	mu      sync.Mutex
	calls   map[models.ResourceID]*inflight
	blocked map[models.ResourceID]int
}

// NewCoordinator returns an idle coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		calls:   make(map[models.ResourceID]*inflight),
		blocked: make(map[models.ResourceID]int),
	}
}

// Run starts fn for id unless a run of id is in flight, then waits for the
// result. The run is detached from the cancellation of ctx: it always
// completes, a cancelled caller only stops waiting for it.
func (c *Coordinator) Run(ctx context.Context, id models.ResourceID, fn SyncFunc) (models.SyncResult, error) {
	c.mu.Lock()
	if c.blocked[id] > 0 {
		c.mu.Unlock()
		return models.SyncResult{}, ErrSyncBlocked
	}
	call, ok := c.calls[id]
	if !ok {
		call = &inflight{done: make(chan struct{})}
		c.calls[id] = call
		go c.execute(context.WithoutCancel(ctx), id, call, fn)
	}
	call.callers++
	c.mu.Unlock()

	return wait(ctx, call)
}

func (c *Coordinator) execute(ctx context.Context, id models.ResourceID, call *inflight, fn SyncFunc) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error().
				Str("func", "Coordinator.execute").
				Str("resource", id.String()).
				Interface("panic", r).
				Msg("synchronization panicked")
			call.err = fmt.Errorf("synchronization of %s panicked: %v", id, r)
		}

		c.mu.Lock()
		delete(c.calls, id)
		joined := call.callers
		c.mu.Unlock()

		if joined > 1 {
			logger.FromContext(ctx).Debug().
				Str("func", "Coordinator.execute").
				Str("resource", id.String()).
				Int("callers", joined).
				Msg("synchronization result shared")
		}
		close(call.done)
	}()

	call.result, call.err = fn(ctx)
}

func wait(ctx context.Context, call *inflight) (models.SyncResult, error) {
	select {
	case <-call.done:
		return call.result, call.err
	case <-ctx.Done():
		return models.SyncResult{}, ctx.Err()
	}
}

// Wait returns the result of the in-flight run of id. ok is false when
// nothing is running.
func (c *Coordinator) Wait(ctx context.Context, id models.ResourceID) (result models.SyncResult, ok bool, err error) {
	c.mu.Lock()
	call, running := c.calls[id]
	if running {
		call.callers++
	}
	c.mu.Unlock()

	if !running {
		return models.SyncResult{}, false, nil
	}
	result, err = wait(ctx, call)
	return result, true, err
}

// callers returns how many Run and Wait calls joined the in-flight run of id.
func (c *Coordinator) callers(id models.ResourceID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if call, ok := c.calls[id]; ok {
		return call.callers
	}
	return 0
}

// IsRunning reports whether a run of id is in flight.
func (c *Coordinator) IsRunning(id models.ResourceID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.calls[id]
	return ok
}

// Block refuses new runs of id until a matching Unblock. Blocks nest.
func (c *Coordinator) Block(id models.ResourceID) {
	c.mu.Lock()
	c.blocked[id]++
	c.mu.Unlock()
}

// Unblock releases one Block of id.
func (c *Coordinator) Unblock(id models.ResourceID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocked[id] <= 1 {
		delete(c.blocked, id)
		return
	}
	c.blocked[id]--
}

// IsBlocked reports whether id is blocked.
func (c *Coordinator) IsBlocked(id models.ResourceID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocked[id] > 0
}

// UnblockSite drops every block of the site.
func (c *Coordinator) UnblockSite(siteID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id := range c.blocked {
		if id.SiteID == siteID {
			delete(c.blocked, id)
		}
	}
}

// UnblockOnLogout drops the blocks of a site when it logs out. The returned
// function stops listening.
func (c *Coordinator) UnblockOnLogout(bus *events.Bus) (unsubscribe func()) {
	return bus.Subscribe(models.EventLogout, func(_ context.Context, e models.Event) {
		c.UnblockSite(e.SiteID)
	})
}
