// Package workers runs the background jobs of the client: periodic
// synchronization per module type, synchronization on login and when the
// network comes back, and connectivity probing.
package workers

import (
	"context"

	"github.com/MKhiriev/go-course-sync/models"
)

// Worker is a background job. Run starts it and returns without blocking;
// the job ends when ctx is done or Stop is called.
//
// Example implementation:
//
//	type MyWorker struct{ cancel context.CancelFunc }
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    ctx, w.cancel = context.WithCancel(ctx)
//	    go process(ctx)
//	}
//
//	func (w *MyWorker) Stop() { w.cancel() }
type Worker interface {
	Run(ctx context.Context)
	Stop()
}

// Sites gives the jobs the sites to synchronize.
type Sites interface {
	Current(ctx context.Context) (models.Site, error)
	Get(ctx context.Context, siteID string) (models.Site, error)
}

// Syncer synchronizes the offline data of a site.
type Syncer interface {
	SyncAll(ctx context.Context, site models.Site, force bool) error
}
