package lesson

import (
	"context"

	"github.com/MKhiriev/go-course-sync/internal/adapter"
	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/modules"
	"github.com/MKhiriev/go-course-sync/internal/offline"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/internal/syncer"
	"github.com/MKhiriev/go-course-sync/models"
)

// Module bundles the offline storage, synchronization and prefetch handler
// of lessons.
type Module struct {
	Offline *Offline
	Sync    syncer.Module
	Handler *modules.Handler
}

// New wires the lesson module. Page attempts are synchronized before the
// retake is finished.
func New(st store.LocalStore, ws adapter.CachedWebService, manifest adapter.FileManifest, bus *events.Bus, opts ...offline.Option) *Module {
	off := NewOffline(st, bus, opts...)

	return &Module{
		Offline: off,
		Sync: syncer.Compose(models.ModuleLesson,
			syncer.NewEngine[models.LessonPageAttempt](off.Attempts, &attemptStrategy{ws: ws}),
			syncer.NewEngine[models.LessonRetake](off.Retakes, &retakeStrategy{ws: ws}),
		),
		Handler: modules.NewHandler(models.ModuleLesson, manifest, func(ctx context.Context, site models.Site, module models.CourseModule) error {
			return warm(ctx, ws, site, module)
		}),
	}
}

func warm(ctx context.Context, ws adapter.CachedWebService, site models.Site, module models.CourseModule) error {
	err := ws.CachedCall(ctx, site, fnGetLessons, map[string]any{
		"courseids": []int64{module.CourseID},
	}, nil, adapter.DefaultPreSets())
	if err != nil {
		return err
	}

	preSets := adapter.DefaultPreSets()
	preSets.CacheKey = AccessInfoCacheKey(module.Instance)
	err = ws.CachedCall(ctx, site, fnGetAccessInformation, map[string]any{
		"lessonid": module.Instance,
	}, nil, preSets)
	if err != nil {
		return err
	}

	return ws.CachedCall(ctx, site, fnGetPages, map[string]any{
		"lessonid": module.Instance,
	}, nil, adapter.DefaultPreSets())
}
