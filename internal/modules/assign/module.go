package assign

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
// of assignments.
type Module struct {
	Offline *Offline
	Sync    syncer.Module
	Handler *modules.Handler
}

// New wires the assignment module. Submissions are synchronized before
// grades.
func New(st store.LocalStore, ws adapter.CachedWebService, manifest adapter.FileManifest, bus *events.Bus, opts ...offline.Option) *Module {
	off := NewOffline(st, bus, opts...)

	return &Module{
		Offline: off,
		Sync: syncer.Compose(models.ModuleAssign,
			syncer.NewEngine[models.AssignSubmission](off.Submissions, &submissionStrategy{ws: ws}),
			syncer.NewEngine[models.AssignGrade](off.Grades, &gradeStrategy{ws: ws}),
		),
		Handler: modules.NewHandler(models.ModuleAssign, manifest, func(ctx context.Context, site models.Site, module models.CourseModule) error {
			return warm(ctx, ws, site, module)
		}),
	}
}

func warm(ctx context.Context, ws adapter.CachedWebService, site models.Site, module models.CourseModule) error {
	err := ws.CachedCall(ctx, site, fnGetAssignments, map[string]any{
		"courseids": []int64{module.CourseID},
	}, nil, adapter.DefaultPreSets())
	if err != nil {
		return err
	}

	preSets := adapter.DefaultPreSets()
	preSets.CacheKey = SubmissionStatusCacheKey(module.Instance)
	return ws.CachedCall(ctx, site, fnGetSubmissionStatus, map[string]any{
		"assignid": module.Instance,
		"userid":   site.UserID,
	}, nil, preSets)
}
