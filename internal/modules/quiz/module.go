package quiz

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
// of quizzes.
type Module struct {
	Offline *Offline
	Sync    syncer.Module
	Handler *modules.Handler
}

// New wires the quiz module.
func New(st store.LocalStore, ws adapter.CachedWebService, manifest adapter.FileManifest, bus *events.Bus, opts ...offline.Option) *Module {
	off := NewOffline(st, bus, opts...)

	return &Module{
		Offline: off,
		Sync:    syncer.NewEngine[models.QuizAttemptAnswers](off.Attempts, &attemptStrategy{ws: ws}),
		Handler: modules.NewHandler(models.ModuleQuiz, manifest, func(ctx context.Context, site models.Site, module models.CourseModule) error {
			err := ws.CachedCall(ctx, site, fnGetQuizzes, map[string]any{
				"courseids": []int64{module.CourseID},
			}, nil, adapter.DefaultPreSets())
			if err != nil {
				return err
			}

			preSets := adapter.DefaultPreSets()
			preSets.CacheKey = UserAttemptsCacheKey(module.Instance)
			return ws.CachedCall(ctx, site, fnGetUserAttempts, map[string]any{
				"quizid":          module.Instance,
				"userid":          site.UserID,
				"status":          "all",
				"includepreviews": true,
			}, nil, preSets)
		}),
	}
}
