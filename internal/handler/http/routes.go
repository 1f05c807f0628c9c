package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)

	// the event stream needs the raw connection, so it skips the writers
	// that wrap http.ResponseWriter
	router.Get("/api/events", h.streamEvents)

	router.Group(func(r chi.Router) {
		r.Use(h.withLogging, withGZip)
		if h.requestTimeout > 0 {
			r.Use(middleware.Timeout(h.requestTimeout))
		}

		r.Get("/api/version", h.getAppVersion)

		r.Get("/api/network", h.getNetworkState)
		r.Post("/api/network", h.reportNetworkState)

		r.Get("/api/sites", h.listSites)
		r.Post("/api/sites/login", h.login)
		r.Post("/api/sites/{siteID}/logout", h.logout)

		// site-scoped routes
		r.Group(func(r chi.Router) {
			r.Use(h.withSite)

			r.Post("/api/sync", h.syncAll)
			r.Get("/api/sync/{module}/{entityID}", h.getSyncStatus)
			r.Post("/api/sync/{module}/{entityID}", h.synchronize)
			r.Get("/api/sync/{module}/{entityID}/warnings", h.getSyncWarnings)
			r.Delete("/api/sync/{module}/{entityID}/warnings", h.clearSyncWarnings)
			r.Get("/api/sync/{module}/{entityID}/wait", h.waitForSync)
			r.Post("/api/sync/{module}/{entityID}/block", h.blockSync)
			r.Delete("/api/sync/{module}/{entityID}/block", h.unblockSync)

			r.Post("/api/modules/status", h.getModulesStatus)
			r.Post("/api/modules/size", h.getDownloadSize)
			r.Post("/api/modules/prefetch", h.prefetch)
			r.Post("/api/modules/remove", h.removeModuleFiles)
			r.Get("/api/sections/{courseID}/{sectionID}/status", h.getSectionStatus)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
