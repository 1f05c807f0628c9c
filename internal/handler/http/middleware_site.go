package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-course-sync/internal/app"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/site"
	"github.com/MKhiriev/go-course-sync/internal/utils"
)

const siteIDHeader = "X-Site-ID"

// withSite resolves the site a request acts on and stores its id in the
// request context under [utils.SiteIDCtxKey]. The site is named by the
// X-Site-ID header; without it the current site is used.
//
// Requests are rejected with 404 when the header names an unknown site and
// with 409 when no header is sent and no site is logged in.
func (h *Handler) withSite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)

		siteID := r.Header.Get(siteIDHeader)
		if siteID == "" {
			current, err := h.services.SiteService.Current(ctx)
			if err != nil {
				log.Err(err).Str("func", "*Handler.withSite").Msg("no site to act on")
				http.Error(w, app.MsgNoSiteSelected, statusFromError(err))
				return
			}
			siteID = current.ID
		} else if _, err := h.services.SiteService.Get(ctx, siteID); err != nil {
			log.Err(err).Str("func", "*Handler.withSite").Str("site_id", siteID).Msg("site lookup failed")
			msg := app.MsgInternalServerError
			if errors.Is(err, site.ErrUnknownSite) {
				msg = app.MsgUnknownSite
			}
			http.Error(w, msg, statusFromError(err))
			return
		}

		ctx = context.WithValue(log.WithStr("site_id", siteID).WithContext(ctx), utils.SiteIDCtxKey, siteID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
