package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-course-sync/internal/app"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/utils"
	"github.com/MKhiriev/go-course-sync/models"
)

// withoutToken hides the web-service token from responses.
func withoutToken(site models.Site) models.Site {
	site.Token = ""
	return site
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var site models.Site
	if err := json.NewDecoder(r.Body).Decode(&site); err != nil {
		log.Err(err).Str("func", "*Handler.login").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	if err := h.services.SiteService.Login(r.Context(), site); err != nil {
		log.Err(err).Str("func", "*Handler.login").Str("site_id", site.ID).Msg(app.MsgLoginFailed)
		http.Error(w, app.MsgLoginFailed+": "+err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, withoutToken(site), http.StatusOK)
}

// logout logs the site out. ?retain=true keeps its offline data for a later
// login.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	siteID := chi.URLParam(r, "siteID")

	retain, _ := strconv.ParseBool(r.URL.Query().Get("retain"))
	if err := h.services.SiteService.Logout(r.Context(), siteID, retain); err != nil {
		log.Err(err).Str("func", "*Handler.logout").Str("site_id", siteID).Msg(app.MsgLogoutFailed)
		http.Error(w, app.MsgLogoutFailed+": "+err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSites(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	sites, err := h.services.SiteService.List(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.listSites").Msg("error listing sites")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	out := make([]models.Site, 0, len(sites))
	for _, s := range sites {
		out = append(out, withoutToken(s))
	}
	utils.WriteJSON(w, out, http.StatusOK)
}
