package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-course-sync/internal/app"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/utils"
	"github.com/MKhiriev/go-course-sync/models"
)

// resource reads the site, module type and entity id a sync route acts on.
func resource(r *http.Request) (string, models.ModuleType, int64, error) {
	siteID, _ := utils.GetSiteIDFromContext(r.Context())

	entityID, err := strconv.ParseInt(chi.URLParam(r, "entityID"), 10, 64)
	if err != nil || entityID <= 0 {
		return "", "", 0, ErrInvalidEntityID
	}
	return siteID, models.ModuleType(chi.URLParam(r, "module")), entityID, nil
}

func (h *Handler) getSyncStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	siteID, module, entityID, err := resource(r)
	if err != nil {
		http.Error(w, app.MsgInvalidEntityID, http.StatusBadRequest)
		return
	}

	status, err := h.services.SyncService.Status(r.Context(), siteID, module, entityID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getSyncStatus").Msg("error getting sync status")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, status, http.StatusOK)
}

func (h *Handler) synchronize(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	siteID, module, entityID, err := resource(r)
	if err != nil {
		http.Error(w, app.MsgInvalidEntityID, http.StatusBadRequest)
		return
	}

	result, err := h.services.SyncService.Synchronize(r.Context(), siteID, module, entityID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.synchronize").Msg(app.MsgSyncFailed)
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) getSyncWarnings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	siteID, module, entityID, err := resource(r)
	if err != nil {
		http.Error(w, app.MsgInvalidEntityID, http.StatusBadRequest)
		return
	}

	warnings, err := h.services.SyncService.Warnings(r.Context(), siteID, module, entityID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getSyncWarnings").Msg("error getting sync warnings")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}
	if warnings == nil {
		warnings = []string{}
	}

	utils.WriteJSON(w, warnings, http.StatusOK)
}

func (h *Handler) clearSyncWarnings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	siteID, module, entityID, err := resource(r)
	if err != nil {
		http.Error(w, app.MsgInvalidEntityID, http.StatusBadRequest)
		return
	}

	if err = h.services.SyncService.ClearWarnings(r.Context(), siteID, module, entityID); err != nil {
		log.Err(err).Str("func", "*Handler.clearSyncWarnings").Msg("error clearing sync warnings")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// waitForSync answers once the running synchronization of the resource ends,
// with its result. It answers right away when none runs.
func (h *Handler) waitForSync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	siteID, module, entityID, err := resource(r)
	if err != nil {
		http.Error(w, app.MsgInvalidEntityID, http.StatusBadRequest)
		return
	}

	result, err := h.services.SyncService.Wait(r.Context(), siteID, module, entityID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.waitForSync").Msg(app.MsgSyncFailed)
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}

// blockSync keeps the resource from synchronizing until unblockSync is
// called, while the caller edits its offline data.
func (h *Handler) blockSync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	siteID, module, entityID, err := resource(r)
	if err != nil {
		http.Error(w, app.MsgInvalidEntityID, http.StatusBadRequest)
		return
	}

	if err = h.services.SyncService.Block(r.Context(), siteID, module, entityID); err != nil {
		log.Err(err).Str("func", "*Handler.blockSync").Msg("error blocking synchronization")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) unblockSync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	siteID, module, entityID, err := resource(r)
	if err != nil {
		http.Error(w, app.MsgInvalidEntityID, http.StatusBadRequest)
		return
	}

	if err = h.services.SyncService.Unblock(r.Context(), siteID, module, entityID); err != nil {
		log.Err(err).Str("func", "*Handler.unblockSync").Msg("error unblocking synchronization")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// syncAll synchronizes every module type of the site. ?force=true ignores
// the minimum interval between syncs.
func (h *Handler) syncAll(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	siteID, _ := utils.GetSiteIDFromContext(r.Context())

	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	if err := h.services.SyncService.SyncAll(r.Context(), siteID, force); err != nil {
		log.Err(err).Str("func", "*Handler.syncAll").Bool("force", force).Msg(app.MsgSyncFailed)
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
