package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-course-sync/internal/app"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/prefetch"
	"github.com/MKhiriev/go-course-sync/internal/utils"
	"github.com/MKhiriev/go-course-sync/models"
)

func (h *Handler) getModulesStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	siteID, _ := utils.GetSiteIDFromContext(ctx)

	var request models.ModulesRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.getModulesStatus").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	aggregate, err := h.services.PrefetchService.ModulesStatus(ctx, siteID, request.Modules)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getModulesStatus").Msg("error getting modules status")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	response := models.ModulesStatusResponse{
		Status:  aggregate,
		Modules: make(map[int64]models.DownloadStatus, len(request.Modules)),
	}
	for _, module := range request.Modules {
		status, err := h.services.PrefetchService.ModuleStatus(ctx, siteID, module)
		if errors.Is(err, prefetch.ErrNoHandler) {
			continue
		}
		if err != nil {
			log.Err(err).Str("func", "*Handler.getModulesStatus").Int64("cmid", module.ID).Msg("error getting module status")
			http.Error(w, err.Error(), statusFromError(err))
			return
		}
		response.Modules[module.ID] = status
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) getDownloadSize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	siteID, _ := utils.GetSiteIDFromContext(ctx)

	var request models.ModulesRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.getDownloadSize").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	size, err := h.services.PrefetchService.DownloadSize(ctx, siteID, request.Modules)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getDownloadSize").Msg("error getting download size")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, size, http.StatusOK)
}

// prefetch starts a bulk prefetch and answers 202 right away. Progress is
// published as prefetch-progress events on the event stream.
func (h *Handler) prefetch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	siteID, _ := utils.GetSiteIDFromContext(ctx)

	var request models.PrefetchRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.prefetch").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	downloadID, err := h.services.PrefetchService.Prefetch(ctx, siteID, request.DownloadID, request.Modules)
	if err != nil {
		log.Err(err).Str("func", "*Handler.prefetch").Msg(app.MsgPrefetchFailed)
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.PrefetchResponse{DownloadID: downloadID}, http.StatusAccepted)
}

func (h *Handler) removeModuleFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	siteID, _ := utils.GetSiteIDFromContext(ctx)

	var module models.CourseModule
	if err := json.NewDecoder(r.Body).Decode(&module); err != nil {
		log.Err(err).Str("func", "*Handler.removeModuleFiles").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	if err := h.services.PrefetchService.RemoveFiles(ctx, siteID, module); err != nil {
		log.Err(err).Str("func", "*Handler.removeModuleFiles").Int64("cmid", module.ID).Msg("error removing module files")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getSectionStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	siteID, _ := utils.GetSiteIDFromContext(ctx)

	courseID, err := strconv.ParseInt(chi.URLParam(r, "courseID"), 10, 64)
	if err != nil {
		http.Error(w, app.MsgInvalidSectionID, http.StatusBadRequest)
		return
	}
	sectionID, err := strconv.ParseInt(chi.URLParam(r, "sectionID"), 10, 64)
	if err != nil {
		http.Error(w, app.MsgInvalidSectionID, http.StatusBadRequest)
		return
	}

	status, err := h.services.PrefetchService.SectionStatus(ctx, siteID, courseID, sectionID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getSectionStatus").Msg("error getting section status")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, map[string]models.DownloadStatus{"status": status}, http.StatusOK)
}
