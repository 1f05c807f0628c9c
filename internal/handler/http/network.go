package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-course-sync/internal/app"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/network"
	"github.com/MKhiriev/go-course-sync/internal/utils"
)

func (h *Handler) getNetworkState(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.services.NetworkService.State(), http.StatusOK)
}

// reportNetworkState records the connectivity reported by the platform.
// Coming back online triggers synchronization of the current site.
func (h *Handler) reportNetworkState(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var state network.State
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		log.Err(err).Str("func", "*Handler.reportNetworkState").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	h.services.NetworkService.Set(r.Context(), state)
	w.WriteHeader(http.StatusNoContent)
}
