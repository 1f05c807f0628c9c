package http

import (
	"net/http"
)

func (h *Handler) getAppVersion(w http.ResponseWriter, r *http.Request) {
	appVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(appVersion))
}
