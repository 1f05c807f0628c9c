package http

import (
	"net/http"

	"github.com/MKhiriev/go-course-sync/internal/utils"
)

const (
	traceIDHeader  = "X-Trace-ID"
	maxTraceIDSize = 128
)

// withTraceID attaches a child logger carrying the request trace id to the
// request context and echoes the id back. Callers may supply their own id.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	ids := utils.NewUUIDGenerator()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" || len(traceID) > maxTraceIDSize {
			traceID = ids.Generate()
		}

		l := h.logger.WithStr("trace_id", traceID)

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
	})
}
