package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-course-sync/internal/adapter"
	"github.com/MKhiriev/go-course-sync/internal/prefetch"
	"github.com/MKhiriev/go-course-sync/internal/service"
	"github.com/MKhiriev/go-course-sync/internal/site"
	"github.com/MKhiriev/go-course-sync/internal/store"
	"github.com/MKhiriev/go-course-sync/internal/syncer"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:         http.StatusBadRequest,
	service.ErrValidationNoModulesProvided: http.StatusBadRequest,
	service.ErrValidationNoEntityID:        http.StatusBadRequest,
	ErrInvalidEntityID:                     http.StatusBadRequest,
	ErrInvalidSectionID:                    http.StatusBadRequest,

	site.ErrInvalidSite:   http.StatusBadRequest,
	site.ErrUnknownSite:   http.StatusNotFound,
	site.ErrNoCurrentSite: http.StatusConflict,

	syncer.ErrUnknownModule: http.StatusNotFound,
	syncer.ErrSyncBlocked:   http.StatusLocked,
	syncer.ErrOffline:       http.StatusServiceUnavailable,
	syncer.ErrWifiOnly:      http.StatusServiceUnavailable,
	syncer.ErrRemoteWins:    http.StatusConflict,
	prefetch.ErrNoHandler:   http.StatusNotFound,

	adapter.ErrTransient:      http.StatusBadGateway,
	adapter.ErrInvalidSiteURL: http.StatusBadRequest,
	adapter.ErrDecodeResponse: http.StatusBadGateway,

	store.ErrRecordNotFound:       http.StatusNotFound,
	store.ErrStoreNotInitialized:  http.StatusInternalServerError,
	store.ErrStoreClosed:          http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
}

func statusFromError(err error) int {
	// errors answered by the web service are definitive rejections
	if adapter.IsWSError(err) {
		return http.StatusUnprocessableEntity
	}
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
