package handler

import (
	"github.com/MKhiriev/go-course-sync/internal/config"
	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/handler/http"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers builds the transport handlers enabled by cfg. The control API
// is the only transport; an empty address disables it and is an error.
func NewHandlers(services *service.Services, bus *events.Bus, cfg config.ClientServer, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, bus, cfg.RequestTimeout, logger),
	}, nil
}
