package http

import (
	"time"

	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/service"
)

type Handler struct {
	services *service.Services
	bus      *events.Bus

	// requestTimeout bounds every request except the event stream.
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, bus *events.Bus, requestTimeout time.Duration, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		bus:            bus,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}
