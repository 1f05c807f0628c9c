package server

import (
	"context"
	"fmt"
	"net"

	"github.com/MKhiriev/go-course-sync/internal/config"
	"github.com/MKhiriev/go-course-sync/internal/handler"
	"github.com/MKhiriev/go-course-sync/internal/logger"
)

type server struct {
	httpServer *httpServer
	address    string
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.ClientServer, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoControlAPI
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		address:    cfg.HTTPAddress,
		logger:     logger,
	}, nil
}

func (s *server) RunServer(ctx context.Context) error {
	l, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.address, err)
	}
	return s.serve(ctx, l)
}

func (s *server) serve(ctx context.Context, l net.Listener) error {
	s.logger.Info().Str("address", l.Addr().String()).Msg("Launching HTTP server")

	served := make(chan error, 1)
	go func() {
		served <- s.httpServer.Serve(l)
	}()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}

	s.Shutdown()
	<-served
	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()
}
