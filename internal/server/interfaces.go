package server

import "context"

// Server defines the lifecycle contract of the transport servers managed by
// this package.
type Server interface {
	// RunServer serves requests until ctx is done, then shuts down
	// gracefully. It returns early when the listener fails.
	RunServer(ctx context.Context) error

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
