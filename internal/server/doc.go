// Package server runs the local control API server and shuts it down
// gracefully when its context ends.
package server
