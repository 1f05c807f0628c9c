// Package http implements the local control API of the sync client.
//
// It exposes route wiring, request handlers and middleware. Site resolution,
// request tracing, access logging and response compression are handled in
// this package before requests are delegated to the service layer. Client
// events are streamed over a WebSocket.
package http
