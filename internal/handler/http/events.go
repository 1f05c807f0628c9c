package http

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     isLocalOrigin,
}

// isLocalOrigin accepts non-browser clients and pages served from the
// device itself.
func isLocalOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// eventFilter selects the events a stream forwards: ?site=<id> keeps one
// site's events plus the ones not bound to a site, every ?name=<event>
// narrows the names.
type eventFilter struct {
	siteID string
	names  []models.EventName
}

func newEventFilter(r *http.Request) eventFilter {
	query := r.URL.Query()
	f := eventFilter{siteID: query.Get("site")}
	for _, name := range query["name"] {
		f.names = append(f.names, models.EventName(name))
	}
	if len(f.names) == 0 {
		f.names = models.AllEvents()
	}
	return f
}

func (f eventFilter) match(e models.Event) bool {
	if f.siteID != "" && e.SiteID != "" && e.SiteID != f.siteID {
		return false
	}
	return slices.Contains(f.names, e.Name)
}

// streamEvents upgrades the request to a WebSocket and forwards bus events
// as JSON text messages until the peer goes away. A slow peer loses events
// instead of blocking publishers.
func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	filter := newEventFilter(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Err(err).Str("func", "*Handler.streamEvents").Msg("websocket upgrade failed")
		return
	}

	send := make(chan models.Event, sendBufferSize)
	unsubscribe := h.bus.SubscribeAll(func(_ context.Context, e models.Event) {
		if !filter.match(e) {
			return
		}
		select {
		case send <- e:
		default:
			log.Warn().Str("func", "*Handler.streamEvents").Str("event", string(e.Name)).Msg("event stream is full, event dropped")
		}
	}, filter.names...)
	defer unsubscribe()

	log.Info().Str("func", "*Handler.streamEvents").Str("filter_site_id", filter.siteID).Msg("event stream opened")

	closed := make(chan struct{})
	go readPump(conn, closed)
	writePump(conn, send, closed)

	log.Info().Str("func", "*Handler.streamEvents").Msg("event stream closed")
}

// readPump consumes control frames so pongs and close messages are handled.
// It closes closed when the connection fails.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, send <-chan models.Event, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case e := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
