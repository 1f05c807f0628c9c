// Package network keeps track of the connectivity of the device and of the
// restrictions the user put on using it.
package network

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-course-sync/internal/events"
	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/models"
)

// State is a connectivity snapshot.
type State struct {
	Online  bool `json:"online"`
	Wifi    bool `json:"wifi"`
	Metered bool `json:"metered"`
}

// Monitor holds the current connectivity state and announces changes of it
// with online-status-changed events.
type Monitor struct {
	mu    sync.RWMutex
	state State
	bus   *events.Bus
}

// NewMonitor returns a monitor starting at initial.
func NewMonitor(bus *events.Bus, initial State) *Monitor {
	return &Monitor{state: initial, bus: bus}
}

// State returns the current state.
func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsOnline reports whether the device can reach the network.
func (m *Monitor) IsOnline() bool {
	return m.State().Online
}

// Set records a new state. Subscribers are notified when it differs from the
// previous one.
func (m *Monitor) Set(ctx context.Context, s State) {
	m.mu.Lock()
	previous := m.state
	m.state = s
	m.mu.Unlock()

	if previous == s {
		return
	}

	logger.FromContext(ctx).Info().
		Str("func", "Monitor.Set").
		Bool("online", s.Online).
		Bool("wifi", s.Wifi).
		Bool("metered", s.Metered).
		Msg("connectivity changed")

	m.bus.Publish(ctx, models.Event{
		Name:   models.EventOnlineStatusChanged,
		Online: s.Online,
	})
}
