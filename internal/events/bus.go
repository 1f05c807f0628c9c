// Package events provides the in-process publish/subscribe bus the client
// components use to signal login, logout, connectivity, package status and
// sync outcomes to each other.
package events

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-course-sync/internal/logger"
	"github.com/MKhiriev/go-course-sync/internal/utils"
	"github.com/MKhiriev/go-course-sync/models"
)

// Handler receives published events. Handlers run on the publishing
// goroutine and must not block.
type Handler func(ctx context.Context, event models.Event)

// Bus is an explicit event bus. The zero value is not usable; create one with
// [NewBus].
type Bus struct {
	mu     sync.RWMutex
	subs   map[models.EventName]map[string]Handler
	nextID utils.IDGenerator
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs:   make(map[models.EventName]map[string]Handler),
		nextID: utils.NewUUIDGenerator(),
	}
}

// Subscribe registers h for events named name. The returned function removes
// the subscription; calling it more than once is harmless.
func (b *Bus) Subscribe(name models.EventName, h Handler) (unsubscribe func()) {
	id := b.nextID.Generate()

	b.mu.Lock()
	handlers, ok := b.subs[name]
	if !ok {
		handlers = make(map[string]Handler)
		b.subs[name] = handlers
	}
	handlers[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[name], id)
			b.mu.Unlock()
		})
	}
}

// SubscribeAll registers h for every event name in names and returns one
// function removing all of the subscriptions.
func (b *Bus) SubscribeAll(h Handler, names ...models.EventName) (unsubscribe func()) {
	unsubs := make([]func(), 0, len(names))
	for _, name := range names {
		unsubs = append(unsubs, b.Subscribe(name, h))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Publish delivers event to a snapshot of the current subscribers. A handler
// that panics is logged and does not prevent delivery to the others.
func (b *Bus) Publish(ctx context.Context, event models.Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[event.Name]))
	for _, h := range b.subs[event.Name] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		deliver(ctx, h, event)
	}
}

func deliver(ctx context.Context, h Handler, event models.Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error().
				Str("func", "Bus.Publish").
				Str("event", string(event.Name)).
				Interface("panic", r).
				Msg("event handler panicked")
		}
	}()
	h(ctx, event)
}
