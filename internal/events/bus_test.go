package events

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-course-sync/models"
)

func TestBus_PublishReachesSubscribersOfName(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var got []models.Event
	bus.Subscribe(models.EventLogin, func(_ context.Context, e models.Event) {
		got = append(got, e)
	})
	bus.Subscribe(models.EventLogout, func(_ context.Context, e models.Event) {
		t.Errorf("logout handler received %s", e.Name)
	})

	bus.Publish(ctx, models.Event{Name: models.EventLogin, SiteID: "s1"})

	assert.Equal(t, []models.Event{{Name: models.EventLogin, SiteID: "s1"}}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var calls int
	unsubscribe := bus.Subscribe(models.EventAutoSynced, func(context.Context, models.Event) { calls++ })

	bus.Publish(ctx, models.Event{Name: models.EventAutoSynced})
	unsubscribe()
	unsubscribe()
	bus.Publish(ctx, models.Event{Name: models.EventAutoSynced})

	assert.Equal(t, 1, calls)
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var names []models.EventName
	unsubscribe := bus.SubscribeAll(func(_ context.Context, e models.Event) {
		names = append(names, e.Name)
	}, models.EventLogin, models.EventOnlineStatusChanged)

	bus.Publish(ctx, models.Event{Name: models.EventLogin})
	bus.Publish(ctx, models.Event{Name: models.EventOnlineStatusChanged})
	bus.Publish(ctx, models.Event{Name: models.EventLogout})
	unsubscribe()
	bus.Publish(ctx, models.Event{Name: models.EventLogin})

	assert.Equal(t, []models.EventName{models.EventLogin, models.EventOnlineStatusChanged}, names)
}

func TestBus_PanickingHandlerDoesNotStopDelivery(t *testing.T) {
	bus := NewBus()

	var delivered atomic.Int32
	bus.Subscribe(models.EventLogin, func(context.Context, models.Event) { panic("boom") })
	bus.Subscribe(models.EventLogin, func(context.Context, models.Event) { delivered.Add(1) })

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), models.Event{Name: models.EventLogin})
	})
	assert.Equal(t, int32(1), delivered.Load())
}

func TestBus_ConcurrentSubscribeAndPublish(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unsub := bus.Subscribe(models.EventEntryChanged, func(context.Context, models.Event) {})
			unsub()
		}()
		go func() {
			defer wg.Done()
			bus.Publish(ctx, models.Event{Name: models.EventEntryChanged})
		}()
	}
	wg.Wait()
}
