package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	var mu sync.Mutex
	var received []Event
	done := make(chan struct{}, 1)

	bus.Subscribe(EventScheduleRecomputed, func(e Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
		done <- struct{}{}
	})

	bus.Publish(Event{
		Type: EventScheduleRecomputed,
		Data: map[string]interface{}{"items": 3},
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never received event")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, EventScheduleRecomputed, received[0].Type)
	assert.Equal(t, 3, received[0].Data["items"])
	assert.False(t, received[0].Timestamp.IsZero(), "timestamp stamped on publish")
}

func TestBusTypeIsolation(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	got := make(chan EventType, 2)
	bus.Subscribe(EventItemMoved, func(e Event) { got <- e.Type })

	bus.Publish(Event{Type: EventAnchorChanged})
	bus.Publish(Event{Type: EventItemMoved})

	select {
	case typ := <-got:
		assert.Equal(t, EventItemMoved, typ)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never received event")
	}

	select {
	case typ := <-got:
		t.Fatalf("unexpected extra event %q", typ)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	got := make(chan struct{}, 1)
	unsubscribe := bus.Subscribe(EventScheduleRecomputed, func(Event) { got <- struct{}{} })
	unsubscribe()

	bus.Publish(Event{Type: EventScheduleRecomputed})

	select {
	case <-got:
		t.Fatal("unsubscribed listener still received event")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBusSubscriberPanicDoesNotBreakBus(t *testing.T) {
	bus := NewBus(10)
	defer bus.Close()

	done := make(chan struct{}, 2)
	bus.Subscribe(EventScheduleRecomputed, func(Event) {
		done <- struct{}{}
		panic("listener bug")
	})

	bus.Publish(Event{Type: EventScheduleRecomputed})
	bus.Publish(Event{Type: EventScheduleRecomputed})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d never delivered after panic", i)
		}
	}
}
