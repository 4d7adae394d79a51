// internal/postoffice/postoffice_test.go
package postoffice

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDeliversInRegistrationOrder(t *testing.T) {
	p := New()
	var order []string

	p.Watch(func(ev Event) { order = append(order, "first:"+ev.Type) })
	p.Watch(func(ev Event) { order = append(order, "second:"+ev.Type) })

	p.Send(Event{Type: EventLobbyUpdate})
	p.Send(Event{Type: EventStoryUpdate})

	require.Equal(t, []string{
		"first:" + EventLobbyUpdate,
		"second:" + EventLobbyUpdate,
		"first:" + EventStoryUpdate,
		"second:" + EventStoryUpdate,
	}, order)
}

func TestUnsubscribeStopsDeliveryAndIsIdempotent(t *testing.T) {
	p := New()
	var got int

	unwatch := p.Watch(func(Event) { got++ })
	p.Send(Event{Type: EventDashboardUpdate})
	require.Equal(t, 1, got)

	unwatch()
	unwatch() // second call must be a no-op

	p.Send(Event{Type: EventDashboardUpdate})
	assert.Equal(t, 1, got)
}

func TestHandlerRegisteredDuringSendMissesInFlightEvent(t *testing.T) {
	p := New()
	var late []string

	p.Watch(func(Event) {
		p.Watch(func(ev Event) { late = append(late, ev.Type) })
	})

	p.Send(Event{Type: EventLobbyUpdate})
	assert.Empty(t, late, "handler registered mid-delivery saw the in-flight event")

	p.Send(Event{Type: EventStoryUpdate})
	assert.Equal(t, []string{EventStoryUpdate}, late)
}

func TestPanickingHandlerDoesNotStopDelivery(t *testing.T) {
	p := New()
	var survived []string

	p.Watch(func(Event) { panic("boom") })
	p.Watch(func(ev Event) { survived = append(survived, ev.Type) })

	require.NotPanics(t, func() {
		p.Send(Event{Type: EventVoteUpdate, LobbyID: uuid.New(), Payload: 2})
	})
	assert.Equal(t, []string{EventVoteUpdate}, survived)
}

func TestUnsubscribeDuringSendKeepsInFlightDelivery(t *testing.T) {
	p := New()
	var got []string
	var unwatchSecond func()

	p.Watch(func(Event) { unwatchSecond() })
	unwatchSecond = p.Watch(func(ev Event) { got = append(got, ev.Type) })

	// The snapshot taken at Send time still includes the second handler.
	p.Send(Event{Type: EventLobbyUpdate})
	assert.Equal(t, []string{EventLobbyUpdate}, got)

	p.Send(Event{Type: EventStoryUpdate})
	assert.Equal(t, []string{EventLobbyUpdate}, got)
}
