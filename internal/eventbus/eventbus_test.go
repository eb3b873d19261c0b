package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablestate/internal/filters"
	"tablestate/internal/logging"
)

func TestPublishIsSynchronousAndOrdered(t *testing.T) {
	b := New(logging.Discard())
	var got []string

	b.Subscribe(EventSelectionChanged, func(e DomainEvent) {
		got = append(got, "first:"+e.(SelectionChangedEvent).IDs[0])
	})
	b.Subscribe(EventSelectionChanged, func(e DomainEvent) {
		got = append(got, "second:"+e.(SelectionChangedEvent).IDs[0])
	})
	b.Subscribe(EventFiltersChanged, func(DomainEvent) {
		got = append(got, "filters")
	})

	b.Publish(SelectionChangedEvent{TableID: "users", IDs: []string{"u1"}})
	b.Publish(SelectionChangedEvent{TableID: "users", IDs: []string{"u2"}})

	assert.Equal(t, []string{"first:u1", "second:u1", "first:u2", "second:u2"}, got)
}

func TestUnsubscribe(t *testing.T) {
	b := New(logging.Discard())
	calls := 0
	unsubscribe := b.Subscribe(EventFiltersChanged, func(DomainEvent) { calls++ })

	b.Publish(FiltersChangedEvent{Values: filters.Values{}})
	unsubscribe()
	unsubscribe()
	b.Publish(FiltersChangedEvent{Values: filters.Values{}})

	assert.Equal(t, 1, calls)
}

func TestPanickingHandlerDoesNotStopDelivery(t *testing.T) {
	b := New(logging.Discard())
	delivered := false

	b.Subscribe(EventError, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventError, func(DomainEvent) { delivered = true })

	require.NotPanics(t, func() {
		b.Publish(ErrorEvent{Message: "x"})
	})
	assert.True(t, delivered)
}

func TestHandlerMaySubscribeDuringPublish(t *testing.T) {
	b := New(logging.Discard())
	late := 0

	b.Subscribe(EventSearchSubmitted, func(DomainEvent) {
		b.Subscribe(EventSearchSubmitted, func(DomainEvent) { late++ })
	})

	b.Publish(SearchSubmittedEvent{Query: "a"})
	assert.Equal(t, 0, late)

	b.Publish(SearchSubmittedEvent{Query: "b"})
	assert.Equal(t, 1, late)
}
