package eventbus

import (
	"runtime/debug"
	"sort"
	"sync"

	"tablestate/internal/domain"
	"tablestate/internal/logging"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventSelectionChanged = domain.EventSelectionChanged
	EventFiltersChanged   = domain.EventFiltersChanged
	EventColumnsChanged   = domain.EventColumnsChanged
	EventSearchSubmitted  = domain.EventSearchSubmitted
	EventConfirmRequested = domain.EventConfirmRequested
	EventUsersDeleted     = domain.EventUsersDeleted
	EventError            = domain.EventError
	EventConfigLoaded     = domain.EventConfigLoaded
)

// Re-export domain event types
type SelectionChangedEvent = domain.SelectionChangedEvent
type FiltersChangedEvent = domain.FiltersChangedEvent
type ColumnsChangedEvent = domain.ColumnsChangedEvent
type SearchSubmittedEvent = domain.SearchSubmittedEvent
type ConfirmRequestedEvent = domain.ConfirmRequestedEvent
type UsersDeletedEvent = domain.UsersDeletedEvent
type ErrorEvent = domain.ErrorEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
}

// bus delivers events synchronously on the publishing goroutine, to
// handlers in subscription order.
type bus struct {
	mu       sync.RWMutex
	handlers map[EventType]map[int]EventHandler
	nextID   int
	logger   logging.Logger
}

// New creates a new event bus
func New(logger logging.Logger) EventBus {
	return &bus{
		handlers: make(map[EventType]map[int]EventHandler),
		logger:   logging.OrDefault(logger),
	}
}

// Publish delivers event to every subscriber before returning. A panicking
// handler is logged and does not stop delivery to the others.
func (b *bus) Publish(event DomainEvent) {
	b.logger.Debug("publishing event", "type", event.Type())

	b.mu.RLock()
	subs := b.handlers[event.Type()]
	ids := make([]int, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	handlers := make([]EventHandler, 0, len(subs))
	sort.Ints(ids)
	for _, id := range ids {
		handlers = append(handlers, subs[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.call(h, event)
	}
}

func (b *bus) call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic", "type", event.Type(), "panic", r, "stack", string(debug.Stack()))
		}
	}()
	h(event)
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[int]EventHandler)
	}
	b.handlers[eventType][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[eventType], id)
	}
}
