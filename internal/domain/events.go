package domain

import (
	"tablestate/internal/columns"
	"tablestate/internal/filters"
)

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSelectionChanged EventType = "SelectionChanged"
	EventFiltersChanged   EventType = "FiltersChanged"
	EventColumnsChanged   EventType = "ColumnsChanged"
	EventSearchSubmitted  EventType = "SearchSubmitted"
	EventConfirmRequested EventType = "ConfirmRequested"
	EventUsersDeleted     EventType = "UsersDeleted"
	EventError            EventType = "Error"
	EventConfigLoaded     EventType = "ConfigLoaded"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SelectionChangedEvent carries the selected row ids of a table after a
// selection mutation, in selection order.
type SelectionChangedEvent struct {
	TableID string
	IDs     []string
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// FiltersChangedEvent carries the complete filter mapping of a table.
type FiltersChangedEvent struct {
	TableID string
	Values  filters.Values
}

func (e FiltersChangedEvent) Type() EventType { return EventFiltersChanged }

// ColumnsChangedEvent is emitted when a table's column layout changes.
type ColumnsChangedEvent struct {
	TableID string
	States  []columns.State
}

func (e ColumnsChangedEvent) Type() EventType { return EventColumnsChanged }

// SearchSubmittedEvent is emitted when a debounced search fires.
type SearchSubmittedEvent struct {
	TableID string
	Query   string
}

func (e SearchSubmittedEvent) Type() EventType { return EventSearchSubmitted }

// ConfirmRequestedEvent is emitted when a confirmation prompt opens.
type ConfirmRequestedEvent struct {
	RequestID string
	Title     string
}

func (e ConfirmRequestedEvent) Type() EventType { return EventConfirmRequested }

// UsersDeletedEvent is emitted after rows were deleted from the store.
type UsersDeletedEvent struct {
	IDs     []string
	Deleted int
}

func (e UsersDeletedEvent) Type() EventType { return EventUsersDeleted }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted once configuration has been read.
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }
