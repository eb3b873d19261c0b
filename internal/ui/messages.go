package ui

import (
	"tablestate/internal/eventbus"
	"tablestate/internal/users"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// usersLoadedMsg carries the result of a page request. seq ties it to the
// request that produced it.
type usersLoadedMsg struct {
	seq  int
	page users.Page
	err  error
}

// usersDeletedMsg is the result of a confirmed delete.
type usersDeletedMsg struct {
	requestID string
	ids       []string
	deleted   int
	err       error
}

// userSavedMsg is the result of the user dialog.
type userSavedMsg struct {
	user users.User
	err  error
}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}
