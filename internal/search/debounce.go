// Package search debounces a free-text search input so the remote query is
// issued only after typing pauses.
package search

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDelay is the pause after the last keystroke before a search fires.
const DefaultDelay = 300 * time.Millisecond

// Ticket identifies one pending change. Only the newest ticket can fire.
type Ticket uint64

// SearchFunc receives the value to search for.
type SearchFunc func(value string)

// ElapsedMsg is delivered to the bubbletea program when a ticket's delay
// has passed.
type ElapsedMsg struct {
	Ticket Ticket
}

// Debouncer tracks the pending search value. Not safe for concurrent use;
// the bubbletea update loop owns it.
type Debouncer struct {
	delay    time.Duration
	onSearch SearchFunc

	current   Ticket
	pending   string
	hasValue  bool
	submitted string
}

// NewDebouncer creates a debouncer. A non-positive delay uses DefaultDelay.
func NewDebouncer(delay time.Duration, onSearch SearchFunc) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, onSearch: onSearch}
}

// Delay returns the configured delay.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Change records value as pending and supersedes earlier tickets.
func (d *Debouncer) Change(value string) Ticket {
	d.current++
	d.pending = value
	d.hasValue = true
	return d.current
}

// Elapsed fires the pending value if ticket is still the newest one. It
// reports whether the search callback ran.
func (d *Debouncer) Elapsed(ticket Ticket) bool {
	if ticket != d.current || !d.hasValue {
		return false
	}
	d.fire(d.pending)
	return true
}

// Submit cancels any pending value and searches for value immediately.
func (d *Debouncer) Submit(value string) {
	d.current++
	d.fire(value)
}

// Pending returns the value waiting for its delay, if any.
func (d *Debouncer) Pending() (string, bool) {
	return d.pending, d.hasValue
}

// Submitted returns the last value handed to the search callback.
func (d *Debouncer) Submitted() string {
	return d.submitted
}

// Schedule returns a command that reports ticket as elapsed after the delay.
func (d *Debouncer) Schedule(ticket Ticket) tea.Cmd {
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return ElapsedMsg{Ticket: ticket}
	})
}

func (d *Debouncer) fire(value string) {
	d.pending = ""
	d.hasValue = false
	d.submitted = value
	if d.onSearch != nil {
		d.onSearch(value)
	}
}
