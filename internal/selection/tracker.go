// Package selection tracks selected rows by stable ID, independent of the
// row order, and keeps that selection in step with a table widget's own
// position-keyed selection map.
//
// The widget only knows the rows it shows. When its map diverges, the
// tracker adopts it for the visible rows and keeps selected IDs that are
// on other pages, so a selection survives paging, sorting and filtering.
package selection

import (
	"strconv"

	"tablestate/internal/grid"
	"tablestate/internal/logging"
)

// Tracker holds the selected row IDs of one table screen. It is driven from
// a single goroutine, like the widget it observes.
type Tracker[T any] struct {
	source      grid.Source[T]
	rowID       grid.RowIDFunc[T]
	selected    *idSet
	opts        options
	logger      logging.Logger
	unsubscribe func()
	pushing     bool
}

// NewTracker creates a tracker reading rows from source and extracting IDs
// with rowID. Unless sync is disabled it subscribes to the widget's
// selection changes; call Close when the screen goes away.
func NewTracker[T any](source grid.Source[T], rowID grid.RowIDFunc[T], opts ...Option) *Tracker[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := &Tracker[T]{
		source:   source,
		rowID:    rowID,
		selected: newIDSet(),
		opts:     o,
		logger:   logging.OrDefault(o.logger),
	}
	if o.sync {
		t.unsubscribe = source.Subscribe(func() { t.Reconcile() })
	}
	return t
}

// SelectRow adds id to the selection.
func (t *Tracker[T]) SelectRow(id string) {
	t.selected.add(id)
	t.settle()
}

// DeselectRow removes id from the selection.
func (t *Tracker[T]) DeselectRow(id string) {
	t.selected.remove(id)
	t.settle()
}

// ToggleRow adds id when absent and removes it when present.
func (t *Tracker[T]) ToggleRow(id string) {
	if !t.selected.remove(id) {
		t.selected.add(id)
	}
	t.settle()
}

// SelectAll replaces the selection with the currently visible rows.
func (t *Tracker[T]) SelectAll() {
	rows := t.source.Rows()
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = t.rowID(r.Original)
	}
	t.selected = newIDSet(ids...)
	t.settle()
}

// ClearSelection empties the selection.
func (t *Tracker[T]) ClearSelection() {
	t.selected = newIDSet()
	t.settle()
}

// IsSelected reports whether id is selected.
func (t *Tracker[T]) IsSelected(id string) bool {
	return t.selected.has(id)
}

// SelectedRows returns the selected IDs in the order they were first selected.
func (t *Tracker[T]) SelectedRows() []string {
	return t.selected.list()
}

// SelectedCount is the number of selected IDs, visible or not.
func (t *Tracker[T]) SelectedCount() int {
	return t.selected.len()
}

// TotalCount is the number of currently visible rows.
func (t *Tracker[T]) TotalCount() int {
	return len(t.source.Rows())
}

// RowSelectionMap maps the position of every visible selected row to true.
// It is rebuilt from the current rows on every call.
func (t *Tracker[T]) RowSelectionMap() map[string]bool {
	out := make(map[string]bool)
	for _, r := range t.source.Rows() {
		if t.selected.has(t.rowID(r.Original)) {
			out[strconv.Itoa(r.Index)] = true
		}
	}
	return out
}

// Bind pushes the selection into the widget. Call it after the widget's
// rows changed (page, sort, filter) so its position map matches again.
func (t *Tracker[T]) Bind() {
	b, ok := t.source.(Binder)
	if !ok {
		return
	}
	t.pushing = true
	defer func() { t.pushing = false }()
	b.SetRowSelection(t.RowSelectionMap())
}

// Reconcile adopts the widget's selection when it diverges from the
// tracker's view of the visible rows. Selections on rows that are not
// visible are kept. It reports whether the selection changed.
func (t *Tracker[T]) Reconcile() bool {
	if t.pushing {
		return false
	}

	rows := t.source.Rows()
	widget := t.source.RowSelection()

	visible := make(map[string]bool, len(rows))
	var fromWidget []string
	for _, r := range rows {
		id := t.rowID(r.Original)
		visible[id] = true
		if widget[strconv.Itoa(r.Index)] {
			fromWidget = append(fromWidget, id)
		}
	}

	var current []string
	for _, id := range t.selected.order {
		if visible[id] {
			current = append(current, id)
		}
	}
	if sameIDs(current, fromWidget) {
		return false
	}

	next := newIDSet()
	for _, id := range t.selected.order {
		if !visible[id] {
			next.add(id)
		}
	}
	for _, id := range fromWidget {
		next.add(id)
	}
	t.logger.Debug("selection adopted from widget", "visible", len(fromWidget), "total", next.len())
	t.selected = next
	t.notify()
	return true
}

// Close detaches from the widget and drops the selection without notifying.
func (t *Tracker[T]) Close() {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
	t.selected = newIDSet()
}

func (t *Tracker[T]) settle() {
	t.Bind()
	t.notify()
}

func (t *Tracker[T]) notify() {
	if t.opts.onChange != nil {
		t.opts.onChange(t.selected.list())
	}
}
