// Package grid is the table widget model the state layer reads from: the
// visible rows with stable IDs, pagination, sorting, and the widget's own
// index-keyed selection map.
package grid

import (
	"sort"
	"strconv"
)

// Row is one visible row. Index is its position in the current view.
type Row[T any] struct {
	ID       string
	Index    int
	Original T
}

// RowIDFunc extracts the stable identifier of a record.
type RowIDFunc[T any] func(T) string

// Source is the read side of a table widget.
type Source[T any] interface {
	// Rows returns the currently visible rows in display order.
	Rows() []Row[T]
	// RowSelection returns the widget's selection keyed by row position.
	RowSelection() map[string]bool
	// Subscribe registers fn for widget selection changes.
	Subscribe(fn func()) (unsubscribe func())
}

// Pagination is the widget's paging state. PageIndex is zero based.
type Pagination struct {
	PageIndex int
	PageSize  int
}

// SortState names the sorted column; an empty Column means unsorted.
type SortState struct {
	Column string
	Desc   bool
}

// DefaultPageSize is the initial page size.
const DefaultPageSize = 10

// PageSizes are the page sizes offered by the footer.
var PageSizes = []int{10, 20, 30, 40, 50}

// Option configures a Model.
type Option[T any] func(*Model[T])

// WithPageSize sets the initial page size.
func WithPageSize[T any](size int) Option[T] {
	return func(m *Model[T]) {
		if size > 0 {
			m.pagination.PageSize = size
		}
	}
}

// WithComparator registers the comparator used when sorting by column.
func WithComparator[T any](column string, cmp Comparator[T]) Option[T] {
	return func(m *Model[T]) {
		m.comparators[column] = cmp
	}
}

// WithManualPagination makes the model treat its data as a server page.
func WithManualPagination[T any]() Option[T] {
	return func(m *Model[T]) {
		m.manual = true
	}
}

// Model is an in-memory table widget. It is not safe for concurrent use.
type Model[T any] struct {
	data        []T
	rowID       RowIDFunc[T]
	predicate   func(T) bool
	comparators map[string]Comparator[T]
	sort        SortState
	pagination  Pagination

	manual      bool
	serverTotal int

	filtered     []T
	rowSelection map[string]bool

	listeners    map[int]func()
	nextListener int
}

// NewModel creates an empty model.
func NewModel[T any](rowID RowIDFunc[T], opts ...Option[T]) *Model[T] {
	m := &Model[T]{
		rowID:        rowID,
		comparators:  make(map[string]Comparator[T]),
		pagination:   Pagination{PageSize: DefaultPageSize},
		rowSelection: make(map[string]bool),
		listeners:    make(map[int]func()),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetData replaces the records. In manual mode use SetServerPage.
func (m *Model[T]) SetData(data []T) {
	m.data = append([]T(nil), data...)
	m.recompute()
	m.clampPage()
}

// SetServerPage installs one server page and the server-side row total.
func (m *Model[T]) SetServerPage(data []T, total int) {
	m.data = append([]T(nil), data...)
	m.serverTotal = total
	m.recompute()
}

// Data returns the records in their original order.
func (m *Model[T]) Data() []T {
	return append([]T(nil), m.data...)
}

// SetPredicate installs a client-side row filter; nil shows every row.
// The page index resets to the first page.
func (m *Model[T]) SetPredicate(pred func(T) bool) {
	m.predicate = pred
	m.pagination.PageIndex = 0
	m.recompute()
}

// Sort returns the current sort state.
func (m *Model[T]) Sort() SortState {
	return m.sort
}

// SetSort sorts by column. Columns without a comparator are ignored.
func (m *Model[T]) SetSort(s SortState) {
	if s.Column != "" {
		if _, ok := m.comparators[s.Column]; !ok {
			return
		}
	}
	m.sort = s
	m.recompute()
}

// ToggleSort cycles column through ascending, descending and unsorted.
func (m *Model[T]) ToggleSort(column string) {
	switch {
	case m.sort.Column != column:
		m.SetSort(SortState{Column: column})
	case !m.sort.Desc:
		m.SetSort(SortState{Column: column, Desc: true})
	default:
		m.SetSort(SortState{})
	}
}

// SortableColumns returns the columns that have comparators, sorted.
func (m *Model[T]) SortableColumns() []string {
	cols := make([]string, 0, len(m.comparators))
	for c := range m.comparators {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Pagination returns the paging state.
func (m *Model[T]) Pagination() Pagination {
	return m.pagination
}

// PageCount is the number of pages for the filtered rows.
func (m *Model[T]) PageCount() int {
	total := m.FilteredRowCount()
	if m.pagination.PageSize <= 0 {
		return 1
	}
	return (total + m.pagination.PageSize - 1) / m.pagination.PageSize
}

// FilteredRowCount is the number of rows across all pages.
func (m *Model[T]) FilteredRowCount() int {
	if m.manual {
		return m.serverTotal
	}
	return len(m.filtered)
}

// CanPreviousPage reports whether a previous page exists.
func (m *Model[T]) CanPreviousPage() bool {
	return m.pagination.PageIndex > 0
}

// CanNextPage reports whether a next page exists.
func (m *Model[T]) CanNextPage() bool {
	return m.pagination.PageIndex < m.PageCount()-1
}

// SetPageIndex moves to page index, clamped to the valid range.
func (m *Model[T]) SetPageIndex(index int) {
	if m.pagination.PageIndex == index {
		return
	}
	m.pagination.PageIndex = index
	m.clampPage()
	m.resetSelection()
}

// SetPageSize changes the page size keeping the first visible row on screen.
func (m *Model[T]) SetPageSize(size int) {
	if size <= 0 || size == m.pagination.PageSize {
		return
	}
	top := m.pagination.PageIndex * m.pagination.PageSize
	m.pagination.PageSize = size
	m.pagination.PageIndex = top / size
	m.clampPage()
	m.resetSelection()
}

// Rows returns the visible rows of the current page.
func (m *Model[T]) Rows() []Row[T] {
	page := m.pageRecords()
	rows := make([]Row[T], len(page))
	for i, rec := range page {
		rows[i] = Row[T]{ID: m.rowID(rec), Index: i, Original: rec}
	}
	return rows
}

// RowSelection returns a copy of the widget's selection map.
func (m *Model[T]) RowSelection() map[string]bool {
	out := make(map[string]bool, len(m.rowSelection))
	for k, v := range m.rowSelection {
		if v {
			out[k] = true
		}
	}
	return out
}

// SetRowSelection replaces the widget selection. Keys outside the visible
// rows are dropped. Subscribers are notified.
func (m *Model[T]) SetRowSelection(sel map[string]bool) {
	n := len(m.pageRecords())
	next := make(map[string]bool, len(sel))
	for k, v := range sel {
		if !v {
			continue
		}
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 || idx >= n {
			continue
		}
		next[k] = true
	}
	m.rowSelection = next
	m.notify()
}

// FilteredSelectedCount is the number of checked rows the widget shows.
func (m *Model[T]) FilteredSelectedCount() int {
	return len(m.rowSelection)
}

// ToggleRowAt flips the widget's checkbox for the row at index.
func (m *Model[T]) ToggleRowAt(index int) {
	if index < 0 || index >= len(m.pageRecords()) {
		return
	}
	key := strconv.Itoa(index)
	if m.rowSelection[key] {
		delete(m.rowSelection, key)
	} else {
		m.rowSelection[key] = true
	}
	m.notify()
}

// ToggleAllPageRows is the header checkbox: it selects every visible row,
// or clears them when all are already selected.
func (m *Model[T]) ToggleAllPageRows() {
	n := len(m.pageRecords())
	all := n > 0
	for i := 0; i < n; i++ {
		if !m.rowSelection[strconv.Itoa(i)] {
			all = false
			break
		}
	}
	next := make(map[string]bool, n)
	if !all {
		for i := 0; i < n; i++ {
			next[strconv.Itoa(i)] = true
		}
	}
	m.rowSelection = next
	m.notify()
}

// Subscribe registers fn for selection changes and returns its remover.
func (m *Model[T]) Subscribe(fn func()) func() {
	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn
	return func() {
		delete(m.listeners, id)
	}
}

func (m *Model[T]) notify() {
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := m.listeners[id]; ok {
			fn()
		}
	}
}

// resetSelection drops the index-keyed selection after the visible rows
// changed; the keys would point at different records now. The owner is
// expected to rebind from its id-based selection.
func (m *Model[T]) resetSelection() {
	if len(m.rowSelection) > 0 {
		m.rowSelection = make(map[string]bool)
	}
}

func (m *Model[T]) recompute() {
	filtered := make([]T, 0, len(m.data))
	for _, rec := range m.data {
		if m.manual || m.predicate == nil || m.predicate(rec) {
			filtered = append(filtered, rec)
		}
	}
	if cmp, ok := m.comparators[m.sort.Column]; ok && m.sort.Column != "" && !m.manual {
		desc := m.sort.Desc
		sort.SliceStable(filtered, func(i, j int) bool {
			if desc {
				return cmp(filtered[j], filtered[i]) < 0
			}
			return cmp(filtered[i], filtered[j]) < 0
		})
	}
	m.filtered = filtered
	m.resetSelection()
}

func (m *Model[T]) clampPage() {
	last := m.PageCount() - 1
	if last < 0 {
		last = 0
	}
	if m.pagination.PageIndex > last {
		m.pagination.PageIndex = last
	}
	if m.pagination.PageIndex < 0 {
		m.pagination.PageIndex = 0
	}
}

func (m *Model[T]) pageRecords() []T {
	if m.manual {
		return m.filtered
	}
	size := m.pagination.PageSize
	if size <= 0 {
		return m.filtered
	}
	start := m.pagination.PageIndex * size
	if start >= len(m.filtered) {
		return nil
	}
	end := start + size
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	return m.filtered[start:end]
}
