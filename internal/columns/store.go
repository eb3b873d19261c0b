// Package columns persists per-table column visibility and order.
package columns

import (
	"slices"

	"tablestate/internal/logging"
	"tablestate/internal/storage"
)

// ChangeFunc receives the full layout after every mutation.
type ChangeFunc func(tableID string, states []State)

// Option configures a Store.
type Option func(*Store)

// WithLayoutChange registers a callback fired after each mutation.
func WithLayoutChange(fn ChangeFunc) Option {
	return func(s *Store) {
		s.onChange = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// Store is the column layout of one table screen. Every mutation is written
// through to storage before returning. Storage failures are logged and the
// in-memory layout stays authoritative.
type Store struct {
	storage  storage.Storage
	logger   logging.Logger
	onChange ChangeFunc

	tableID  string
	defaults []string
	states   []State
}

// NewStore creates a store over st. Call Initialize before use.
func NewStore(st storage.Storage, opts ...Option) *Store {
	s := &Store{storage: st}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger)
	return s
}

// Initialize loads the layout for tableID. Without a stored layout, or with
// an unreadable one, the defaults are used and persisted. Columns from
// defaultIDs missing in the stored layout are appended as visible.
func (s *Store) Initialize(tableID string, defaultIDs []string) {
	s.tableID = tableID
	s.defaults = slices.Clone(defaultIDs)
	s.states = nil

	stored, ok := s.load()
	if !ok {
		s.states = Defaults(defaultIDs)
		s.persist()
		return
	}

	s.states = stored
	if s.ensure(defaultIDs) {
		s.persist()
	}
}

// TableID returns the table this store is bound to.
func (s *Store) TableID() string {
	return s.tableID
}

// States returns a copy of the layout sorted by order.
func (s *Store) States() []State {
	return sorted(s.states)
}

// VisibleColumns returns the ids of visible columns by order.
func (s *Store) VisibleColumns() []string {
	var ids []string
	for _, st := range sorted(s.states) {
		if st.Visible {
			ids = append(ids, st.ID)
		}
	}
	return ids
}

// ColumnOrder returns every column id by order.
func (s *Store) ColumnOrder() []string {
	ordered := sorted(s.states)
	ids := make([]string, len(ordered))
	for i, st := range ordered {
		ids[i] = st.ID
	}
	return ids
}

// IsVisible reports whether id is a visible column.
func (s *Store) IsVisible(id string) bool {
	i := s.indexOf(id)
	return i >= 0 && s.states[i].Visible
}

// ToggleColumn flips the visibility of id. Unknown ids are ignored.
func (s *Store) ToggleColumn(id string) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.states[i].Visible = !s.states[i].Visible
	s.commit()
}

// SetColumnVisibility sets the visibility of id. Unknown ids are ignored.
func (s *Store) SetColumnVisibility(id string, visible bool) {
	i := s.indexOf(id)
	if i < 0 || s.states[i].Visible == visible {
		return
	}
	s.states[i].Visible = visible
	s.commit()
}

// UpdateColumnOrder gives each listed id its position as order. Listed ids
// not yet known are added as visible; known ids left out of the list keep
// their visibility and follow the listed ones in their previous order.
func (s *Store) UpdateColumnOrder(orderedIDs []string) {
	existing := make(map[string]State, len(s.states))
	for _, st := range s.states {
		existing[st.ID] = st
	}

	next := make([]State, 0, len(s.states)+len(orderedIDs))
	listed := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if listed[id] {
			continue
		}
		listed[id] = true
		st, ok := existing[id]
		if !ok {
			st = State{ID: id, Visible: true}
		}
		st.Order = len(next)
		next = append(next, st)
	}
	for _, st := range sorted(s.states) {
		if listed[st.ID] {
			continue
		}
		st.Order = len(next)
		next = append(next, st)
	}

	s.states = next
	s.commit()
}

// MoveColumn moves activeID to the position of overID, the way a drag ends
// in the column panel. Nothing happens when either id is unknown.
func (s *Store) MoveColumn(activeID, overID string) bool {
	if activeID == overID {
		return false
	}
	order := s.ColumnOrder()
	from := slices.Index(order, activeID)
	to := slices.Index(order, overID)
	if from < 0 || to < 0 {
		s.logger.Debug("column move skipped", "table", s.tableID, "active", activeID, "over", overID)
		return false
	}
	s.UpdateColumnOrder(arrayMove(order, from, to))
	return true
}

// ResetColumns deletes the stored layout and reverts to the defaults. The
// defaults are not written back; the next Initialize does that.
func (s *Store) ResetColumns() {
	if err := s.storage.Remove(Key(s.tableID)); err != nil {
		s.logger.Warn("failed to remove column layout", "table", s.tableID, "error", err)
	}
	s.states = Defaults(s.defaults)
	s.notify()
}

func (s *Store) load() ([]State, bool) {
	raw, ok, err := s.storage.Get(Key(s.tableID))
	if err != nil {
		s.logger.Warn("failed to read column layout", "table", s.tableID, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	states, err := Decode(raw)
	if err != nil {
		s.logger.Warn("discarding stored column layout", "table", s.tableID, "error", err)
		return nil, false
	}
	return states, true
}

// ensure appends any id without a state after the current last order.
func (s *Store) ensure(ids []string) bool {
	next := 0
	for _, st := range s.states {
		if st.Order >= next {
			next = st.Order + 1
		}
	}
	added := false
	for _, id := range ids {
		if s.indexOf(id) >= 0 {
			continue
		}
		s.states = append(s.states, State{ID: id, Visible: true, Order: next})
		next++
		added = true
	}
	return added
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.states, func(st State) bool { return st.ID == id })
}

func (s *Store) commit() {
	s.persist()
	s.notify()
}

func (s *Store) persist() {
	raw, err := Encode(s.states)
	if err != nil {
		s.logger.Error("failed to encode column layout", "table", s.tableID, "error", err)
		return
	}
	if err := s.storage.Set(Key(s.tableID), raw); err != nil {
		s.logger.Warn("failed to persist column layout", "table", s.tableID, "error", err)
	}
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange(s.tableID, s.States())
	}
}

// arrayMove returns a copy of ids with the element at from moved to to.
func arrayMove(ids []string, from, to int) []string {
	out := slices.Clone(ids)
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}
