package selection

import (
	"slices"

	"tablestate/internal/logging"
)

// ChangeFunc receives the selected row IDs after each settled mutation.
type ChangeFunc func(selected []string)

// Binder is implemented by widgets whose selection map can be driven from
// the tracker.
type Binder interface {
	SetRowSelection(map[string]bool)
}

// Option configures a Tracker.
type Option func(*options)

type options struct {
	onChange ChangeFunc
	sync     bool
	logger   logging.Logger
}

func defaultOptions() options {
	return options{sync: true}
}

// WithSelectionChange registers the change callback.
func WithSelectionChange(fn ChangeFunc) Option {
	return func(o *options) {
		o.onChange = fn
	}
}

// WithSync controls adoption of selection changes made directly on the
// widget. Enabled by default.
func WithSync(enabled bool) Option {
	return func(o *options) {
		o.sync = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// idSet is a deduplicated set of row IDs that remembers first insertion.
type idSet struct {
	index map[string]struct{}
	order []string
}

func newIDSet(ids ...string) *idSet {
	s := &idSet{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func (s *idSet) add(id string) bool {
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

func (s *idSet) remove(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return true
}

func (s *idSet) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *idSet) len() int {
	return len(s.order)
}

func (s *idSet) list() []string {
	return append([]string{}, s.order...)
}

// sameIDs compares two ID lists as sets. Sorting copies keeps the check
// exact for IDs containing any character, separators included.
func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := slices.Clone(a)
	sb := slices.Clone(b)
	slices.Sort(sa)
	slices.Sort(sb)
	return slices.Equal(sa, sb)
}
