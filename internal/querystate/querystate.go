// Package querystate mirrors a table screen's search, pagination, sort and
// filters into URL query parameters and back.
package querystate

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"tablestate/internal/filters"
	"tablestate/internal/grid"
)

// Parameter names.
const (
	ParamSearch   = "search"
	ParamPage     = "page"
	ParamPageSize = "pageSize"
	ParamSort     = "sort"
	FilterPrefix  = "filter:"
)

// State is the shareable part of a table screen. PageIndex is zero based;
// the page parameter is one based.
type State struct {
	Search    string
	PageIndex int
	PageSize  int
	Sort      grid.SortState
	Filters   filters.Values
}

// Default returns the state of a fresh screen.
func Default() State {
	return State{PageSize: grid.DefaultPageSize, Filters: filters.Values{}}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Filters = s.Filters.Clone()
	return out
}

var valueEscaper = strings.NewReplacer("%", "%25", ",", "%2C")

// Encode writes the state as query parameters. Parameters equal to the
// defaults are omitted.
func Encode(s State) url.Values {
	q := url.Values{}
	if s.Search != "" {
		q.Set(ParamSearch, s.Search)
	}
	if s.PageIndex > 0 {
		q.Set(ParamPage, strconv.Itoa(s.PageIndex+1))
	}
	if s.PageSize > 0 && s.PageSize != grid.DefaultPageSize {
		q.Set(ParamPageSize, strconv.Itoa(s.PageSize))
	}
	if s.Sort.Column != "" {
		sortParam := s.Sort.Column
		if s.Sort.Desc {
			sortParam = "-" + sortParam
		}
		q.Set(ParamSort, sortParam)
	}
	for key, values := range s.Filters {
		if len(values) == 0 {
			continue
		}
		escaped := make([]string, len(values))
		for i, v := range values {
			escaped[i] = valueEscaper.Replace(v)
		}
		q.Set(FilterPrefix+key, strings.Join(escaped, ","))
	}
	return q
}

// Decode reads query parameters on top of defaults. Invalid numbers keep
// the default value.
func Decode(q url.Values, defaults State) State {
	s := defaults.Clone()
	if s.Filters == nil {
		s.Filters = filters.Values{}
	}

	if q.Has(ParamSearch) {
		s.Search = q.Get(ParamSearch)
	}

	if raw := q.Get(ParamPage); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page >= 1 {
			s.PageIndex = page - 1
		}
	}

	if raw := q.Get(ParamPageSize); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			s.PageSize = size
		}
	}

	if raw := q.Get(ParamSort); raw != "" {
		desc := strings.HasPrefix(raw, "-")
		if column := strings.TrimPrefix(raw, "-"); column != "" {
			s.Sort = grid.SortState{Column: column, Desc: desc}
		}
	}

	for key, values := range q {
		if !strings.HasPrefix(key, FilterPrefix) || len(values) == 0 {
			continue
		}
		name := strings.TrimPrefix(key, FilterPrefix)
		if name == "" {
			continue
		}
		s.Filters[name] = splitValues(values[0])
	}
	return s
}

// Parse decodes a raw query string such as "search=ann&page=2".
func Parse(raw string, defaults State) (State, error) {
	q, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return defaults.Clone(), fmt.Errorf("failed to parse query %q: %w", raw, err)
	}
	return Decode(q, defaults), nil
}

// String renders the state as a query string with sorted parameters.
func (s State) String() string {
	return Encode(s).Encode()
}

// FilterKeys returns the filter keys present in s in sorted order.
func (s State) FilterKeys() []string {
	keys := make([]string, 0, len(s.Filters))
	for k := range s.Filters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func splitValues(joined string) []string {
	if joined == "" {
		return []string{}
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v, err := url.PathUnescape(p); err == nil {
			p = v
		}
		out = append(out, p)
	}
	return out
}
