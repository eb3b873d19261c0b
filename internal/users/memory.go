package users

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tablestate/internal/filters"
)

// MemoryStore keeps users in insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	users []User
	now   func() time.Time
}

// NewMemoryStore creates a store holding initial.
func NewMemoryStore(initial ...User) *MemoryStore {
	return &MemoryStore{users: slices.Clone(initial), now: time.Now}
}

func (s *MemoryStore) List(ctx context.Context, q Query) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	q = q.normalized()
	pred, err := q.predicate()
	if err != nil {
		return Page{}, err
	}

	s.mu.RLock()
	matched := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if q.matchesSearch(u) && (pred == nil || pred(u)) {
			matched = append(matched, u)
		}
	}
	s.mu.RUnlock()

	if cmp, ok := Comparators()[q.Sort.Column]; ok {
		slices.SortStableFunc(matched, func(a, b User) int {
			c := cmp(a, b)
			if c == 0 {
				c = strings.Compare(a.ID, b.ID)
			}
			if q.Sort.Desc {
				return -c
			}
			return c
		})
	}

	page := Page{Total: len(matched), PageIndex: q.PageIndex, PageSize: q.PageSize}
	start := q.PageIndex * q.PageSize
	if start < len(matched) {
		end := min(start+q.PageSize, len(matched))
		page.Users = slices.Clone(matched[start:end])
	}
	return page, nil
}

func (q Query) matchesSearch(u User) bool {
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(u.Name), needle) ||
		strings.Contains(strings.ToLower(u.Email), needle)
}

// FilterValues returns the status and role filters of q keyed like FilterConfigs.
func (q Query) FilterValues() filters.Values {
	vals := filters.Values{}
	for _, st := range q.Statuses {
		vals[FilterStatus] = append(vals[FilterStatus], string(st))
	}
	for _, r := range q.Roles {
		vals[FilterRole] = append(vals[FilterRole], string(r))
	}
	return vals
}

// predicate compiles the status and role filters into a row predicate. It is
// nil when neither is set.
func (q Query) predicate() (func(User) bool, error) {
	c := filters.NewComposer(FilterConfigs(), q.FilterValues())
	pred, err := filters.Predicate(c, Env)
	if err != nil {
		return nil, fmt.Errorf("failed to build user filter: %w", err)
	}
	return pred, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Create stores u, assigning an id and creation time when missing.
func (s *MemoryStore) Create(ctx context.Context, u User) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if err := u.validate(); err != nil {
		return User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return User{}, fmt.Errorf("failed to generate user id: %w", err)
		}
		u.ID = id.String()
	}
	if slices.ContainsFunc(s.users, func(x User) bool { return x.ID == u.ID }) {
		return User{}, fmt.Errorf("%w: %s", ErrDuplicateID, u.ID)
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}
	s.users = append(s.users, u)
	return u, nil
}

func (s *MemoryStore) Update(ctx context.Context, u User) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if err := u.validate(); err != nil {
		return User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.users, func(x User) bool { return x.ID == u.ID })
	if i < 0 {
		return User{}, fmt.Errorf("%w: %s", ErrNotFound, u.ID)
	}
	u.CreatedAt = s.users[i].CreatedAt
	s.users[i] = u
	return u, nil
}

// Delete removes the users with ids and returns how many existed.
func (s *MemoryStore) Delete(ctx context.Context, ids ...string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.users)
	s.users = slices.DeleteFunc(s.users, func(u User) bool {
		return slices.Contains(ids, u.ID)
	})
	return before - len(s.users), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
