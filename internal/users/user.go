// Package users is the data source behind the users table: the record
// type, its query model and the stores that answer those queries.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tablestate/internal/filters"
	"tablestate/internal/grid"
	"tablestate/internal/querystate"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrInvalidUser = errors.New("invalid user")
	ErrDuplicateID = errors.New("user id already exists")
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// User is one row of the users table.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) validate() error {
	switch {
	case strings.TrimSpace(u.Name) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidUser)
	case strings.TrimSpace(u.Email) == "":
		return fmt.Errorf("%w: email is empty", ErrInvalidUser)
	case !u.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, u.Role)
	case !u.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidUser, u.Status)
	}
	return nil
}

// Column ids of the users table.
const (
	ColumnName      = "name"
	ColumnEmail     = "email"
	ColumnRole      = "role"
	ColumnStatus    = "status"
	ColumnCreatedAt = "createdAt"
)

// Column describes a table column.
type Column struct {
	ID    string
	Title string
	Width int
}

// Columns lists the table columns in their default order.
func Columns() []Column {
	return []Column{
		{ID: ColumnName, Title: "Name", Width: 20},
		{ID: ColumnEmail, Title: "Email", Width: 28},
		{ID: ColumnRole, Title: "Role", Width: 8},
		{ID: ColumnStatus, Title: "Status", Width: 10},
		{ID: ColumnCreatedAt, Title: "Created", Width: 12},
	}
}

// ColumnIDs returns the ids of Columns.
func ColumnIDs() []string {
	cols := Columns()
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	return ids
}

// Cell renders the value of column for u.
func Cell(u User, column string) string {
	switch column {
	case ColumnName:
		return u.Name
	case ColumnEmail:
		return u.Email
	case ColumnRole:
		return string(u.Role)
	case ColumnStatus:
		return string(u.Status)
	case ColumnCreatedAt:
		return u.CreatedAt.Format(time.DateOnly)
	}
	return ""
}

// Comparators orders users per sortable column.
func Comparators() map[string]grid.Comparator[User] {
	return map[string]grid.Comparator[User]{
		ColumnName:      grid.ByString(func(u User) string { return u.Name }),
		ColumnEmail:     grid.ByString(func(u User) string { return u.Email }),
		ColumnRole:      grid.ByString(func(u User) string { return string(u.Role) }),
		ColumnStatus:    grid.ByString(func(u User) string { return string(u.Status) }),
		ColumnCreatedAt: grid.ByTime(func(u User) time.Time { return u.CreatedAt }),
	}
}

// Filter keys of the users table.
const (
	FilterStatus = "status"
	FilterRole   = "role"
)

// FilterConfigs declares the status and role filters.
func FilterConfigs() []filters.Config {
	return []filters.Config{
		{
			Key:   FilterStatus,
			Label: "Status",
			Choices: []filters.Choice{
				{Label: "Active", Value: string(StatusActive)},
				{Label: "Inactive", Value: string(StatusInactive)},
			},
		},
		{
			Key:   FilterRole,
			Label: "Role",
			Choices: []filters.Choice{
				{Label: "Admin", Value: string(RoleAdmin)},
				{Label: "User", Value: string(RoleUser)},
			},
		},
	}
}

// Env exposes u to filter expressions.
func Env(u User) map[string]any {
	return map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		FilterRole:   string(u.Role),
		FilterStatus: string(u.Status),
	}
}

// RowID identifies a user row.
func RowID(u User) string {
	return u.ID
}

// Query is a request for one page of users.
type Query struct {
	Search    string
	Statuses  []Status
	Roles     []Role
	Sort      grid.SortState
	PageIndex int
	PageSize  int
}

// QueryFromState builds the request for a screen state.
func QueryFromState(s querystate.State) Query {
	q := Query{
		Search:    s.Search,
		Sort:      s.Sort,
		PageIndex: s.PageIndex,
		PageSize:  s.PageSize,
	}
	for _, v := range s.Filters[FilterStatus] {
		q.Statuses = append(q.Statuses, Status(v))
	}
	for _, v := range s.Filters[FilterRole] {
		q.Roles = append(q.Roles, Role(v))
	}
	return q
}

func (q Query) normalized() Query {
	if q.PageSize <= 0 {
		q.PageSize = grid.DefaultPageSize
	}
	if q.PageIndex < 0 {
		q.PageIndex = 0
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Page is one page of a query result.
type Page struct {
	Users     []User `json:"users"`
	Total     int    `json:"total"`
	PageIndex int    `json:"pageIndex"`
	PageSize  int    `json:"pageSize"`
}

// PageCount is the number of pages for Total.
func (p Page) PageCount() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// Store answers user queries. Implementations are safe for concurrent use.
type Store interface {
	List(ctx context.Context, q Query) (Page, error)
	Get(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, ids ...string) (int, error)
	Close() error
}
