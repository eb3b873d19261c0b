package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const createUsers = `CREATE TABLE IF NOT EXISTS users (
    user_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    role TEXT NOT NULL,
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL
);`

// sortColumns maps column ids to SQL ordering terms. String columns order
// case-insensitively first, then exactly.
var sortColumns = map[string][]string{
	ColumnName:      {"lower(name)", "name"},
	ColumnEmail:     {"lower(email)", "email"},
	ColumnRole:      {"lower(role)", "role"},
	ColumnStatus:    {"lower(status)", "status"},
	ColumnCreatedAt: {"created_at"},
}

// SQLiteStore keeps users in the users table of a SQLite database. The
// handle is usually shared with the key-value storage.
type SQLiteStore struct {
	db     *sql.DB
	now    func() time.Time
	closer func() error
}

// NewSQLiteStore prepares the users table on db. Close does not close db.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, createUsers); err != nil {
		return nil, fmt.Errorf("failed to create users schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// OpenSQLiteStore opens a database of its own at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	s, err := NewSQLiteStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.closer = db.Close
	return s, nil
}

func (s *SQLiteStore) List(ctx context.Context, q Query) (Page, error) {
	q = q.normalized()
	where, args := q.where()

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return Page{}, fmt.Errorf("failed to count users: %w", err)
	}

	stmt := "SELECT user_id, name, email, role, status, created_at FROM users" + where +
		q.orderBy() + " LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, stmt, append(args, q.PageSize, q.PageIndex*q.PageSize)...)
	if err != nil {
		return Page{}, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	page := Page{Total: total, PageIndex: q.PageIndex, PageSize: q.PageSize}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return Page{}, err
		}
		page.Users = append(page.Users, u)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("failed to read users: %w", err)
	}
	return page, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (q Query) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if q.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q.Search)) + "%"
		clauses = append(clauses, `(lower(name) LIKE ? ESCAPE '\' OR lower(email) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if len(q.Statuses) > 0 {
		clauses = append(clauses, "status IN ("+placeholders(len(q.Statuses))+")")
		for _, st := range q.Statuses {
			args = append(args, string(st))
		}
	}
	if len(q.Roles) > 0 {
		clauses = append(clauses, "role IN ("+placeholders(len(q.Roles))+")")
		for _, r := range q.Roles {
			args = append(args, string(r))
		}
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (q Query) orderBy() string {
	terms, ok := sortColumns[q.Sort.Column]
	if !ok {
		return " ORDER BY rowid"
	}
	dir := " ASC"
	if q.Sort.Desc {
		dir = " DESC"
	}
	parts := make([]string, 0, len(terms)+1)
	for _, t := range append(slices.Clone(terms), "user_id") {
		parts = append(parts, t+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (User, error) {
	var (
		u       User
		role    string
		status  string
		created int64
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &status, &created); err != nil {
		return User{}, err
	}
	u.Role = Role(role)
	u.Status = Status(status)
	u.CreatedAt = time.Unix(0, created).UTC()
	return u, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT user_id, name, email, role, status, created_at FROM users WHERE user_id = ?", id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return u, nil
}

func (s *SQLiteStore) Create(ctx context.Context, u User) (User, error) {
	if err := u.validate(); err != nil {
		return User{}, err
	}
	if u.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return User{}, fmt.Errorf("failed to generate user id: %w", err)
		}
		u.ID = id.String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	u.CreatedAt = u.CreatedAt.UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (user_id, name, email, role, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		u.ID, u.Name, u.Email, string(u.Role), string(u.Status), u.CreatedAt.UnixNano())
	if isConstraint(err) {
		return User{}, fmt.Errorf("%w: %s", ErrDuplicateID, u.ID)
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) Update(ctx context.Context, u User) (User, error) {
	if err := u.validate(); err != nil {
		return User{}, err
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, role = ?, status = ? WHERE user_id = ?",
		u.Name, u.Email, string(u.Role), string(u.Status), u.ID)
	if err != nil {
		return User{}, fmt.Errorf("failed to update user %s: %w", u.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return User{}, fmt.Errorf("%w: %s", ErrNotFound, u.ID)
	}
	return s.Get(ctx, u.ID)
}

func (s *SQLiteStore) Delete(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE user_id IN ("+placeholders(len(ids))+")", args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete users: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted users: %w", err)
	}
	return int(n), nil
}

// Close releases the database when the store opened it.
func (s *SQLiteStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func isConstraint(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
