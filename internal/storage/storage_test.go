package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := OpenFileStorage(filepath.Join(dir, "prefs.json"))
	require.NoError(t, err)
	db, err := OpenSQLiteStorage(filepath.Join(dir, "prefs.db"))
	require.NoError(t, err)

	stores := map[string]Store{
		BackendMemory: NewMemoryStorage(),
		BackendFile:   file,
		BackendSQLite: db,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStorageContract(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok, "missing key is not an error")

			require.NoError(t, s.Set("table-columns-users", `[{"id":"name"}]`))
			v, ok, err := s.Get("table-columns-users")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":"name"}]`, v)

			require.NoError(t, s.Set("table-columns-users", `[]`))
			v, _, err = s.Get("table-columns-users")
			require.NoError(t, err)
			assert.Equal(t, `[]`, v, "set overwrites, last write wins")

			require.NoError(t, s.Set("table-columns-admins", `[]`))
			require.NoError(t, s.Set("other", "x"))
			keys, err := s.Keys("table-columns-")
			require.NoError(t, err)
			assert.Equal(t, []string{"table-columns-admins", "table-columns-users"}, keys)

			require.NoError(t, s.Remove("table-columns-users"))
			require.NoError(t, s.Remove("table-columns-users"), "removing twice is fine")
			_, ok, err = s.Get("table-columns-users")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStorageClosed(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Close())
			_, _, err := s.Get("k")
			assert.ErrorIs(t, err, ErrClosed)
			assert.ErrorIs(t, s.Set("k", "v"), ErrClosed)
			assert.ErrorIs(t, s.Remove("k"), ErrClosed)
		})
	}
}

func TestFileStoragePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")

	s, err := OpenFileStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Close())

	reopened, err := OpenFileStorage(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestFileStorageRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := OpenFileStorage(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse storage file")
}

func TestSQLiteStoragePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	s, err := OpenSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLiteStorage(path)
	require.NoError(t, err)
	defer reopened.Close()
	v, ok, err := reopened.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{name: "default is memory", opts: Options{}},
		{name: "file", opts: Options{Backend: "file", Path: filepath.Join(dir, "a.json")}},
		{name: "sqlite upper case", opts: Options{Backend: "SQLITE", Path: filepath.Join(dir, "a.db")}},
		{name: "unknown", opts: Options{Backend: "redis"}, wantErr: ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, s.Close())
		})
	}
}
