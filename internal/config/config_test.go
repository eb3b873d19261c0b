package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablestate/internal/eventbus"
	"tablestate/internal/logging"
	"tablestate/internal/storage"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cs := NewConfigService(filepath.Join(dir, "config.toml"))

	cfg, err := cs.Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(dir), cfg)
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	cs := NewConfigService(filepath.Join(dir, "nested", "config.toml"))

	want := DefaultConfig(dir)
	want.Storage.Backend = storage.BackendFile
	want.Storage.Path = filepath.Join(dir, "state.json")
	want.Table.PageSize = 30
	want.Search.Debounce = 150 * time.Millisecond
	want.UI.AltScreen = false

	require.NoError(t, cs.Save(want))
	got, err := cs.Load()

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadReadsTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[storage]
backend = "memory"

[search]
debounce = "1s"
`), 0o644))

	cfg, err := NewConfigService(path).Load()

	require.NoError(t, err)
	assert.Equal(t, storage.BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, time.Second, cfg.Search.Debounce)
	assert.Equal(t, 10, cfg.Table.PageSize)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[table]\npage_size = 20\n"), 0o644))
	t.Setenv("TABLESTATE_TABLE_PAGE_SIZE", "40")

	cfg, err := NewConfigService(path).Load()

	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Table.PageSize)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown backend", content: "[storage]\nbackend = \"redis\"\n"},
		{name: "file backend without path", content: "[storage]\nbackend = \"file\"\npath = \"\"\n"},
		{name: "zero page size", content: "[table]\npage_size = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := NewConfigService(path).Load()
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage\nbackend ="), 0o644))

	_, err := NewConfigService(path).Load()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestEnsureDefault(t *testing.T) {
	dir := t.TempDir()
	cs := NewConfigService(filepath.Join(dir, "config.toml"))

	created, err := EnsureDefault(cs)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureDefault(cs)
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(cs.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[search]")
	assert.Contains(t, string(data), "300ms")

	cfg, err := cs.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(dir), cfg)
}

func TestLoadPublishesEvent(t *testing.T) {
	bus := eventbus.New(logging.Discard())
	var got []string
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		got = append(got, e.(eventbus.ConfigLoadedEvent).Path)
	})
	path := filepath.Join(t.TempDir(), "config.toml")

	_, err := NewConfigServiceWithBus(path, bus).Load()

	require.NoError(t, err)
	assert.Equal(t, []string{path}, got)
}
