package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablestate/internal/users"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `[storage]
backend = "sqlite"
path = "` + filepath.ToSlash(filepath.Join(dir, "test.db")) + `"

[ui]
log_file = "test.log"
log_level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the CLI with args and returns its output. Flag values are
// reset afterwards because the commands are package globals.
func execute(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, cfg, "", args...)
}

func executeWithInput(t *testing.T, cfg, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	require.NoError(t, closeRuntime())
	resetFlags(rootCmd)
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, writeConfig(t), "version")
	require.NoError(t, err)
	assert.Equal(t, "tablestate dev\n", out)
}

func TestUsersAddListDelete(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, cfg, "users", "add", "--name", "Ada Lovelace", "--email", "ada@example.com", "--role", "admin")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	_, err = execute(t, cfg, "users", "add", "--name", "Alan Turing", "--email", "alan@example.com", "--active=false")
	require.NoError(t, err)

	out, err = execute(t, cfg, "users", "list", "--json", "--status", "active")
	require.NoError(t, err)
	var page users.Page
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Users, 1)
	assert.Equal(t, id, page.Users[0].ID)
	assert.Equal(t, users.RoleAdmin, page.Users[0].Role)

	out, err = execute(t, cfg, "users", "list", "--sort", "-name")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Alan Turing"), strings.Index(out, "Ada Lovelace"))
	assert.Contains(t, out, "--query 'sort=-name'")

	out, err = execute(t, cfg, "users", "delete", "--yes", id, "missing")
	require.NoError(t, err)
	assert.Equal(t, "Deleted 1 user(s).\n", out)
}

func TestUsersDeleteAsks(t *testing.T) {
	cfg := writeConfig(t)
	out, err := execute(t, cfg, "users", "add", "--name", "Grace Hopper", "--email", "grace@example.com")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no", input: "n\n", want: "Delete 1 user(s)? [y/N] Cancelled.\n"},
		{name: "end of input", input: "", want: "Delete 1 user(s)? [y/N] Cancelled.\n"},
		{name: "yes", input: "yes\n", want: "Delete 1 user(s)? [y/N] Deleted 1 user(s).\n"},
	}
	for _, tt := range tests {
		out, err := executeWithInput(t, cfg, tt.input, "users", "delete", id)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, out, tt.name)
	}

	out, err = execute(t, cfg, "users", "list", "--json")
	require.NoError(t, err)
	var page users.Page
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Zero(t, page.Total)
}

func TestUsersAddRejectsInvalidInput(t *testing.T) {
	_, err := execute(t, writeConfig(t), "users", "add", "--name", "Nobody", "--email", "not-an-email")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestUsersListExplain(t *testing.T) {
	out, err := execute(t, writeConfig(t), "users", "list", "--explain", "--status", "active", "--role", "admin,user")
	require.NoError(t, err)
	assert.Equal(t, `status in ["ACTIVE"] && role in ["ADMIN", "USER"]`+"\n", out)
}

func TestUsersSeed(t *testing.T) {
	cfg := writeConfig(t)
	out, err := execute(t, cfg, "users", "seed", "--count", "12", "--seed", "3")
	require.NoError(t, err)
	assert.Equal(t, "Created 12 user(s).\n", out)

	out, err = execute(t, cfg, "users", "list", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 2 of 2, 12 user(s).")
}

func TestColumnsCommands(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, cfg, "columns", "toggle", "users", "email")
	require.NoError(t, err)
	assert.Regexp(t, `1\s+email\s+false`, out)

	out, err = execute(t, cfg, "columns", "show", "users")
	require.NoError(t, err)
	assert.Regexp(t, `1\s+email\s+false`, out, "layout is persisted")

	out, err = execute(t, cfg, "columns", "move", "users", "createdAt", "name")
	require.NoError(t, err)
	assert.Regexp(t, `0\s+createdAt\s+true`, out)

	out, err = execute(t, cfg, "columns", "reset", "users")
	require.NoError(t, err)
	assert.Regexp(t, `1\s+email\s+true`, out)

	_, err = execute(t, cfg, "columns", "toggle", "users", "nope")
	require.Error(t, err)
	_, err = execute(t, cfg, "columns", "show", "orders")
	require.Error(t, err)
}
