package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/pkg/store"
)

// run executes one invocation against a config under a temporary HOME
func run(t *testing.T, home, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", filepath.Join(home, "config.json")}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, home string, args ...string) string {
	t.Helper()
	out, err := run(t, home, "", args...)
	require.NoError(t, err, out)
	return out
}

func newHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestAddListDone(t *testing.T) {
	home := newHome(t)

	out := mustRun(t, home, "add", "Send", "invoice", "--category", "Work", "--description", "by email")
	assert.Contains(t, out, "Task added!")
	mustRun(t, home, "add", "Water plants +Personal")

	out = mustRun(t, home, "list")
	assert.Contains(t, out, "== Work ==")
	assert.Contains(t, out, "   0 [ ] Send invoice")
	assert.Contains(t, out, "by email")
	assert.Contains(t, out, "== Personal ==")
	assert.Contains(t, out, "   1 [ ] Water plants")

	mustRun(t, home, "done", "1")
	out = mustRun(t, home, "list", "--sort", "order")
	assert.Contains(t, out, "   1 [x] Water plants")

	mustRun(t, home, "undone", "1")
	mustRun(t, home, "edit", "0", "title", "Send", "final", "invoice")
	out = mustRun(t, home, "ls")
	assert.Contains(t, out, "   0 [ ] Send final invoice")
	assert.Contains(t, out, "   1 [ ] Water plants")

	assert.FileExists(t, filepath.Join(home, ".config", "tasklist", "tasks.json"))
}

func TestChecklistCommands(t *testing.T) {
	home := newHome(t)
	mustRun(t, home, "add", "Release")
	mustRun(t, home, "check", "add", "0", "tag", "build")
	mustRun(t, home, "check", "add", "0", "publish")
	mustRun(t, home, "check", "order", "0", "0", "5")
	mustRun(t, home, "check", "toggle", "0", "1")
	mustRun(t, home, "check", "edit", "0", "0", "publish notes")

	out := mustRun(t, home, "list")
	assert.Contains(t, out, "Release (1/2)")
	assert.Contains(t, out, "[ ] 0. publish notes")
	assert.Contains(t, out, "[x] 1. tag build")

	mustRun(t, home, "check", "rm", "0", "0")
	out = mustRun(t, home, "list")
	assert.Contains(t, out, "Release (1/1)")
}

func TestExportImportPurge(t *testing.T) {
	home := newHome(t)
	mustRun(t, home, "add", "One", "-c", "Work")
	mustRun(t, home, "add", "Two", "-c", "Other")
	mustRun(t, home, "done", "1")

	exported := filepath.Join(home, "out.json")
	mustRun(t, home, "export", exported)
	mustRun(t, home, "import", exported)

	out := mustRun(t, home, "list")
	assert.Equal(t, 2, strings.Count(out, "One"))

	// declined confirmation keeps everything
	out, err := run(t, home, "n\n", "purge", "--done")
	require.NoError(t, err)
	assert.Contains(t, out, "Operation cancelled.")

	out = mustRun(t, home, "purge", "--done", "--yes")
	assert.Contains(t, out, "Successfully deleted 2 task(s)")

	txt := filepath.Join(home, "out.txt")
	mustRun(t, home, "export", txt, "--type", "txt")
	data, err := os.ReadFile(txt)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Work:")
	assert.NotContains(t, string(data), "Two")
}

func TestErrors(t *testing.T) {
	home := newHome(t)
	mustRun(t, home, "add", "Only")

	_, err := run(t, home, "", "done", "9")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = run(t, home, "", "done", "first")
	assert.ErrorIs(t, err, store.ErrValidation)

	_, err = run(t, home, "", "add", "Task", "--category", "Nope")
	assert.ErrorIs(t, err, store.ErrValidation)

	_, err = run(t, home, "", "edit", "0", "createdAt", "x")
	assert.ErrorIs(t, err, store.ErrValidation)

	_, err = run(t, home, "", "purge", "--done", "--undone", "--yes")
	assert.Error(t, err)

	out := mustRun(t, home, "list")
	assert.Contains(t, out, "Only")
}

func TestCorruptFileIsReported(t *testing.T) {
	home := newHome(t)
	mustRun(t, home, "list")

	path := filepath.Join(home, ".config", "tasklist", "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title": "not a list"}`), 0o644))

	_, err := run(t, home, "", "add", "More")
	assert.ErrorIs(t, err, store.ErrCorrupt)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"title": "not a list"}`, string(data))
}

func TestStorageDrivers(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		home := newHome(t)
		t.Setenv("TASKLIST_STORAGE_DRIVER", "sqlite")

		mustRun(t, home, "add", "In the database")
		out := mustRun(t, home, "list")
		assert.Contains(t, out, "In the database")

		assert.FileExists(t, filepath.Join(home, ".config", "tasklist", "tasks.db"))
		assert.NoFileExists(t, filepath.Join(home, ".config", "tasklist", "tasks.json"))
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		home := newHome(t)
		t.Setenv("TASKLIST_STORAGE_DRIVER", "postgres")

		_, err := run(t, home, "", "list")
		assert.ErrorContains(t, err, "storage.dsn")
	})

	t.Run("unknown", func(t *testing.T) {
		home := newHome(t)
		t.Setenv("TASKLIST_STORAGE_DRIVER", "redis")

		_, err := run(t, home, "", "list")
		assert.ErrorContains(t, err, "unknown storage driver")
	})
}
