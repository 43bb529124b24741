package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteBackend(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "tasks.db")
	backend, err := OpenSQL("sqlite", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	s := New(backend, Options{Now: func() time.Time { return fixedNow }})

	tasks, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = s.Create("stored in sqlite", "Work", "", nil)
	require.NoError(t, err)
	_, err = s.AddItem(0, "sub")
	require.NoError(t, err)
	_, err = s.Create("second", "", "", nil)
	require.NoError(t, err)

	tasks, err = s.LoadAll()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "stored in sqlite", tasks[0].Title)
	assert.Equal(t, "sub", tasks[0].Checklist[0].Text)

	// a second connection sees the same document
	reopened, err := OpenSQL("sqlite3", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	tasks, err = New(reopened, Options{}).LoadAll()
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestOpenSQLUnknownDriver(t *testing.T) {
	_, err := OpenSQL("oracle", "x")
	assert.Error(t, err)
}
