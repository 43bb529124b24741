package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, categories ...string) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	backend, err := NewFileBackend(path)
	require.NoError(t, err)
	s := New(backend, Options{
		Categories: categories,
		Now:        func() time.Time { return fixedNow },
	})
	return s, path
}

func TestLoadAllMissingFile(t *testing.T) {
	s, _ := newTestStore(t)

	tasks, err := s.LoadAll()
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestLoadAllCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `[{"title": "a",`},
		{"object instead of array", `{"title": "a"}`},
		{"numeric title", `[{"title": 42}]`},
		{"missing title", `[{"description": "x"}]`},
		{"string checklist", `[{"title": "a", "checklist": "nope"}]`},
		{"empty file", ``},
		{"whitespace only", "  \n"},
		{"bad createdAt", `[{"title": "a", "createdAt": "yesterday"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, path := newTestStore(t)
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))

			tasks, err := s.LoadAll()
			assert.Nil(t, tasks)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorrupt), "got %v", err)

			var corrupt *CorruptStoreError
			require.True(t, errors.As(err, &corrupt))
			assert.Equal(t, path, corrupt.Source)
		})
	}
}

func TestCorruptStoreIsNotOverwritten(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"broken": true}`), 0644))

	_, err := s.Create("new task", "", "", nil)
	require.ErrorIs(t, err, ErrCorrupt)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"broken": true}`, string(data))
}

func TestCreate(t *testing.T) {
	s, _ := newTestStore(t)

	for i, title := range []string{"first", "second", "third"} {
		before, err := s.LoadAll()
		require.NoError(t, err)

		task, err := s.Create(title, "Work", "desc", nil)
		require.NoError(t, err)
		assert.Equal(t, title, task.Title)
		assert.False(t, task.Completed)
		assert.Empty(t, task.Checklist)
		assert.NotNil(t, task.Checklist)
		require.NotNil(t, task.Order)
		assert.Equal(t, len(before), *task.Order)
		assert.True(t, task.CreatedAt.Equal(fixedNow))

		after, err := s.LoadAll()
		require.NoError(t, err)
		require.Len(t, after, i+1)
		assert.Equal(t, title, after[i].Title)
		assert.NotNil(t, after[i].Checklist)
	}
}

func TestCreateWithDeadline(t *testing.T) {
	s, _ := newTestStore(t)
	due := time.Date(2024, 6, 20, 9, 0, 0, 0, time.Local)

	task, err := s.Create("call back", "", "", &due)
	require.NoError(t, err)
	require.NotNil(t, task.Deadline)
	assert.Equal(t, "2024-06-20T09:00:00", *task.Deadline)
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	s, path := newTestStore(t)
	_, err := s.Create("keep me", "", "", nil)
	require.NoError(t, err)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := s.Create(title, "", "", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
	}

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	s, _ := newTestStore(t, "Work", "Personal")

	_, err := s.Create("a", "Hobby", "", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Create("b", "", "", nil)
	assert.NoError(t, err)

	_, err = s.Create("c", "Personal", "", nil)
	assert.NoError(t, err)
}

func TestUpdateField(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Create("original", "Work", "", nil)
	require.NoError(t, err)

	require.NoError(t, s.UpdateField(0, FieldTitle, "  renamed "))
	require.NoError(t, s.UpdateField(0, FieldDescription, "details"))
	require.NoError(t, s.UpdateField(0, FieldCategory, "Personal"))
	require.NoError(t, s.UpdateField(0, FieldCompleted, true))
	require.NoError(t, s.UpdateField(0, FieldOrder, float64(7)))
	require.NoError(t, s.UpdateField(0, FieldDeadline, "2024-06-20 09:00"))

	tasks, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	got := tasks[0]
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, "details", got.Description)
	assert.Equal(t, "Personal", got.Category)
	assert.True(t, got.Completed)
	require.NotNil(t, got.Order)
	assert.Equal(t, 7, *got.Order)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, "2024-06-20T09:00:00", *got.Deadline)
	assert.True(t, got.CreatedAt.Equal(fixedNow))

	require.NoError(t, s.UpdateField(0, FieldDeadline, nil))
	tasks, err = s.LoadAll()
	require.NoError(t, err)
	assert.Nil(t, tasks[0].Deadline)
}

func TestUpdateFieldErrors(t *testing.T) {
	s, path := newTestStore(t)
	_, err := s.Create("only", "", "", nil)
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	tests := []struct {
		name  string
		index int
		field Field
		value any
		want  error
	}{
		{"index past end", 1, FieldTitle, "x", ErrNotFound},
		{"negative index", -1, FieldTitle, "x", ErrNotFound},
		{"blank title", 0, FieldTitle, "  ", ErrValidation},
		{"title wrong type", 0, FieldTitle, 3, ErrValidation},
		{"completed wrong type", 0, FieldCompleted, "yes", ErrValidation},
		{"fractional order", 0, FieldOrder, 1.5, ErrValidation},
		{"unparseable deadline", 0, FieldDeadline, "someday", ErrValidation},
		{"immutable createdAt", 0, Field("createdAt"), "2024-01-01", ErrValidation},
		{"immutable checklist", 0, Field("checklist"), nil, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.UpdateField(tt.index, tt.field, tt.value)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	for _, title := range []string{"a", "b", "c", "d"} {
		_, err := s.Create(title, "", "", nil)
		require.NoError(t, err)
	}

	require.NoError(t, s.Delete(1))

	tasks, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "a", tasks[0].Title)
	assert.Equal(t, "c", tasks[1].Title)
	assert.Equal(t, "d", tasks[2].Title)

	// orders are not renumbered
	assert.Equal(t, 2, *tasks[1].Order)
	assert.Equal(t, 3, *tasks[2].Order)

	var nf *NotFoundError
	err = s.Delete(3)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 3, nf.Index)
	assert.Equal(t, 3, nf.Len)
}

func TestRoundTrip(t *testing.T) {
	s, path := newTestStore(t)
	doc := `[
  {"title": "legacy", "description": "old", "category": "Work", "completed": true,
   "created_at": "2024-05-01 08:30:00.123456", "deadline": "2024-06-20T09:00:00",
   "checklist": [{"item": "step one", "done": true}]},
  {"title": "modern", "description": "", "completed": false,
   "createdAt": "2024-06-01T12:00:00Z", "deadline": "not-a-date", "order": 5,
   "checklist": null, "extra": "ignored"}
]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	first, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "step one", first[0].Checklist[0].Text)
	assert.Equal(t, 2024, first[0].CreatedAt.Year())
	assert.NotNil(t, first[1].Checklist)
	require.NotNil(t, first[1].Deadline)
	assert.Equal(t, "not-a-date", *first[1].Deadline)

	require.NoError(t, s.SaveAll(first))
	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(saved), `"createdAt"`)
	assert.NotContains(t, string(saved), `"created_at"`)
	assert.Contains(t, string(saved), `"text": "step one"`)

	second, err := s.LoadAll()
	require.NoError(t, err)

	a, err := Encode(first)
	require.NoError(t, err)
	b, err := Encode(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	require.NoError(t, s.SaveAll(second))
	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(saved), string(again))
}

func TestAppend(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Create("existing", "", "", nil)
	require.NoError(t, err)

	n, err := s.Append([]Task{{Title: "imported one"}, {Title: "imported two", Order: intPtr(0)}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	tasks, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, 1, *tasks[1].Order)
	assert.Equal(t, 0, *tasks[2].Order)
	assert.True(t, tasks[1].CreatedAt.Equal(fixedNow))
	assert.NotNil(t, tasks[2].Checklist)

	_, err = s.Append([]Task{{Title: " "}})
	assert.ErrorIs(t, err, ErrValidation)
}
