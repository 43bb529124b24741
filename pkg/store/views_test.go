package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func titles(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestSortedByDeadline(t *testing.T) {
	tasks := []Task{
		{Title: "none-1"},
		{Title: "late", Deadline: strPtr("2024-06-20T09:00:00")},
		{Title: "bad", Deadline: strPtr("not-a-date")},
		{Title: "early", Deadline: strPtr("2024-06-14T23:00:00")},
		{Title: "none-2", Deadline: strPtr("")},
		{Title: "late-twin", Deadline: strPtr("2024-06-20 09:00:00")},
		{Title: "none-3"},
	}

	got := SortedByDeadline(tasks)
	assert.Equal(t,
		[]string{"early", "late", "late-twin", "none-1", "bad", "none-2", "none-3"},
		titles(got))

	// input untouched
	assert.Equal(t, "none-1", tasks[0].Title)
}

func TestSortedByOrder(t *testing.T) {
	tasks := []Task{
		{Title: "a", Order: intPtr(3)},
		{Title: "b"}, // defaults to 1
		{Title: "c", Order: intPtr(1)},
		{Title: "d", Order: intPtr(0)},
	}

	assert.Equal(t, []string{"d", "b", "c", "a"}, titles(SortedByOrder(tasks)))
}

func TestGroupByCategory(t *testing.T) {
	tasks := []Task{
		{Title: "A", Category: "cat1"},
		{Title: "B", Category: "cat2"},
		{Title: "C", Category: "cat1"},
		{Title: "D"},
	}

	groups := GroupByCategory(tasks)
	require.Len(t, groups, 3)

	assert.Equal(t, "cat1", groups[0].Category)
	assert.Equal(t, []Entry{{Index: 0, Task: tasks[0]}, {Index: 2, Task: tasks[2]}}, groups[0].Entries)
	assert.Equal(t, "cat2", groups[1].Category)
	assert.Equal(t, []Entry{{Index: 1, Task: tasks[1]}}, groups[1].Entries)
	assert.Equal(t, Uncategorized, groups[2].Category)
	assert.Equal(t, 3, groups[2].Entries[0].Index)
}

func TestViewKeepsOriginalIndices(t *testing.T) {
	tasks := []Task{
		{Title: "w-late", Category: "Work", Deadline: strPtr("2024-07-01T09:00:00")},
		{Title: "p", Category: "Personal"},
		{Title: "w-soon", Category: "Work", Deadline: strPtr("2024-06-16T09:00:00")},
	}

	groups := View(tasks, SortByDeadline)
	require.Len(t, groups, 2)
	assert.Equal(t, "Work", groups[0].Category)
	assert.Equal(t, 2, groups[0].Entries[0].Index)
	assert.Equal(t, 0, groups[0].Entries[1].Index)
	assert.Equal(t, "Personal", groups[1].Category)
	assert.Equal(t, 1, groups[1].Entries[0].Index)
}

func TestParseSortBy(t *testing.T) {
	by, err := ParseSortBy("")
	require.NoError(t, err)
	assert.Equal(t, SortByDeadline, by)

	by, err = ParseSortBy("Order")
	require.NoError(t, err)
	assert.Equal(t, SortByOrder, by)

	_, err = ParseSortBy("title")
	assert.ErrorIs(t, err, ErrValidation)
}
