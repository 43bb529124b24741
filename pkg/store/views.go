package store

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"tasklist/pkg/deadline"
)

// Entry is a task together with its index in the persisted collection, so
// a sorted or grouped view can still address the store.
type Entry struct {
	Index int
	Task  Task
}

// Group is one category of a grouped view.
type Group struct {
	Category string
	Entries  []Entry
}

// SortBy selects the view ordering
type SortBy int

const (
	SortByDeadline SortBy = iota
	SortByOrder
)

func (s SortBy) String() string {
	if s == SortByOrder {
		return "order"
	}
	return "deadline"
}

// ParseSortBy accepts "deadline" and "order"; empty means deadline.
func ParseSortBy(s string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "deadline":
		return SortByDeadline, nil
	case "order", "manual":
		return SortByOrder, nil
	}
	return SortByDeadline, &ValidationError{Field: "sort", Msg: fmt.Sprintf("unknown sort %q", s)}
}

// Indexed pairs every task with its position.
func Indexed(tasks []Task) []Entry {
	entries := make([]Entry, len(tasks))
	for i, t := range tasks {
		entries[i] = Entry{Index: i, Task: t}
	}
	return entries
}

// SortEntriesByDeadline returns a stable ascending sort by deadline. Entries
// without a deadline, or with one that does not parse, go last in their
// input order.
func SortEntriesByDeadline(entries []Entry) []Entry {
	type keyed struct {
		entry Entry
		at    time.Time
		ok    bool
	}
	ks := make([]keyed, len(entries))
	for i, e := range entries {
		at, ok := deadline.SortKey(e.Task.Deadline, time.Local)
		ks[i] = keyed{entry: e, at: at, ok: ok}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.ok && b.ok:
			return a.at.Compare(b.at)
		case a.ok:
			return -1
		case b.ok:
			return 1
		}
		return 0
	})

	sorted := make([]Entry, len(ks))
	for i, k := range ks {
		sorted[i] = k.entry
	}
	return sorted
}

// SortEntriesByOrder returns a stable ascending sort by order. A missing
// order defaults to the entry's position in the input.
func SortEntriesByOrder(entries []Entry) []Entry {
	type keyed struct {
		entry Entry
		key   int
	}
	ks := make([]keyed, len(entries))
	for i, e := range entries {
		ks[i] = keyed{entry: e, key: orderOr(e.Task.Order, i)}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		return cmp.Compare(a.key, b.key)
	})

	sorted := make([]Entry, len(ks))
	for i, k := range ks {
		sorted[i] = k.entry
	}
	return sorted
}

// SortEntries dispatches on by.
func SortEntries(entries []Entry, by SortBy) []Entry {
	if by == SortByOrder {
		return SortEntriesByOrder(entries)
	}
	return SortEntriesByDeadline(entries)
}

// GroupEntries groups entries by category in first-seen order, keeping
// each group's entries in input order.
func GroupEntries(entries []Entry) []Group {
	var groups []Group
	positions := make(map[string]int)

	for _, e := range entries {
		name := e.Task.CategoryName()
		pos, ok := positions[name]
		if !ok {
			pos = len(groups)
			positions[name] = pos
			groups = append(groups, Group{Category: name})
		}
		groups[pos].Entries = append(groups[pos].Entries, e)
	}
	return groups
}

// SortedByDeadline returns the tasks sorted by deadline, no deadline last.
func SortedByDeadline(tasks []Task) []Task {
	return tasksOf(SortEntriesByDeadline(Indexed(tasks)))
}

// SortedByOrder returns the tasks sorted by their manual order.
func SortedByOrder(tasks []Task) []Task {
	return tasksOf(SortEntriesByOrder(Indexed(tasks)))
}

// GroupByCategory groups the collection by category, keeping original
// indices alongside each task.
func GroupByCategory(tasks []Task) []Group {
	return GroupEntries(Indexed(tasks))
}

// View returns the collection sorted by the given ordering, then grouped by
// category. This is what the TUI, the list command and the HTTP API render.
func View(tasks []Task, by SortBy) []Group {
	return GroupEntries(SortEntries(Indexed(tasks), by))
}

func tasksOf(entries []Entry) []Task {
	tasks := make([]Task, len(entries))
	for i, e := range entries {
		tasks[i] = e.Task
	}
	return tasks
}
