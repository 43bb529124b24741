package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"tasklist/pkg/deadline"
	"tasklist/pkg/store"
)

// HandleList prints the collection grouped by category with the indices
// other commands take.
func HandleList(s *store.Store, w io.Writer, by store.SortBy, now time.Time) error {
	tasks, err := s.LoadAll()
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks yet.")
		return nil
	}

	for gi, group := range store.View(tasks, by) {
		if gi > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s ==\n", group.Category)
		for _, e := range group.Entries {
			fmt.Fprintln(w, formatTaskLine(e, now))
			if desc := strings.TrimSpace(e.Task.Description); desc != "" {
				fmt.Fprintf(w, "      %s\n", desc)
			}
			for ii, item := range e.Task.Checklist {
				fmt.Fprintf(w, "      %s %d. %s\n", checkbox(item.Done), ii, item.Text)
			}
		}
	}
	return nil
}

func formatTaskLine(e store.Entry, now time.Time) string {
	line := fmt.Sprintf("%4d %s %s", e.Index, checkbox(e.Task.Completed), e.Task.Title)
	if n := len(e.Task.Checklist); n > 0 {
		line += fmt.Sprintf(" (%d/%d)", e.Task.DoneCount(), n)
	}
	if c := deadline.Classify(e.Task.Deadline, now); c.Label != "" {
		line += "  " + c.Label
	}
	return line
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
