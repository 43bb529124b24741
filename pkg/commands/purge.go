package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"tasklist/pkg/store"
)

// PurgeFilter selects the tasks a purge deletes. The zero value matches
// every task.
type PurgeFilter struct {
	Category   string
	DoneOnly   bool
	UndoneOnly bool
}

// Matches reports whether t is selected by the filter
func (f PurgeFilter) Matches(t store.Task) bool {
	if f.Category != "" && !strings.EqualFold(t.CategoryName(), f.Category) {
		return false
	}
	if f.DoneOnly && !t.Completed {
		return false
	}
	if f.UndoneOnly && t.Completed {
		return false
	}
	return true
}

// HandlePurge deletes the tasks matching filter after asking for
// confirmation on in, unless skipConfirm is set.
func HandlePurge(s *store.Store, w io.Writer, in io.Reader, filter PurgeFilter, skipConfirm bool) error {
	tasks, err := s.LoadAll()
	if err != nil {
		return err
	}

	var targets []int
	for i, t := range tasks {
		if filter.Matches(t) {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		fmt.Fprintln(w, "No matching tasks.")
		return nil
	}

	// Show confirmation unless --yes flag is used
	if !skipConfirm {
		fmt.Fprintf(w, "Are you sure you want to delete %d task(s)? (y/N): ", len(targets))
		response, _ := bufio.NewReader(in).ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(w, "Operation cancelled.")
			return nil
		}
	}

	// highest index first so earlier deletes never shift later targets
	for i := len(targets) - 1; i >= 0; i-- {
		if err := s.Delete(targets[i]); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "Successfully deleted %d task(s)\n", len(targets))
	return nil
}
