package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tasklist/pkg/store"
)

// HandleExportCommand writes the collection to filename as the JSON
// document ("json") or as a plain checklist ("txt").
func HandleExportCommand(s *store.Store, w io.Writer, filename, exportType string) error {
	tasks, err := s.LoadAll()
	if err != nil {
		return err
	}

	content, err := Export(tasks, exportType)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, content, 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}

	fmt.Fprintf(w, "Successfully exported %d task(s) to %s\n", len(tasks), filename)
	return nil
}

// Export renders tasks in the given format.
func Export(tasks []store.Task, exportType string) ([]byte, error) {
	switch exportType {
	case "", "json":
		return store.Encode(tasks)
	case "txt":
		return []byte(exportText(tasks)), nil
	}
	return nil, &store.ValidationError{Field: "type", Msg: fmt.Sprintf("unknown export type %q", exportType)}
}

// exportText writes one "Category:" heading per group followed by
// "- [x] title" lines; checklist items are indented below their task.
func exportText(tasks []store.Task) string {
	var lines []string
	for _, group := range store.GroupByCategory(tasks) {
		lines = append(lines, "", group.Category+":")
		for _, e := range group.Entries {
			line := fmt.Sprintf("- %s %s", checkbox(e.Task.Completed), e.Task.Title)
			if e.Task.Deadline != nil && *e.Task.Deadline != "" {
				line += fmt.Sprintf(" (due %s)", *e.Task.Deadline)
			}
			lines = append(lines, line)
			for _, item := range e.Task.Checklist {
				lines = append(lines, fmt.Sprintf("  - %s %s", checkbox(item.Done), item.Text))
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}
