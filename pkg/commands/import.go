package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tasklist/pkg/deadline"
	"tasklist/pkg/store"
)

var (
	dateHeadingRe = regexp.MustCompile(`^(?:(\d{2})\.(\d{2})\.(\d{4})|(\d{4})-(\d{2})-(\d{2})):?$`)
	dueSuffixRe   = regexp.MustCompile(`\s*\(due ([^)]+)\)$`)
)

// HandleImportCommand appends the tasks in filename to the store. The file
// is either a JSON task document or the text format written by export.
func HandleImportCommand(s *store.Store, w io.Writer, filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	tasks, err := ParseImport(content)
	if err != nil {
		return err
	}

	n, err := s.Append(tasks)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Successfully imported %d task(s) from %s\n", n, filename)
	return nil
}

// ParseImport decodes an import file. Content starting with "[" is read as
// a JSON document; anything else as text.
func ParseImport(content []byte) ([]store.Task, error) {
	if trimmed := bytes.TrimSpace(content); len(trimmed) > 0 && trimmed[0] == '[' {
		return store.Decode(content)
	}
	return parseText(string(content)), nil
}

// parseText reads "Category:" and "YYYY-MM-DD:" (or "DD.MM.YYYY:") headings,
// "- [x] title" task lines and indented "- [ ] text" checklist lines. A date
// heading sets the deadline, at noon, of the tasks below it.
func parseText(content string) []store.Task {
	var tasks []store.Task
	var category string
	var due *string

	for _, raw := range strings.Split(content, "\n") {
		indented := strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t")
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		// Check if line contains a date (DD.MM.YYYY: or YYYY-MM-DD: format)
		if dateMatch := dateHeadingRe.FindStringSubmatch(line); dateMatch != nil {
			var day, month, year int
			if dateMatch[1] != "" {
				day, _ = strconv.Atoi(dateMatch[1])
				month, _ = strconv.Atoi(dateMatch[2])
				year, _ = strconv.Atoi(dateMatch[3])
			} else {
				year, _ = strconv.Atoi(dateMatch[4])
				month, _ = strconv.Atoi(dateMatch[5])
				day, _ = strconv.Atoi(dateMatch[6])
			}
			v := deadline.Format(time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.Local))
			due = &v
			continue
		}

		if !strings.HasPrefix(line, "- ") {
			if strings.HasSuffix(line, ":") {
				category = strings.TrimSpace(strings.TrimSuffix(line, ":"))
				if category == store.Uncategorized {
					category = ""
				}
				due = nil
			}
			continue
		}

		text := strings.TrimSpace(strings.TrimPrefix(line, "- "))
		done := false
		if strings.HasPrefix(text, "[x]") || strings.HasPrefix(text, "[X]") {
			done = true
			text = strings.TrimSpace(text[3:])
		} else if strings.HasPrefix(text, "[ ]") {
			text = strings.TrimSpace(text[3:])
		}
		if text == "" {
			continue
		}

		if indented && len(tasks) > 0 {
			parent := &tasks[len(tasks)-1]
			parent.Checklist = append(parent.Checklist, store.ChecklistItem{
				Text:  text,
				Done:  done,
				Order: intPtr(len(parent.Checklist)),
			})
			continue
		}

		task := store.Task{
			Title:     text,
			Category:  category,
			Completed: done,
			Deadline:  due,
			Checklist: []store.ChecklistItem{},
		}
		if m := dueSuffixRe.FindStringSubmatch(text); m != nil {
			task.Title = strings.TrimSpace(strings.TrimSuffix(text, m[0]))
			v := m[1]
			task.Deadline = &v
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func intPtr(n int) *int { return &n }
