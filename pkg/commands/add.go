package commands

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"tasklist/pkg/auth"
	"tasklist/pkg/deadline"
	"tasklist/pkg/store"
)

// AddOptions are the fields collected by the add command or form
type AddOptions struct {
	Title       string
	Category    string
	Description string
	Deadline    string
}

var (
	categoryTagRe   = regexp.MustCompile(`(?:^|\s)\+(\w+)`)
	categoryStripRe = regexp.MustCompile(`\s*\+\w+\s*`)
)

// HandleAddTask creates a task. A "+Category" tag in the title sets the
// category when none was given explicitly, and the deadline accepts the
// stored layouts as well as natural language ("tomorrow 5pm").
func HandleAddTask(s *store.Store, w io.Writer, opts AddOptions, now time.Time) (store.Task, error) {
	title := opts.Title
	category := strings.TrimSpace(opts.Category)
	if tag := extractCategory(title); tag != "" {
		if category == "" {
			category = tag
		}
		title = removeCategoryTags(title)
	}

	due, err := ParseDeadline(opts.Deadline, now)
	if err != nil {
		return store.Task{}, err
	}

	task, err := s.Create(title, category, opts.Description, due)
	if err != nil {
		return store.Task{}, err
	}

	fmt.Fprintln(w, auth.FlashTaskAdded)
	return task, nil
}

// ParseDeadline parses user input for a deadline. Empty input means no
// deadline.
func ParseDeadline(input string, now time.Time) (*time.Time, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	t, err := deadline.ParseInput(input, now)
	if err != nil {
		return nil, &store.ValidationError{Field: "deadline", Msg: err.Error()}
	}
	return &t, nil
}

// extractCategory returns the first +Category tag in text
func extractCategory(text string) string {
	match := categoryTagRe.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return match[1]
}

// removeCategoryTags removes +Category tags from text for a clean title
func removeCategoryTags(text string) string {
	return strings.TrimSpace(categoryStripRe.ReplaceAllString(text, " "))
}
