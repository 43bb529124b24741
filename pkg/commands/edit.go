package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"tasklist/pkg/auth"
	"tasklist/pkg/store"
)

// HandleSetDone marks the task at index done or not done.
func HandleSetDone(s *store.Store, w io.Writer, index int, done bool) error {
	if err := s.UpdateField(index, store.FieldCompleted, done); err != nil {
		return err
	}
	state := "not done"
	if done {
		state = "done"
	}
	fmt.Fprintf(w, "Task %d marked %s\n", index, state)
	return nil
}

// HandleEdit sets one field from its command-line text form. Updating the
// order of a task is just a field update; tasks are never moved.
func HandleEdit(s *store.Store, w io.Writer, index int, fieldName, raw string, now time.Time) error {
	field, err := store.ParseField(fieldName)
	if err != nil {
		return err
	}
	value, err := ParseFieldValue(field, raw, now)
	if err != nil {
		return err
	}
	if err := s.UpdateField(index, field, value); err != nil {
		return err
	}
	fmt.Fprintf(w, "Task %d: %s updated\n", index, field)
	return nil
}

// HandleRemove deletes the task at index.
func HandleRemove(s *store.Store, w io.Writer, index int) error {
	if err := s.Delete(index); err != nil {
		return err
	}
	fmt.Fprintln(w, auth.FlashTaskDeleted)
	return nil
}

// ParseFieldValue converts text input to the value type UpdateField expects
// for field.
func ParseFieldValue(field store.Field, raw string, now time.Time) (any, error) {
	switch field {
	case store.FieldCompleted:
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, &store.ValidationError{Field: string(field), Msg: fmt.Sprintf("%q is not a boolean", raw)}
		}
		return v, nil
	case store.FieldOrder:
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, &store.ValidationError{Field: string(field), Msg: fmt.Sprintf("%q is not an integer", raw)}
		}
		return v, nil
	case store.FieldDeadline:
		if isNone(raw) {
			return nil, nil
		}
		due, err := ParseDeadline(raw, now)
		if err != nil {
			return nil, err
		}
		return *due, nil
	}
	return raw, nil
}

func isNone(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none", "null", "-":
		return true
	}
	return false
}

// ParseIndex parses a task or item index argument
func ParseIndex(what, arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, &store.ValidationError{Field: what, Msg: fmt.Sprintf("%q is not an index", arg)}
	}
	return n, nil
}
