package deadline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// StorageLayout is the naive local ISO form deadlines are written in.
const StorageLayout = "2006-01-02T15:04:05"

const dateOnlyLayout = "2006-01-02"

// ErrUnparseable is returned when a deadline string matches no known layout
var ErrUnparseable = errors.New("unparseable deadline")

// naiveLayouts are tried in order after RFC 3339. They cover what the form
// writes (isoformat), what Python's str(datetime) produced and plain dates.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	dateOnlyLayout,
}

// defaultHour is applied to date-only user input, matching the add form's
// time picker default of noon.
const defaultHour = 12

var nlp = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// Parse parses a stored deadline. Values without a zone are interpreted in loc.
func Parse(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrUnparseable)
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
}

// ParseInput parses a deadline typed by the user. The strict layouts are
// tried first; anything else goes through natural language parsing relative
// to now ("tomorrow 5pm", "next friday").
func ParseInput(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrUnparseable)
	}

	if d, err := time.ParseInLocation(dateOnlyLayout, s, now.Location()); err == nil {
		return d.Add(defaultHour * time.Hour), nil
	}
	if t, err := Parse(s, now.Location()); err == nil {
		return t, nil
	}

	r, err := nlp.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
	}
	return r.Time, nil
}

// Format renders t in the stored layout, in t's own location.
func Format(t time.Time) string {
	return t.Format(StorageLayout)
}

// SortKey returns the parsed deadline and true, or false when there is no
// deadline or it does not parse. Sorting treats both the same way.
func SortKey(deadline *string, loc *time.Location) (time.Time, bool) {
	if deadline == nil || strings.TrimSpace(*deadline) == "" {
		return time.Time{}, false
	}
	t, err := Parse(*deadline, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
