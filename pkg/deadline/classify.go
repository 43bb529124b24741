// Package deadline classifies task deadlines into urgency buckets and parses
// the timestamp forms tasks are stored and entered with.
package deadline

import (
	"strings"
	"time"
)

// Kind is the urgency bucket a deadline falls into.
type Kind int

const (
	None Kind = iota // no deadline set
	Overdue
	DueSoon
	DueToday
	Scheduled
	Invalid // deadline present but unparseable
)

const (
	labelLayout   = "Jan 02, 03:04 PM"
	clockLayout   = "03:04 PM"
	dueSoonWindow = 24 * time.Hour
)

// String returns the symbolic name of the kind.
func (k Kind) String() string {
	switch k {
	case Overdue:
		return "overdue"
	case DueSoon:
		return "due_soon"
	case DueToday:
		return "due_today"
	case Scheduled:
		return "scheduled"
	case Invalid:
		return "invalid"
	default:
		return "none"
	}
}

// MarshalText lets a Kind serialize as its symbolic name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Classification is the display form of a deadline.
type Classification struct {
	Kind  Kind
	Label string
	// Time is the parsed deadline; zero for None and Invalid.
	Time time.Time
}

// Classify maps an optional deadline to its classification relative to now.
// Rules are evaluated in order and the first match wins:
//  1. no deadline -> None
//  2. calendar date before now's date -> Overdue
//  3. 0 <= deadline-now <= 24h -> DueSoon
//  4. same calendar date as now -> DueToday
//  5. otherwise -> Scheduled
//
// A present but malformed value yields Invalid. Naive timestamps and calendar
// dates are evaluated in now's location.
func Classify(deadline *string, now time.Time) Classification {
	if deadline == nil || strings.TrimSpace(*deadline) == "" {
		return Classification{Kind: None}
	}

	t, err := Parse(*deadline, now.Location())
	if err != nil {
		return Classification{Kind: Invalid, Label: "Invalid deadline"}
	}
	t = t.In(now.Location())

	delta := t.Sub(now)
	switch {
	case calendarDate(t).Before(calendarDate(now)):
		return Classification{Kind: Overdue, Label: "Overdue: " + t.Format(labelLayout), Time: t}
	case delta >= 0 && delta <= dueSoonWindow:
		return Classification{Kind: DueSoon, Label: "Due Soon: " + t.Format(labelLayout), Time: t}
	case calendarDate(t).Equal(calendarDate(now)):
		return Classification{Kind: DueToday, Label: "Due Today: " + t.Format(clockLayout), Time: t}
	default:
		return Classification{Kind: Scheduled, Label: t.Format(labelLayout), Time: t}
	}
}

// calendarDate truncates t to midnight in its own location
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
