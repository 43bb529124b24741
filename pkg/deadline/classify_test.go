package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestClassify(t *testing.T) {
	// Fixed reference time: Saturday, June 15, 2024, 10:00
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		deadline  *string
		wantKind  Kind
		wantLabel string
	}{
		{
			name:      "yesterday evening is overdue",
			deadline:  strPtr("2024-06-14T23:00:00"),
			wantKind:  Overdue,
			wantLabel: "Overdue: Jun 14, 11:00 PM",
		},
		{
			name:      "two hours ahead is due soon",
			deadline:  strPtr("2024-06-15T12:00:00"),
			wantKind:  DueSoon,
			wantLabel: "Due Soon: Jun 15, 12:00 PM",
		},
		{
			name:      "earlier today is due today",
			deadline:  strPtr("2024-06-15T09:00:00"),
			wantKind:  DueToday,
			wantLabel: "Due Today: 09:00 AM",
		},
		{
			name:      "next week is scheduled",
			deadline:  strPtr("2024-06-20T09:00:00"),
			wantKind:  Scheduled,
			wantLabel: "Jun 20, 09:00 AM",
		},
		{
			name:      "tomorrow within the window is due soon",
			deadline:  strPtr("2024-06-16T09:59:00"),
			wantKind:  DueSoon,
			wantLabel: "Due Soon: Jun 16, 09:59 AM",
		},
		{
			name:      "exactly 24 hours ahead is due soon",
			deadline:  strPtr("2024-06-16T10:00:00"),
			wantKind:  DueSoon,
			wantLabel: "Due Soon: Jun 16, 10:00 AM",
		},
		{
			name:      "just past the window is scheduled",
			deadline:  strPtr("2024-06-16T10:00:01"),
			wantKind:  Scheduled,
			wantLabel: "Jun 16, 10:00 AM",
		},
		{
			name:      "exactly now is due soon",
			deadline:  strPtr("2024-06-15T10:00:00"),
			wantKind:  DueSoon,
			wantLabel: "Due Soon: Jun 15, 10:00 AM",
		},
		{
			name:      "python str(datetime) form",
			deadline:  strPtr("2024-06-10 08:30:00.123456"),
			wantKind:  Overdue,
			wantLabel: "Overdue: Jun 10, 08:30 AM",
		},
		{
			name:      "date only is midnight",
			deadline:  strPtr("2024-06-15"),
			wantKind:  DueToday,
			wantLabel: "Due Today: 12:00 AM",
		},
		{
			name:      "rfc3339 with zone is converted to now's location",
			deadline:  strPtr("2024-06-15T14:00:00+02:00"),
			wantKind:  DueSoon,
			wantLabel: "Due Soon: Jun 15, 12:00 PM",
		},
		{
			name:     "nil deadline has no label",
			deadline: nil,
			wantKind: None,
		},
		{
			name:     "empty deadline has no label",
			deadline: strPtr(""),
			wantKind: None,
		},
		{
			name:      "garbage is invalid",
			deadline:  strPtr("not-a-date"),
			wantKind:  Invalid,
			wantLabel: "Invalid deadline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.deadline, now)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantLabel, got.Label)
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	d := strPtr("2024-06-20T09:00:00")

	first := Classify(d, now)
	second := Classify(d, now)

	assert.Equal(t, first, second)
	assert.Equal(t, "2024-06-20T09:00:00", *d)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "overdue", Overdue.String())
	assert.Equal(t, "due_soon", DueSoon.String())
	assert.Equal(t, "due_today", DueToday.String())
	assert.Equal(t, "scheduled", Scheduled.String())
	assert.Equal(t, "invalid", Invalid.String())
	assert.Equal(t, "none", None.String())

	text, err := DueSoon.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "due_soon", string(text))
}
