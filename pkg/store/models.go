package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tasklist/pkg/deadline"
)

// Uncategorized is the group tasks without a category fall under
const Uncategorized = "Uncategorized"

// Task represents a single task in the collection.
// Its identity is its position in the persisted collection.
type Task struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Completed   bool            `json:"completed"`
	CreatedAt   time.Time       `json:"createdAt"`
	Deadline    *string         `json:"deadline"`
	Order       *int            `json:"order,omitempty"`
	Checklist   []ChecklistItem `json:"checklist"`
}

// ChecklistItem represents a sub-task owned by a Task
type ChecklistItem struct {
	Text  string `json:"text"`
	Done  bool   `json:"done"`
	Order *int   `json:"order,omitempty"`
}

// Field names a Task field that UpdateField can change.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
	FieldCompleted   Field = "completed"
	FieldDeadline    Field = "deadline"
	FieldOrder       Field = "order"
)

// ItemField names a ChecklistItem field that UpdateItemField can change.
type ItemField string

const (
	ItemText  ItemField = "text"
	ItemDone  ItemField = "done"
	ItemOrder ItemField = "order"
)

// ParseField validates a field name coming from the CLI or HTTP API.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.TrimSpace(s)); f {
	case FieldTitle, FieldDescription, FieldCategory, FieldCompleted, FieldDeadline, FieldOrder:
		return f, nil
	}
	return "", &ValidationError{Field: s, Msg: "unknown or immutable task field"}
}

// ParseItemField validates a checklist field name.
func ParseItemField(s string) (ItemField, error) {
	switch f := ItemField(strings.TrimSpace(s)); f {
	case ItemText, ItemDone, ItemOrder:
		return f, nil
	}
	return "", &ValidationError{Field: s, Msg: "unknown checklist field"}
}

// CategoryName returns the grouping key for the task.
func (t Task) CategoryName() string {
	if strings.TrimSpace(t.Category) == "" {
		return Uncategorized
	}
	return t.Category
}

// DoneCount returns how many checklist items are done.
func (t Task) DoneCount() int {
	n := 0
	for _, item := range t.Checklist {
		if item.Done {
			n++
		}
	}
	return n
}

// UnmarshalJSON accepts the current field names as well as the legacy
// created_at key written by the first prototypes.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	aux := struct {
		*plain
		CreatedAt       string `json:"createdAt"`
		LegacyCreatedAt string `json:"created_at"`
	}{plain: (*plain)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := aux.CreatedAt
	if raw == "" {
		raw = aux.LegacyCreatedAt
	}
	if raw != "" {
		ts, err := deadline.Parse(raw, time.Local)
		if err != nil {
			return fmt.Errorf("createdAt: %w", err)
		}
		t.CreatedAt = ts
	}

	if t.Checklist == nil {
		t.Checklist = []ChecklistItem{}
	}
	return nil
}

// UnmarshalJSON accepts the legacy "item" key for the item text.
func (c *ChecklistItem) UnmarshalJSON(data []byte) error {
	type plain ChecklistItem
	aux := struct {
		*plain
		LegacyText *string `json:"item"`
	}{plain: (*plain)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.Text == "" && aux.LegacyText != nil {
		c.Text = *aux.LegacyText
	}
	return nil
}

func intPtr(n int) *int { return &n }

func orderOr(order *int, position int) int {
	if order == nil {
		return position
	}
	return *order
}
