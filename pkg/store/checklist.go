package store

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"tasklist/pkg/utils"
)

// AddItem appends a checklist item to the task at taskIndex.
func (s *Store) AddItem(taskIndex int, text string) (ChecklistItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ChecklistItem{}, &ValidationError{Field: "text", Msg: "must not be empty"}
	}

	item := ChecklistItem{Text: text}
	err := s.mutate(func(tasks []Task) ([]Task, error) {
		task, err := taskAt(tasks, taskIndex)
		if err != nil {
			return nil, err
		}
		item.Order = intPtr(len(task.Checklist))
		task.Checklist = append(task.Checklist, item)
		return tasks, nil
	})
	if err != nil {
		return ChecklistItem{}, err
	}

	utils.Log("Added checklist item %q to task %d", text, taskIndex)
	return item, nil
}

// UpdateItemField sets one field of a checklist item. Changing order does
// not move the item; call Reorder afterwards.
func (s *Store) UpdateItemField(taskIndex, itemIndex int, field ItemField, value any) error {
	apply, err := itemFieldSetter(field, value)
	if err != nil {
		return err
	}

	err = s.mutate(func(tasks []Task) ([]Task, error) {
		task, err := taskAt(tasks, taskIndex)
		if err != nil {
			return nil, err
		}
		item, err := itemAt(task, itemIndex)
		if err != nil {
			return nil, err
		}
		apply(item)
		return tasks, nil
	})
	if err != nil {
		return err
	}

	utils.Log("Updated checklist item %d.%d: %s", taskIndex, itemIndex, field)
	return nil
}

// DeleteItem removes a checklist item. Items after it shift down by one.
func (s *Store) DeleteItem(taskIndex, itemIndex int) error {
	err := s.mutate(func(tasks []Task) ([]Task, error) {
		task, err := taskAt(tasks, taskIndex)
		if err != nil {
			return nil, err
		}
		if _, err := itemAt(task, itemIndex); err != nil {
			return nil, err
		}
		task.Checklist = slices.Delete(task.Checklist, itemIndex, itemIndex+1)
		return tasks, nil
	})
	if err != nil {
		return err
	}

	utils.Log("Deleted checklist item %d.%d", taskIndex, itemIndex)
	return nil
}

// Reorder sorts the task's checklist by order, keeping the current relative
// position for ties and items without an order.
func (s *Store) Reorder(taskIndex int) error {
	err := s.mutate(func(tasks []Task) ([]Task, error) {
		task, err := taskAt(tasks, taskIndex)
		if err != nil {
			return nil, err
		}
		task.Checklist = sortItems(task.Checklist)
		return tasks, nil
	})
	if err != nil {
		return err
	}

	utils.Log("Reordered checklist of task %d", taskIndex)
	return nil
}

func sortItems(items []ChecklistItem) []ChecklistItem {
	type positioned struct {
		item ChecklistItem
		key  int
	}
	ps := make([]positioned, len(items))
	for i, item := range items {
		ps[i] = positioned{item: item, key: orderOr(item.Order, i)}
	}
	slices.SortStableFunc(ps, func(a, b positioned) int {
		return cmp.Compare(a.key, b.key)
	})

	sorted := make([]ChecklistItem, len(ps))
	for i, p := range ps {
		sorted[i] = p.item
	}
	return sorted
}

func taskAt(tasks []Task, index int) (*Task, error) {
	if index < 0 || index >= len(tasks) {
		return nil, &NotFoundError{What: "task", Index: index, Len: len(tasks)}
	}
	if tasks[index].Checklist == nil {
		tasks[index].Checklist = []ChecklistItem{}
	}
	return &tasks[index], nil
}

func itemAt(task *Task, index int) (*ChecklistItem, error) {
	if index < 0 || index >= len(task.Checklist) {
		return nil, &NotFoundError{What: "checklist item", Index: index, Len: len(task.Checklist)}
	}
	return &task.Checklist[index], nil
}

func itemFieldSetter(field ItemField, value any) (func(*ChecklistItem), error) {
	switch field {
	case ItemText:
		v, err := stringValue(string(field), value)
		if err != nil {
			return nil, err
		}
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, &ValidationError{Field: "text", Msg: "must not be empty"}
		}
		return func(c *ChecklistItem) { c.Text = v }, nil

	case ItemDone:
		v, ok := value.(bool)
		if !ok {
			return nil, &ValidationError{Field: string(field), Msg: fmt.Sprintf("expected a boolean, got %T", value)}
		}
		return func(c *ChecklistItem) { c.Done = v }, nil

	case ItemOrder:
		v, err := intValue(string(field), value)
		if err != nil {
			return nil, err
		}
		return func(c *ChecklistItem) { c.Order = intPtr(v) }, nil
	}

	return nil, &ValidationError{Field: string(field), Msg: "unknown checklist field"}
}
