package commands

import (
	"fmt"
	"io"

	"tasklist/pkg/auth"
	"tasklist/pkg/store"
)

// HandleCheckAdd appends a checklist item to a task.
func HandleCheckAdd(s *store.Store, w io.Writer, taskIndex int, text string) error {
	if _, err := s.AddItem(taskIndex, text); err != nil {
		return err
	}
	fmt.Fprintln(w, auth.FlashItemAdded)
	return nil
}

// HandleCheckToggle flips the done flag of a checklist item.
func HandleCheckToggle(s *store.Store, w io.Writer, taskIndex, itemIndex int) error {
	tasks, err := s.LoadAll()
	if err != nil {
		return err
	}
	if taskIndex < 0 || taskIndex >= len(tasks) {
		return &store.NotFoundError{What: "task", Index: taskIndex, Len: len(tasks)}
	}
	items := tasks[taskIndex].Checklist
	if itemIndex < 0 || itemIndex >= len(items) {
		return &store.NotFoundError{What: "checklist item", Index: itemIndex, Len: len(items)}
	}

	done := !items[itemIndex].Done
	if err := s.UpdateItemField(taskIndex, itemIndex, store.ItemDone, done); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", checkbox(done), items[itemIndex].Text)
	return nil
}

// HandleCheckEdit replaces the text of a checklist item.
func HandleCheckEdit(s *store.Store, w io.Writer, taskIndex, itemIndex int, text string) error {
	if err := s.UpdateItemField(taskIndex, itemIndex, store.ItemText, text); err != nil {
		return err
	}
	fmt.Fprintf(w, "Checklist item %d.%d updated\n", taskIndex, itemIndex)
	return nil
}

// HandleCheckRemove deletes a checklist item.
func HandleCheckRemove(s *store.Store, w io.Writer, taskIndex, itemIndex int) error {
	if err := s.DeleteItem(taskIndex, itemIndex); err != nil {
		return err
	}
	fmt.Fprintf(w, "Checklist item %d.%d deleted\n", taskIndex, itemIndex)
	return nil
}

// HandleCheckOrder sets an item's order and re-sorts the checklist so the
// stored sequence follows the new ordering.
func HandleCheckOrder(s *store.Store, w io.Writer, taskIndex, itemIndex, order int) error {
	if err := s.UpdateItemField(taskIndex, itemIndex, store.ItemOrder, order); err != nil {
		return err
	}
	if err := s.Reorder(taskIndex); err != nil {
		return err
	}
	fmt.Fprintf(w, "Checklist of task %d reordered\n", taskIndex)
	return nil
}
