package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"tasklist/pkg/auth"
	"tasklist/pkg/config"
	"tasklist/pkg/deadline"
	"tasklist/pkg/store"
	"tasklist/pkg/utils"
)

type rowKind int

const (
	headerRow rowKind = iota
	spacerRow
	taskRow
	itemRow
)

// rowRef ties a table row back to the store index it shows
type rowRef struct {
	kind  rowKind
	index int
}

func (r rowRef) selectable() bool {
	return r.kind == taskRow || r.kind == itemRow
}

// loadTasks re-reads the collection and rebuilds the table for the current
// mode. It runs after every mutation so the view never shows stale data.
func (m *Model) loadTasks() {
	tasks, err := m.store.LoadAll()
	if err != nil {
		utils.Log("Error loading tasks: %v", err)
		m.err = err
		m.tasks = nil
		m.setRows(nil, nil)
		return
	}
	m.tasks = tasks

	if m.inChecklist() {
		if m.taskIndex >= len(tasks) {
			// task vanished, e.g. deleted from another terminal
			m.mode = NormalMode
		} else {
			m.loadChecklist()
			return
		}
	}

	var rows []table.Row
	var refs []rowRef
	groups := store.View(tasks, m.sortBy)
	for gi, group := range groups {
		rows = append(rows, table.Row{
			lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(m.styles.CategoryColor)).
				Render(fmt.Sprintf("== %s ==", group.Category)),
		})
		refs = append(refs, rowRef{kind: headerRow})

		for _, e := range group.Entries {
			rows = append(rows, table.Row{m.renderTask(e.Task)})
			refs = append(refs, rowRef{kind: taskRow, index: e.Index})
		}

		// Add empty line between groups
		if gi < len(groups)-1 {
			rows = append(rows, table.Row{""})
			refs = append(refs, rowRef{kind: spacerRow})
		}
	}

	m.setRows(rows, refs)
}

// loadChecklist fills the table with the items of the open task
func (m *Model) loadChecklist() {
	task := m.tasks[m.taskIndex]
	rows := make([]table.Row, 0, len(task.Checklist))
	refs := make([]rowRef, 0, len(task.Checklist))
	for i, item := range task.Checklist {
		text := item.Text
		if item.Done {
			text = lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.CompletedColor)).Render(text)
		}
		rows = append(rows, table.Row{fmt.Sprintf("%s %s", checkbox(item.Done), text)})
		refs = append(refs, rowRef{kind: itemRow, index: i})
	}
	m.setRows(rows, refs)
}

func (m *Model) setRows(rows []table.Row, refs []rowRef) {
	m.rows = refs
	m.table.SetRows(rows)

	cursor := m.table.Cursor()
	if cursor >= len(refs) {
		cursor = len(refs) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	m.table.SetCursor(cursor)
	m.skipUnselectable(1)
}

// skipUnselectable moves the cursor off headers and spacers, preferring
// the given direction.
func (m *Model) skipUnselectable(dir int) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rows) || m.rows[cursor].selectable() {
		return
	}
	for _, d := range []int{dir, -dir} {
		for i := cursor + d; i >= 0 && i < len(m.rows); i += d {
			if m.rows[i].selectable() {
				m.table.SetCursor(i)
				return
			}
		}
	}
}

// selectTask puts the cursor on the row showing task index
func (m *Model) selectTask(index int) {
	for i, r := range m.rows {
		if r.kind == taskRow && r.index == index {
			m.table.SetCursor(i)
			return
		}
	}
}

// selected returns the store index under the cursor
func (m Model) selected() (int, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rows) || !m.rows[cursor].selectable() {
		return 0, false
	}
	return m.rows[cursor].index, true
}

func (m Model) inChecklist() bool {
	switch m.mode {
	case ChecklistMode, ItemAddMode, ItemEditMode, ItemDeleteConfirmMode:
		return true
	}
	return false
}

// renderTask renders one task row: status, title, checklist progress and
// the colored deadline label.
func (m Model) renderTask(task store.Task) string {
	title := task.Title
	if task.Completed {
		title = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.styles.CompletedColor)).
			Strikethrough(true).
			Render(title)
	}

	line := fmt.Sprintf("%s %s", checkbox(task.Completed), title)
	if n := len(task.Checklist); n > 0 {
		line += fmt.Sprintf(" (%d/%d)", task.DoneCount(), n)
	}

	c := deadline.Classify(task.Deadline, m.now())
	if c.Label != "" {
		line += "  " + lipgloss.NewStyle().
			Foreground(lipgloss.Color(kindColor(c.Kind, m.styles))).
			Render(c.Label)
	}
	return line
}

func kindColor(kind deadline.Kind, styles config.Styles) string {
	switch kind {
	case deadline.Overdue:
		return styles.OverdueColor
	case deadline.DueSoon:
		return styles.DueSoonColor
	case deadline.DueToday:
		return styles.DueTodayColor
	case deadline.Scheduled:
		return styles.ScheduledColor
	case deadline.Invalid:
		return styles.InvalidColor
	}
	return styles.NormalTextColor
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// focusNextInput cycles through the form inputs
func (m *Model) focusNextInput() {
	m.activeInput = (m.activeInput + 1) % fieldCount
	m.focusActiveInput()
}

// focusPreviousInput cycles through the form inputs
func (m *Model) focusPreviousInput() {
	m.activeInput = (m.activeInput - 1 + fieldCount) % fieldCount
	m.focusActiveInput()
}

func (m *Model) focusActiveInput() {
	m.titleInput.Blur()
	m.descInput.Blur()
	m.deadlineInput.Blur()

	switch m.activeInput {
	case titleField:
		m.titleInput.Focus()
	case descField:
		m.descInput.Focus()
	case deadlineField:
		m.deadlineInput.Focus()
	}
}

// cycleCategory steps through the configured categories
func (m *Model) cycleCategory(delta int) {
	if len(m.categories) == 0 {
		return
	}
	m.categoryIdx = (m.categoryIdx + delta + len(m.categories)) % len(m.categories)
}

// startEdit fills the form from the task at index
func (m *Model) startEdit(index int) {
	task := m.tasks[index]
	m.mode = EditMode
	m.taskIndex = index
	m.resetInputs()

	m.titleInput.SetValue(task.Title)
	m.descInput.SetValue(task.Description)
	if task.Category != "" {
		m.categoryIdx = -1
		for i, c := range m.categories {
			if c == task.Category {
				m.categoryIdx = i
			}
		}
		if m.categoryIdx < 0 {
			// keep a category that is no longer configured
			m.categories = append(m.categories, task.Category)
			m.categoryIdx = len(m.categories) - 1
		}
	}
	m.deadlineInput.SetValue(deadlineInputValue(task.Deadline))
}

// deadlineInputValue renders a stored deadline for editing. Values that do
// not parse are shown as stored.
func deadlineInputValue(v *string) string {
	if v == nil {
		return ""
	}
	t, err := deadline.Parse(*v, time.Local)
	if err != nil {
		return *v
	}
	return t.Format("2006-01-02 15:04")
}

// submitForm processes the form data based on the current mode
func (m *Model) submitForm() {
	title := strings.TrimSpace(m.titleInput.Value())
	desc := strings.TrimSpace(m.descInput.Value())
	category := ""
	if m.categoryIdx >= 0 && m.categoryIdx < len(m.categories) {
		category = m.categories[m.categoryIdx]
	}
	deadlineText := strings.TrimSpace(m.deadlineInput.Value())

	switch m.mode {
	case AddMode:
		var due *time.Time
		if deadlineText != "" {
			t, err := deadline.ParseInput(deadlineText, m.now())
			if err != nil {
				m.err = fmt.Errorf("invalid deadline %q: try 2024-06-20 09:00 or \"tomorrow 5pm\"", deadlineText)
				return
			}
			due = &t
		}

		if _, err := m.store.Create(title, category, desc, due); err != nil {
			m.err = err
			return
		}
		m.session.Flash(auth.FlashTaskAdded)

	case EditMode:
		if err := m.applyEdit(title, desc, category, deadlineText); err != nil {
			m.err = err
			m.loadTasks()
			return
		}
	}

	// Reset state
	m.err = nil
	m.mode = NormalMode
	m.resetInputs()
	m.loadTasks()
}

// applyEdit writes the fields that changed
func (m *Model) applyEdit(title, desc, category, deadlineText string) error {
	if m.taskIndex >= len(m.tasks) {
		return &store.NotFoundError{What: "task", Index: m.taskIndex, Len: len(m.tasks)}
	}
	task := m.tasks[m.taskIndex]

	if title != task.Title {
		if err := m.store.UpdateField(m.taskIndex, store.FieldTitle, title); err != nil {
			return err
		}
	}
	if desc != task.Description {
		if err := m.store.UpdateField(m.taskIndex, store.FieldDescription, desc); err != nil {
			return err
		}
	}
	if category != task.Category {
		if err := m.store.UpdateField(m.taskIndex, store.FieldCategory, category); err != nil {
			return err
		}
	}
	if deadlineText != deadlineInputValue(task.Deadline) {
		var value any
		if deadlineText != "" {
			t, err := deadline.ParseInput(deadlineText, m.now())
			if err != nil {
				return fmt.Errorf("invalid deadline %q", deadlineText)
			}
			value = t
		}
		if err := m.store.UpdateField(m.taskIndex, store.FieldDeadline, value); err != nil {
			return err
		}
	}
	return nil
}

// submitItem adds or edits a checklist item
func (m *Model) submitItem() {
	text := strings.TrimSpace(m.itemInput.Value())

	var err error
	switch m.mode {
	case ItemAddMode:
		if _, err = m.store.AddItem(m.taskIndex, text); err == nil {
			m.session.Flash(auth.FlashItemAdded)
		}
	case ItemEditMode:
		err = m.store.UpdateItemField(m.taskIndex, m.itemIndex, store.ItemText, text)
	}
	if err != nil {
		m.err = err
		return
	}

	m.err = nil
	m.mode = ChecklistMode
	m.itemInput.Reset()
	m.loadTasks()
}

// moveTask moves the selected task within its category and switches to
// the manual order view so the move is visible.
func (m *Model) moveTask(index, delta int) {
	updates := moveWithinCategory(m.tasks, index, delta)
	for _, u := range updates {
		if err := m.store.UpdateField(u.Index, store.FieldOrder, u.Order); err != nil {
			m.err = err
			break
		}
	}
	m.sortBy = store.SortByOrder
	m.loadTasks()
	m.selectTask(index)
}

// moveChecklistItem moves an item and reorders the stored checklist
func (m *Model) moveChecklistItem(itemIndex, delta int) {
	items := m.tasks[m.taskIndex].Checklist
	updates := moveItem(items, itemIndex, delta)
	if updates == nil {
		return
	}
	for _, u := range updates {
		if err := m.store.UpdateItemField(m.taskIndex, u.Index, store.ItemOrder, u.Order); err != nil {
			m.err = err
			m.loadTasks()
			return
		}
	}
	if err := m.store.Reorder(m.taskIndex); err != nil {
		m.err = err
	}
	m.loadTasks()
	m.table.SetCursor(itemIndex + delta)
}
