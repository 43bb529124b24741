package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/pkg/auth"
	"tasklist/pkg/store"
	"tasklist/pkg/utils"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case fileChangedMsg:
		utils.Log("Task file changed on disk, reloading")
		if m.session.LoggedIn {
			m.loadTasks()
		}
		return m, m.waitForChange()

	case watchErrMsg:
		utils.Log("Watcher error: %v", msg.err)
		return m, m.waitForChange()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetWidth(msg.Width - 4)
		m.table.SetHeight(max(msg.Height-8, 3))
		cols := m.table.Columns()
		if len(cols) > 0 {
			cols[0].Width = max(msg.Width-6, 20)
			m.table.SetColumns(cols)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.flashes = nil

		switch m.mode {
		case LoginMode:
			m, cmd = m.updateLogin(msg)
		case NormalMode:
			m, cmd = m.updateNormal(msg)
		case ChecklistMode:
			m, cmd = m.updateChecklist(msg)
		case AddMode, EditMode:
			m, cmd = m.updateForm(msg)
		case ItemAddMode, ItemEditMode:
			m, cmd = m.updateItemForm(msg)
		case DeleteConfirmMode, ItemDeleteConfirmMode:
			m = m.updateConfirm(msg)
		case HelpViewMode:
			switch {
			case key.Matches(msg, m.keyMap.QuitApp):
				return m, tea.Quit
			case key.Matches(msg, m.keyMap.Back), key.Matches(msg, m.keyMap.ShowHelp):
				m.mode = m.prevMode
			}
		}

		m.flashes = append(m.flashes, m.session.TakeFlashes()...)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		err := m.session.Login(m.gate, m.passwordInput.Value())
		m.passwordInput.Reset()
		if errors.Is(err, auth.ErrIncorrectPassword) {
			utils.Log("Login failed")
			m.err = err
			return m, nil
		}
		m.err = nil
		m.mode = NormalMode
		m.loadTasks()
		return m, nil
	}

	var cmd tea.Cmd
	m.passwordInput, cmd = m.passwordInput.Update(msg)
	return m, cmd
}

func (m Model) updateNormal(msg tea.KeyMsg) (Model, tea.Cmd) {
	index, ok := m.selected()

	switch {
	case key.Matches(msg, m.keyMap.QuitApp):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.ShowHelp):
		m.prevMode = NormalMode
		m.mode = HelpViewMode

	case key.Matches(msg, m.keyMap.ToggleStatus):
		if ok {
			m.err = m.store.UpdateField(index, store.FieldCompleted, !m.tasks[index].Completed)
			m.loadTasks()
		}

	case key.Matches(msg, m.keyMap.AddTask):
		m.err = nil
		m.mode = AddMode
		m.resetInputs()

	case key.Matches(msg, m.keyMap.EditTask):
		if ok {
			m.err = nil
			m.startEdit(index)
		}

	case key.Matches(msg, m.keyMap.DeleteTask):
		if ok {
			m.mode = DeleteConfirmMode
			m.taskIndex = index
		}

	case key.Matches(msg, m.keyMap.OpenChecklist):
		if ok {
			m.err = nil
			m.mode = ChecklistMode
			m.taskIndex = index
			m.table.SetCursor(0)
			m.loadTasks()
		}

	case key.Matches(msg, m.keyMap.ToggleSortBy):
		if m.sortBy == store.SortByDeadline {
			m.sortBy = store.SortByOrder
		} else {
			m.sortBy = store.SortByDeadline
		}
		m.loadTasks()
		if ok {
			m.selectTask(index)
		}

	case key.Matches(msg, m.keyMap.MoveUp):
		if ok {
			m.moveTask(index, -1)
		}

	case key.Matches(msg, m.keyMap.MoveDown):
		if ok {
			m.moveTask(index, 1)
		}

	case key.Matches(msg, m.keyMap.Reload):
		m.err = nil
		m.loadTasks()

	case key.Matches(msg, m.keyMap.Logout):
		if m.gate.Enabled() {
			m.session.Logout()
			m.mode = LoginMode
			m.err = nil
			m.tasks = nil
			m.setRows(nil, nil)
			m.passwordInput.Reset()
			m.passwordInput.Focus()
		}

	default:
		return m.moveCursor(msg)
	}

	return m, nil
}

func (m Model) updateChecklist(msg tea.KeyMsg) (Model, tea.Cmd) {
	itemIndex, ok := m.selected()

	switch {
	case key.Matches(msg, m.keyMap.QuitApp):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.ShowHelp):
		m.prevMode = ChecklistMode
		m.mode = HelpViewMode

	case key.Matches(msg, m.keyMap.Back):
		m.err = nil
		m.mode = NormalMode
		m.loadTasks()
		m.selectTask(m.taskIndex)

	case key.Matches(msg, m.keyMap.AddTask):
		m.err = nil
		m.mode = ItemAddMode
		m.itemInput.Reset()
		m.itemInput.Focus()

	case key.Matches(msg, m.keyMap.EditTask):
		if ok {
			m.err = nil
			m.mode = ItemEditMode
			m.itemIndex = itemIndex
			m.itemInput.SetValue(m.tasks[m.taskIndex].Checklist[itemIndex].Text)
			m.itemInput.Focus()
		}

	case key.Matches(msg, m.keyMap.DeleteTask):
		if ok {
			m.mode = ItemDeleteConfirmMode
			m.itemIndex = itemIndex
		}

	case key.Matches(msg, m.keyMap.ToggleStatus):
		if ok {
			done := m.tasks[m.taskIndex].Checklist[itemIndex].Done
			m.err = m.store.UpdateItemField(m.taskIndex, itemIndex, store.ItemDone, !done)
			m.loadTasks()
		}

	case key.Matches(msg, m.keyMap.MoveUp):
		if ok {
			m.moveChecklistItem(itemIndex, -1)
		}

	case key.Matches(msg, m.keyMap.MoveDown):
		if ok {
			m.moveChecklistItem(itemIndex, 1)
		}

	case key.Matches(msg, m.keyMap.Reload):
		m.err = nil
		m.loadTasks()

	default:
		return m.moveCursor(msg)
	}

	return m, nil
}

// moveCursor hands navigation keys to the table and steps over headers
func (m Model) moveCursor(msg tea.KeyMsg) (Model, tea.Cmd) {
	before := m.table.Cursor()
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	dir := 1
	if m.table.Cursor() < before {
		dir = -1
	}
	m.skipUnselectable(dir)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Back):
		m.err = nil
		m.mode = NormalMode
		m.resetInputs()
		return m, nil

	case key.Matches(msg, m.keyMap.NextField):
		m.focusNextInput()
		return m, nil

	case key.Matches(msg, m.keyMap.PrevField):
		m.focusPreviousInput()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		// Submit on enter from the last field
		if m.activeInput == deadlineField {
			m.submitForm()
		} else {
			m.focusNextInput()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.CycleCategory):
		m.cycleCategory(1)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.activeInput {
	case titleField:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case descField:
		m.descInput, cmd = m.descInput.Update(msg)
	case categoryField:
		switch msg.String() {
		case "right", "l", " ":
			m.cycleCategory(1)
		case "left", "h":
			m.cycleCategory(-1)
		}
	case deadlineField:
		m.deadlineInput, cmd = m.deadlineInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateItemForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Back):
		m.err = nil
		m.mode = ChecklistMode
		m.itemInput.Reset()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		m.submitItem()
		return m, nil
	}

	var cmd tea.Cmd
	m.itemInput, cmd = m.itemInput.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) Model {
	back := NormalMode
	if m.mode == ItemDeleteConfirmMode {
		back = ChecklistMode
	}

	switch msg.String() {
	case "y", "Y":
		var err error
		if m.mode == ItemDeleteConfirmMode {
			utils.Log("Deleting checklist item %d.%d", m.taskIndex, m.itemIndex)
			err = m.store.DeleteItem(m.taskIndex, m.itemIndex)
		} else {
			utils.Log("Deleting task %d", m.taskIndex)
			err = m.store.Delete(m.taskIndex)
			if err == nil {
				m.session.Flash(auth.FlashTaskDeleted)
			}
		}
		m.err = err
		m.mode = back
		m.loadTasks()

	case "n", "N", "esc":
		m.mode = back
	}
	return m
}
