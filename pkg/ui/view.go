package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"tasklist/pkg/auth"
	"tasklist/pkg/deadline"
	"tasklist/pkg/store"
)

// View renders the UI based on the current mode
func (m Model) View() string {
	var sb strings.Builder

	switch m.mode {
	case LoginMode:
		sb.WriteString(m.titleBar(" Task List ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderFlashes())
		sb.WriteString("Enter password\n\n")
		sb.WriteString(m.passwordInput.View())

	case NormalMode:
		// App Title Bar
		sb.WriteString(m.titleBar(" Task List ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderFlashes())

		if len(m.rows) == 0 && m.err == nil {
			sb.WriteString("No tasks yet. Press " + m.keyMap.AddTask.Help().Key + " to add one.\n")
		} else {
			sb.WriteString(m.table.View())
			sb.WriteString("\n")
		}

		viewInfo := fmt.Sprintf("Showing %d task(s) | sorted by %s", len(m.tasks), m.sortBy)
		if m.sortBy == store.SortByOrder {
			viewInfo = fmt.Sprintf("Showing %d task(s) | manual order", len(m.tasks))
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.NormalTextColor)).Render(viewInfo))
		sb.WriteString("\n")

	case ChecklistMode, ItemAddMode, ItemEditMode, ItemDeleteConfirmMode:
		sb.WriteString(m.renderChecklist())

	case AddMode:
		sb.WriteString(m.titleBar(" Add New Task ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case EditMode:
		sb.WriteString(m.titleBar(" Edit Task ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case DeleteConfirmMode:
		sb.WriteString(m.titleBar(" Delete Task ", m.styles.ErrorColor))
		sb.WriteString("\n\n")

		if m.taskIndex < len(m.tasks) {
			task := m.tasks[m.taskIndex]
			sb.WriteString("Are you sure you want to delete this task?\n\n")
			sb.WriteString(fmt.Sprintf("Title: %s\n", task.Title))
			if task.Description != "" {
				sb.WriteString(fmt.Sprintf("Description: %s\n", task.Description))
			}
			if n := len(task.Checklist); n > 0 {
				sb.WriteString(fmt.Sprintf("Checklist: %d item(s)\n", n))
			}
			sb.WriteString("\n")
			sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Press Y to confirm, N to cancel"))
		}

	case HelpViewMode:
		// Fullscreen commands view
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Available Commands"))
		sb.WriteString("\n\n")

		keyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.styles.AccentColor)).
			Bold(true)
		descStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.styles.NormalTextColor))

		addCommand := func(binding key.Binding) {
			sb.WriteString(fmt.Sprintf("%s: %s\n",
				descStyle.Render(binding.Help().Desc),
				keyStyle.Render(strings.Join(displayKeys(binding), ", "))))
		}
		for _, binding := range m.keyMap.Help() {
			addCommand(binding)
		}

		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Deadline labels"))
		sb.WriteString("\n\n")
		for _, kind := range []deadline.Kind{deadline.Overdue, deadline.DueSoon, deadline.DueToday, deadline.Scheduled, deadline.Invalid} {
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(kindColor(kind, m.styles))).Render(kind.String()))
			sb.WriteString("\n")
		}
	}

	// Error message if any
	if m.err != nil {
		msg := fmt.Sprintf("Error: %v", m.err)
		if errors.Is(m.err, auth.ErrIncorrectPassword) {
			msg = "Incorrect password"
		}
		sb.WriteString("\n\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.ErrorColor)).Render(msg))
	}

	// Add help status bar at the bottom
	sb.WriteString("\n")
	sb.WriteString(m.helpBar())

	return sb.String()
}

func (m Model) titleBar(text, bg string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.styles.SelectedTextColor)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Render(text)
}

func (m Model) renderFlashes() string {
	if len(m.flashes) == 0 {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.SuccessColor))
	var sb strings.Builder
	for _, f := range m.flashes {
		sb.WriteString(style.Render("✓ " + f))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

// renderChecklist renders the checklist of the open task and, in the item
// modes, the input or confirmation below it.
func (m Model) renderChecklist() string {
	var sb strings.Builder
	if m.taskIndex >= len(m.tasks) {
		return ""
	}
	task := m.tasks[m.taskIndex]

	sb.WriteString(m.titleBar(" Checklist: "+task.Title+" ", m.styles.AccentColor))
	sb.WriteString("\n\n")
	sb.WriteString(m.renderFlashes())

	if c := deadline.Classify(task.Deadline, m.now()); c.Label != "" {
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(kindColor(c.Kind, m.styles))).Render(c.Label))
		sb.WriteString("\n")
	}
	if task.Description != "" {
		sb.WriteString(task.Description)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if len(task.Checklist) == 0 {
		sb.WriteString("No checklist items yet.\n")
	} else {
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%d/%d done\n", task.DoneCount(), len(task.Checklist)))
	}

	switch m.mode {
	case ItemAddMode:
		sb.WriteString("\nNew item:\n")
		sb.WriteString(m.itemInput.View())
	case ItemEditMode:
		sb.WriteString("\nEdit item:\n")
		sb.WriteString(m.itemInput.View())
	case ItemDeleteConfirmMode:
		if m.itemIndex < len(task.Checklist) {
			sb.WriteString(fmt.Sprintf("\nDelete %q? ", task.Checklist[m.itemIndex].Text))
			sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Press Y to confirm, N to cancel"))
		}
	}
	return sb.String()
}

// helpBar renders a sleek status bar with available actions
func (m Model) helpBar() string {
	var actions []string

	// Define styles for keys and descriptions
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.AccentColor)).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.NormalTextColor))
	separatorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.BorderColor))

	separator := separatorStyle.Render(" • ")

	addAction := func(b key.Binding, desc string) {
		actions = append(actions, fmt.Sprintf("%s %s", keyStyle.Render(b.Help().Key), descStyle.Render(desc)))
	}
	addLiteral := func(k, desc string) {
		actions = append(actions, fmt.Sprintf("%s %s", keyStyle.Render(k), descStyle.Render(desc)))
	}

	switch m.mode {
	case LoginMode:
		addLiteral("enter", "log in")
		addLiteral("ctrl+c", "quit")

	case NormalMode:
		addAction(m.keyMap.AddTask, "add")
		addAction(m.keyMap.EditTask, "edit")
		addAction(m.keyMap.DeleteTask, "del")
		addAction(m.keyMap.ToggleStatus, "toggle")
		addAction(m.keyMap.OpenChecklist, "checklist")
		addAction(m.keyMap.ToggleSortBy, "sort")
		addLiteral(m.keyMap.MoveUp.Help().Key+"/"+m.keyMap.MoveDown.Help().Key, "move")
		addAction(m.keyMap.ShowHelp, "help")
		if m.gate.Enabled() {
			addAction(m.keyMap.Logout, "logout")
		}
		addAction(m.keyMap.QuitApp, "quit")

	case ChecklistMode:
		addAction(m.keyMap.AddTask, "add item")
		addAction(m.keyMap.EditTask, "edit")
		addAction(m.keyMap.DeleteTask, "del")
		addAction(m.keyMap.ToggleStatus, "toggle")
		addLiteral(m.keyMap.MoveUp.Help().Key+"/"+m.keyMap.MoveDown.Help().Key, "move")
		addAction(m.keyMap.Back, "back")

	case AddMode, EditMode:
		addAction(m.keyMap.NextField, "next field")
		addAction(m.keyMap.CycleCategory, "category")
		addAction(m.keyMap.Submit, "save")
		addAction(m.keyMap.Back, "cancel")

	case ItemAddMode, ItemEditMode:
		addAction(m.keyMap.Submit, "save")
		addAction(m.keyMap.Back, "cancel")

	case DeleteConfirmMode, ItemDeleteConfirmMode:
		addLiteral("y", "confirm")
		addLiteral("n", "cancel")

	case HelpViewMode:
		addAction(m.keyMap.Back, "back")
		addAction(m.keyMap.QuitApp, "quit")
	}

	return strings.Join(actions, separator)
}

// renderForm renders the input form for adding/editing tasks
func (m Model) renderForm() string {
	var sb strings.Builder

	label := func(field int, text string) {
		style := lipgloss.NewStyle()
		if m.activeInput == field {
			style = style.Foreground(lipgloss.Color(m.styles.AccentColor)).Bold(true)
		}
		sb.WriteString(style.Render(text))
		sb.WriteString("\n")
	}

	label(titleField, "Title:")
	sb.WriteString(m.titleInput.View())
	sb.WriteString("\n\n")

	label(descField, "Description:")
	sb.WriteString(m.descInput.View())
	sb.WriteString("\n\n")

	label(categoryField, "Category:")
	category := store.Uncategorized
	if m.categoryIdx >= 0 && m.categoryIdx < len(m.categories) && m.categories[m.categoryIdx] != "" {
		category = m.categories[m.categoryIdx]
	}
	sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.CategoryColor)).Render("< " + category + " >"))
	sb.WriteString("\n\n")

	label(deadlineField, "Deadline:")
	sb.WriteString(m.deadlineInput.View())

	return sb.String()
}

// displayKeys renders a binding's keys for the help view
func displayKeys(b key.Binding) []string {
	keys := make([]string, 0, len(b.Keys()))
	for _, k := range b.Keys() {
		if k == " " {
			k = "space"
		}
		keys = append(keys, k)
	}
	return keys
}
