package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"tasklist/pkg/auth"
	"tasklist/pkg/config"
	"tasklist/pkg/keymaps"
	"tasklist/pkg/store"
)

// InputMode represents the current input mode
type InputMode int

const (
	NormalMode InputMode = iota
	LoginMode
	AddMode
	EditMode
	DeleteConfirmMode
	ChecklistMode
	ItemAddMode
	ItemEditMode
	ItemDeleteConfirmMode
	HelpViewMode
)

// form fields, in tab order
const (
	titleField = iota
	descField
	categoryField
	deadlineField
	fieldCount
)

// Model represents the application state
type Model struct {
	table table.Model
	rows  []rowRef // what each table row shows
	tasks []store.Task
	store *store.Store
	width int
	err   error

	// Session
	gate    *auth.Gate
	session *auth.Session
	flashes []string

	// Configuration
	config config.Config
	styles config.Styles
	keyMap keymaps.KeyMap
	now    func() time.Time

	// View state
	sortBy   store.SortBy
	mode     InputMode
	prevMode InputMode // mode to return to from the help view

	// Form state
	passwordInput textinput.Model
	titleInput    textinput.Model
	descInput     textinput.Model
	deadlineInput textinput.Model
	itemInput     textinput.Model
	categories    []string // choices for the category field, "" first
	categoryIdx   int
	activeInput   int

	// Edit/delete state. taskIndex is also the task whose checklist is open.
	taskIndex int
	itemIndex int

	watcher   *fsnotify.Watcher
	watchFile string
}

// NewModel creates a new UI model over the store. When the gate is enabled
// the model starts at the login prompt.
func NewModel(s *store.Store, gate *auth.Gate, cfg config.Config, styles config.Styles) Model {
	// Create an empty column - the title will be empty to avoid showing a header
	columns := []table.Column{
		{Title: "", Width: 72},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	// Set table styles using the loaded styles
	ts := table.DefaultStyles()
	// Remove the header border and styling to make it invisible
	ts.Header = ts.Header.
		BorderStyle(lipgloss.HiddenBorder()).
		BorderBottom(false).
		Bold(false).
		Foreground(lipgloss.NoColor{})

	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.SelectedTextColor)).
		Background(lipgloss.Color(styles.SelectedBgColor)).
		Bold(true)
	t.SetStyles(ts)

	// space pages down by default, it toggles tasks here
	t.KeyMap.PageDown = key.NewBinding(key.WithKeys("pgdown", "f"), key.WithHelp("f/pgdn", "page down"))

	passwordInput := textinput.New()
	passwordInput.Placeholder = "Password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '•'
	passwordInput.Width = 40
	passwordInput.Focus()

	titleInput := textinput.New()
	titleInput.Placeholder = "Title"
	titleInput.Width = 40

	descInput := textinput.New()
	descInput.Placeholder = "Description (optional)"
	descInput.Width = 40

	deadlineInput := textinput.New()
	deadlineInput.Placeholder = "e.g. 2024-06-20 09:00, tomorrow 5pm (optional)"
	deadlineInput.Width = 40

	itemInput := textinput.New()
	itemInput.Placeholder = "Checklist item"
	itemInput.Width = 40

	m := Model{
		table:         t,
		store:         s,
		gate:          gate,
		session:       auth.NewSession(gate),
		config:        cfg,
		styles:        styles,
		keyMap:        keymaps.BuildKeyMap(cfg.KeyMap),
		now:           time.Now,
		sortBy:        store.SortByDeadline,
		mode:          NormalMode,
		passwordInput: passwordInput,
		titleInput:    titleInput,
		descInput:     descInput,
		deadlineInput: deadlineInput,
		itemInput:     itemInput,
	}

	if !m.session.LoggedIn {
		m.mode = LoginMode
		return m
	}

	// Load initial data
	m.loadTasks()
	return m
}

// Init initializes the model (required by Bubble Tea Model interface)
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForChange())
}

// resetInputs clears all form inputs
func (m *Model) resetInputs() {
	m.titleInput.Reset()
	m.descInput.Reset()
	m.deadlineInput.Reset()
	m.itemInput.Reset()
	m.categories = append([]string{""}, m.store.Categories()...)
	m.categoryIdx = 0

	m.activeInput = titleField
	m.titleInput.Focus()
	m.descInput.Blur()
	m.deadlineInput.Blur()
}

// Mode returns the current input mode
func (m Model) Mode() InputMode {
	return m.mode
}
