// Package cli builds the tasklist command tree. With no subcommand it
// starts the terminal UI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tasklist/pkg/auth"
	"tasklist/pkg/config"
	"tasklist/pkg/store"
	"tasklist/pkg/ui"
	"tasklist/pkg/utils"
)

// app is the state shared by every command of one invocation
type app struct {
	configPath string
	verbose    bool

	cfg    config.Config
	styles config.Styles
	store  *store.Store
	gate   *auth.Gate
	close  func() error
	now    func() time.Time
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	root := NewRootCommand()
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:           "tasklist",
		Short:         "Categorized tasks with deadlines and checklists",
		Long:          `A task list with categories, deadlines and checklists, usable as a terminal UI, from scripts, or over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUI()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(
		a.addCommand(),
		a.listCommand(),
		a.doneCommand(true),
		a.doneCommand(false),
		a.editCommand(),
		a.removeCommand(),
		a.checkCommand(),
		a.exportCommand(),
		a.importCommand(),
		a.purgeCommand(),
		a.serveCommand(),
	)
	return root
}

func (a *app) setup() error {
	utils.InitLogger(a.verbose)

	cfg, styles, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg, a.styles = cfg, styles
	a.gate = auth.NewGate(cfg.Password)

	s, closeFn, err := openStore(cfg)
	if err != nil {
		return err
	}
	a.store, a.close = s, closeFn
	utils.Log("Using storage %s", s.Backend())
	return nil
}

func (a *app) teardown() error {
	defer utils.CloseLogger()
	if a.close == nil {
		return nil
	}
	err := a.close()
	a.close = nil
	return err
}

// openStore picks the backend named by the storage config. For sqlite an
// empty dsn means the configured path with a .db extension.
func openStore(cfg config.Config) (*store.Store, func() error, error) {
	opts := store.Options{Categories: cfg.Categories}
	noop := func() error { return nil }

	switch driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)); driver {
	case "", "file", "json":
		b, err := store.NewFileBackend(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return store.New(b, opts), noop, nil

	case "sqlite", "sqlite3":
		dsn := cfg.Storage.DSN
		if dsn == "" {
			dsn = strings.TrimSuffix(cfg.Storage.Path, filepath.Ext(cfg.Storage.Path)) + ".db"
		}
		b, err := store.OpenSQL("sqlite3", dsn)
		if err != nil {
			return nil, nil, err
		}
		return store.New(b, opts), b.Close, nil

	case "postgres", "postgresql":
		if cfg.Storage.DSN == "" {
			return nil, nil, fmt.Errorf("storage.dsn is required for the postgres driver")
		}
		b, err := store.OpenSQL("postgres", cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store.New(b, opts), b.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q (want file, sqlite or postgres)", cfg.Storage.Driver)
	}
}

func (a *app) runUI() error {
	m := ui.NewModel(a.store, a.gate, a.cfg, a.styles)
	if err := m.Watch(); err != nil {
		// the UI still works, it just won't notice outside edits
		utils.Log("File watching disabled: %v", err)
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
