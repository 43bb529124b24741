package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tasklist/pkg/commands"
	"tasklist/pkg/server"
	"tasklist/pkg/store"
)

func (a *app) addCommand() *cobra.Command {
	var opts commands.AddOptions

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task; opens a form when no title is given",
		Long: `Add a task. A +Category tag in the title sets the category when
--category is not given. Deadlines accept 2024-06-20, 2024-06-20 09:00 or
natural language such as "tomorrow 5pm".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Title = strings.Join(args, " ")
			if strings.TrimSpace(opts.Title) == "" {
				form, err := commands.RunAddForm(a.store.Categories(), a.now())
				if errors.Is(err, commands.ErrCancelled) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				if err != nil {
					return err
				}
				opts = form
			}
			_, err := commands.HandleAddTask(a.store, cmd.OutOrStdout(), opts, a.now())
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "task category")
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&opts.Deadline, "deadline", "", "deadline, e.g. 2024-06-20 09:00 or \"tomorrow 5pm\"")
	return cmd
}

func (a *app) listCommand() *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks grouped by category",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			by, err := store.ParseSortBy(sortBy)
			if err != nil {
				return err
			}
			return commands.HandleList(a.store, cmd.OutOrStdout(), by, a.now())
		},
	}
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "deadline", "sort within categories: deadline or order")
	return cmd
}

func (a *app) doneCommand(done bool) *cobra.Command {
	use, short := "done <index>", "Mark a task done"
	if !done {
		use, short = "undone <index>", "Mark a task not done"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := commands.ParseIndex("task", args[0])
			if err != nil {
				return err
			}
			return commands.HandleSetDone(a.store, cmd.OutOrStdout(), index, done)
		},
	}
}

func (a *app) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <index> <field> <value>",
		Short: "Set one field of a task",
		Long: `Set one field of a task. Fields: title, description, category,
completed, deadline, order. Use "none" to clear a deadline.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := commands.ParseIndex("task", args[0])
			if err != nil {
				return err
			}
			value := strings.Join(args[2:], " ")
			return commands.HandleEdit(a.store, cmd.OutOrStdout(), index, args[1], value, a.now())
		},
	}
}

func (a *app) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := commands.ParseIndex("task", args[0])
			if err != nil {
				return err
			}
			return commands.HandleRemove(a.store, cmd.OutOrStdout(), index)
		},
	}
}

func (a *app) checkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Manage the checklist of a task",
	}

	// indices parses the leading task and item indices
	indices := func(args []string, n int) ([]int, error) {
		names := []string{"task", "item"}
		out := make([]int, n)
		for i := 0; i < n; i++ {
			v, err := commands.ParseIndex(names[i], args[i])
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <task> <text>",
			Short: "Add a checklist item",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				idx, err := indices(args, 1)
				if err != nil {
					return err
				}
				return commands.HandleCheckAdd(a.store, cmd.OutOrStdout(), idx[0], strings.Join(args[1:], " "))
			},
		},
		&cobra.Command{
			Use:   "toggle <task> <item>",
			Short: "Toggle a checklist item",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				idx, err := indices(args, 2)
				if err != nil {
					return err
				}
				return commands.HandleCheckToggle(a.store, cmd.OutOrStdout(), idx[0], idx[1])
			},
		},
		&cobra.Command{
			Use:   "edit <task> <item> <text>",
			Short: "Change the text of a checklist item",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				idx, err := indices(args, 2)
				if err != nil {
					return err
				}
				return commands.HandleCheckEdit(a.store, cmd.OutOrStdout(), idx[0], idx[1], strings.Join(args[2:], " "))
			},
		},
		&cobra.Command{
			Use:     "rm <task> <item>",
			Aliases: []string{"remove"},
			Short:   "Delete a checklist item",
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				idx, err := indices(args, 2)
				if err != nil {
					return err
				}
				return commands.HandleCheckRemove(a.store, cmd.OutOrStdout(), idx[0], idx[1])
			},
		},
		&cobra.Command{
			Use:   "order <task> <item> <order>",
			Short: "Set the order of a checklist item and re-sort the checklist",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				idx, err := indices(args, 2)
				if err != nil {
					return err
				}
				order, err := commands.ParseIndex("order", args[2])
				if err != nil {
					return err
				}
				return commands.HandleCheckOrder(a.store, cmd.OutOrStdout(), idx[0], idx[1], order)
			},
		},
	)
	return cmd
}

func (a *app) exportCommand() *cobra.Command {
	var exportType string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export tasks as JSON or text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.HandleExportCommand(a.store, cmd.OutOrStdout(), args[0], exportType)
		},
	}
	cmd.Flags().StringVarP(&exportType, "type", "t", "json", "export format: json or txt")
	return cmd
}

func (a *app) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append tasks from a JSON document or text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.HandleImportCommand(a.store, cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) purgeCommand() *cobra.Command {
	var filter commands.PurgeFilter
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete tasks matching a filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter.DoneOnly && filter.UndoneOnly {
				return fmt.Errorf("--done and --undone are mutually exclusive")
			}
			return commands.HandlePurge(a.store, cmd.OutOrStdout(), cmd.InOrStdin(), filter, yes)
		},
	}
	cmd.Flags().StringVar(&filter.Category, "category", "", "only tasks in this category")
	cmd.Flags().BoolVar(&filter.DoneOnly, "done", false, "only completed tasks")
	cmd.Flags().BoolVar(&filter.UndoneOnly, "undone", false, "only tasks not completed")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func (a *app) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", a.store.Backend(), addr)
			return server.New(a.store, a.gate).Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
