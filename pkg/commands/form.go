package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
)

// ErrCancelled is returned when the user aborts the add form
var ErrCancelled = errors.New("cancelled")

// RunAddForm collects a new task interactively. The deadline field takes
// the same input as --deadline.
func RunAddForm(categories []string, now time.Time) (AddOptions, error) {
	var opts AddOptions

	categoryOptions := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, c := range categories {
		categoryOptions = append(categoryOptions, huh.NewOption(c, c))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("What needs doing (required)").
				Value(&opts.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),

			huh.NewText().
				Title("Description").
				Description("Optional details").
				CharLimit(5000).
				Value(&opts.Description),

			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions...).
				Value(&opts.Category),

			huh.NewInput().
				Title("Deadline").
				Description("Optional, e.g. 2024-06-20 09:00, tomorrow 5pm, next friday").
				Value(&opts.Deadline).
				Validate(func(s string) error {
					_, err := ParseDeadline(s, now)
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return AddOptions{}, ErrCancelled
		}
		return AddOptions{}, fmt.Errorf("form error: %w", err)
	}
	return opts, nil
}
