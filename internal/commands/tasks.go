package commands

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sakif/droplog/internal/listview"
	"github.com/sakif/droplog/internal/model"
	"github.com/sakif/droplog/internal/tui"
)

func newTasksCmd(app *App) *cobra.Command {
	var today, plain bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Browse your tasks",
		Long:  "Browse your tasks in an interactive view. Space toggles completion; --today shows only daily tasks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			if plain {
				return runTasksPlain(app, cmd, today)
			}

			board := listview.NewTaskBoard(app.Tasks, app.Logger)
			program := tea.NewProgram(tui.NewTasksModel(board, app.Tasks, today), tea.WithAltScreen())
			_, err := program.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&today, "today", false, "Show only today's daily tasks")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print a table instead of the interactive view")
	return cmd
}

func runTasksPlain(app *App, cmd *cobra.Command, today bool) error {
	var (
		tasks []model.Task
		err   error
	)
	if today {
		tasks, err = app.Tasks.Today(cmd.Context())
	} else {
		tasks, err = app.Tasks.List(cmd.Context())
	}
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		cmd.Println("No tasks found.")
		return nil
	}

	cmd.Printf("%-26s %-4s %-40s %-16s %s\n", "ID", "", "TITLE", "PROJECT", "PRIORITY")
	cmd.Println(strings.Repeat("-", 96))
	for _, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		title := t.Title
		if len(title) > 38 {
			title = title[:35] + "..."
		}
		cmd.Printf("%-26s %-4s %-40s %-16s %s\n", t.ID, check, title, t.Project, t.Priority)
	}
	return nil
}

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, toggle, and delete tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskToggleCmd(app),
		newTaskRmCmd(app),
		newTaskStatsCmd(app),
		newTaskImportCmd(app),
	)
	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var project, category, priority, description string
	var daily bool

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			created, err := app.Tasks.Create(cmd.Context(), &model.Task{
				Title:       args[0],
				Project:     project,
				Category:    category,
				Priority:    model.AirdropPriority(priority),
				Description: description,
				IsDaily:     daily,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Added task %s (%s)\n", created.Title, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project / airdrop name")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category (defaults to general)")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityMedium), "Priority: High, Medium, Low")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().BoolVar(&daily, "daily", false, "Recurring daily task")
	return cmd
}

func newTaskToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task's completion state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			updated, err := app.Tasks.Toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if updated.Completed {
				cmd.Printf("Done: %s\n", updated.Title)
			} else {
				cmd.Printf("Reopened: %s\n", updated.Title)
			}
			return nil
		},
	}
}

func newTaskRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}
			if err := app.Tasks.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("Deleted task %s\n", args[0])
			return nil
		},
	}
}

func newTaskStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task completion counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			stats, err := app.Tasks.Stats(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("total:   %d done / %d\n", stats.Completed, stats.Total)
			cmd.Printf("pending: %d\n", stats.Pending)
			cmd.Printf("daily:   %d done / %d\n", stats.DailyCompleted, stats.DailyTotal)
			return nil
		},
	}
}

func newTaskImportCmd(app *App) *cobra.Command {
	var project, category string
	var daily bool

	cmd := &cobra.Command{
		Use:   "import <title>...",
		Short: "Create several tasks in one request",
		Long:  "Create several tasks in one request, e.g. importing an airdrop's checklist.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			tasks := make([]model.Task, 0, len(args))
			for _, title := range args {
				tasks = append(tasks, model.Task{
					Title:    title,
					Project:  project,
					Category: category,
					IsDaily:  daily,
				})
			}

			created, err := app.Tasks.BulkCreate(cmd.Context(), tasks)
			if err != nil {
				return err
			}
			cmd.Printf("Imported %d tasks\n", len(created))
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project / airdrop name")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category for every imported task")
	cmd.Flags().BoolVar(&daily, "daily", false, "Mark every imported task as daily")
	return cmd
}
