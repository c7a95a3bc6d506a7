package commands

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sakif/droplog/internal/listview"
	"github.com/sakif/droplog/internal/model"
	"github.com/sakif/droplog/internal/service"
	"github.com/sakif/droplog/internal/tui"
)

func newListCmd(app *App) *cobra.Command {
	var plain bool
	var status, ecosystem, kind string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Browse your airdrops",
		Long:    "Browse your airdrops in an interactive view, or print them with --plain.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			if plain {
				return runListPlain(app, cmd, status, ecosystem, kind)
			}

			board := listview.NewAirdropBoard(app.Airdrops, app.Logger)
			board.SetFilter(listview.AirdropFilter{
				Status:    status,
				Ecosystem: ecosystem,
				Type:      kind,
			})
			program := tea.NewProgram(tui.NewAirdropsModel(board, app.Airdrops), tea.WithAltScreen())
			_, err := program.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print a table instead of the interactive view")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status: Farming, Claimable, Completed, Upcoming")
	cmd.Flags().StringVarP(&ecosystem, "ecosystem", "E", "", "Filter by ecosystem")
	cmd.Flags().StringVarP(&kind, "type", "t", "", "Filter by type")
	return cmd
}

func runListPlain(app *App, cmd *cobra.Command, status, ecosystem, kind string) error {
	airdrops, err := app.Airdrops.List(cmd.Context(), service.AirdropListFilter{
		Status:    model.AirdropStatus(status),
		Ecosystem: ecosystem,
		Type:      kind,
	})
	if err != nil {
		return err
	}
	if len(airdrops) == 0 {
		cmd.Println("No airdrops found. Use 'droplog add \"name\"' to track your first one.")
		return nil
	}

	cmd.Printf("%-26s %-36s %-10s %-12s %-8s %s\n", "ID", "NAME", "STATUS", "ECOSYSTEM", "PROG", "TAGS")
	cmd.Println(strings.Repeat("-", 100))
	for _, a := range airdrops {
		name := a.Name
		if len(name) > 34 {
			name = name[:31] + "..."
		}
		cmd.Printf("%-26s %-36s %-10s %-12s %6.0f%% %s\n",
			a.ID, name, a.Status, a.Ecosystem, a.Progress(), strings.Join(a.Tags, ","))
	}
	return nil
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one airdrop in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			a, err := app.Airdrops.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			cmd.Printf("%s  [%s]\n", a.Name, a.Status)
			if a.Description != "" {
				cmd.Println(a.Description)
			}
			cmd.Printf("ecosystem: %s   type: %s   priority: %s\n", a.Ecosystem, a.Type, a.Priority)
			if a.EstimatedValue != "" {
				cmd.Printf("estimated value: %s\n", a.EstimatedValue)
			}
			if a.Deadline != "" {
				cmd.Printf("deadline: %s\n", a.Deadline)
			}
			if a.TotalTasks > 0 {
				cmd.Printf("tasks: %d/%d (%.0f%%)\n", a.TasksCompleted, a.TotalTasks, a.Progress())
			}
			if len(a.Tags) > 0 {
				cmd.Printf("tags: %s\n", strings.Join(a.Tags, ", "))
			}
			if a.OfficialLink != "" {
				cmd.Printf("link: %s\n", a.OfficialLink)
			}
			if a.Notes != "" {
				cmd.Printf("\nnotes:\n%s\n", a.Notes)
			}
			return nil
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	var (
		description, ecosystem, kind, status, priority string
		deadline, value, link, notes, symbol           string
		tags                                           []string
		daily                                          bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Track a new airdrop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			created, err := app.Airdrops.Create(cmd.Context(), &model.Airdrop{
				Name:           args[0],
				Description:    description,
				Ecosystem:      ecosystem,
				Type:           kind,
				Status:         model.AirdropStatus(status),
				Priority:       model.AirdropPriority(priority),
				Deadline:       deadline,
				EstimatedValue: value,
				OfficialLink:   link,
				Notes:          notes,
				TokenSymbol:    symbol,
				Tags:           tags,
				IsDailyTask:    daily,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Added %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Short description")
	cmd.Flags().StringVarP(&ecosystem, "ecosystem", "E", "", "Ecosystem (Ethereum, Solana, ...)")
	cmd.Flags().StringVarP(&kind, "type", "t", "", "Type (Testnet, Mainnet, NFT, ...)")
	cmd.Flags().StringVarP(&status, "status", "s", string(model.StatusFarming), "Lifecycle status")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(model.PriorityMedium), "Priority: High, Medium, Low")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline")
	cmd.Flags().StringVar(&value, "value", "", "Estimated value")
	cmd.Flags().StringVar(&link, "link", "", "Official link")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Token symbol")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Tags (repeat or comma-separate)")
	cmd.Flags().BoolVar(&daily, "daily", false, "Has a recurring daily task")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var (
		name, description, ecosystem, kind, status, priority string
		deadline, value, link, notes                         string
		tags                                                 []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an airdrop",
		Long:  "Edit an airdrop. Unset flags keep their current value; the whole record is sent back, so concurrent edits resolve last-write-wins.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			current, err := app.Airdrops.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				current.Name = name
			}
			if flags.Changed("description") {
				current.Description = description
			}
			if flags.Changed("ecosystem") {
				current.Ecosystem = ecosystem
			}
			if flags.Changed("type") {
				current.Type = kind
			}
			if flags.Changed("status") {
				current.Status = model.AirdropStatus(status)
			}
			if flags.Changed("priority") {
				current.Priority = model.AirdropPriority(priority)
			}
			if flags.Changed("deadline") {
				current.Deadline = deadline
			}
			if flags.Changed("value") {
				current.EstimatedValue = value
			}
			if flags.Changed("link") {
				current.OfficialLink = link
			}
			if flags.Changed("notes") {
				current.Notes = notes
			}
			if flags.Changed("tags") {
				current.Tags = tags
			}

			updated, err := app.Airdrops.Update(cmd.Context(), args[0], current)
			if err != nil {
				return err
			}
			cmd.Printf("Updated %s [%s]\n", updated.Name, updated.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Short description")
	cmd.Flags().StringVarP(&ecosystem, "ecosystem", "E", "", "Ecosystem")
	cmd.Flags().StringVarP(&kind, "type", "t", "", "Type")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Lifecycle status")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: High, Medium, Low")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline")
	cmd.Flags().StringVar(&value, "value", "", "Estimated value")
	cmd.Flags().StringVar(&link, "link", "", "Official link")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Tags (full replacement set)")
	return cmd
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Stop tracking an airdrop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}
			if err := app.Airdrops.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}

