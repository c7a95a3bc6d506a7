package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage your tag set",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			tags, err := app.Tags.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				cmd.Println("No tags yet.")
				return nil
			}

			cmd.Printf("%-26s %-20s %-8s %s\n", "ID", "NAME", "USES", "COLOR")
			cmd.Println(strings.Repeat("-", 64))
			for _, tag := range tags {
				cmd.Printf("%-26s %-20s %-8d %s\n", tag.ID, tag.Name, tag.UsageCount, tag.Color)
			}
			return nil
		},
	}

	cmd.AddCommand(
		newTagAddCmd(app),
		newTagRenameCmd(app),
		newTagRmCmd(app),
		newTagSuggestCmd(app),
	)
	return cmd
}

func newTagAddCmd(app *App) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag (or fetch it if it already exists)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			tag, err := app.Tags.Upsert(cmd.Context(), args[0], color)
			if err != nil {
				return err
			}
			cmd.Printf("Tag %s (%s)\n", tag.Name, tag.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Display color, e.g. #2DD4BF")
	return cmd
}

func newTagRenameCmd(app *App) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			tag, err := app.Tags.Update(cmd.Context(), args[0], args[1], color)
			if err != nil {
				return err
			}
			cmd.Printf("Tag renamed to %s\n", tag.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Display color")
	return cmd
}

func newTagRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tag (airdrops keep their tag strings)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}
			if err := app.Tags.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("Deleted tag %s\n", args[0])
			return nil
		},
	}
}

func newTagSuggestCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Complete a tag-name prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			tags, err := app.Tags.Suggestions(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			for _, tag := range tags {
				cmd.Println(tag.Name)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum suggestions")
	return cmd
}
