package commands

import (
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// SetVersion sets the build information shown by the version command.
func SetVersion(v, c string) {
	version = v
	commit = c
}

// NewRootCmd builds the full command tree over the wired App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "droplog",
		Short: "Track crypto airdrops and their tasks from the terminal",
		Long: `droplog is a terminal client for an airdrop-tracker backend.
Sign in once, then browse your airdrops, work through daily tasks, and
manage tags without leaving the shell.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newSignupCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newPasswdCmd(app),
		newProfileCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newAddCmd(app),
		newEditCmd(app),
		newRmCmd(app),
		newTasksCmd(app),
		newTaskCmd(app),
		newTagsCmd(app),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("droplog %s (%s)\n", version, commit)
		},
	}
}

// Execute runs the root command.
func Execute(app *App) error {
	return NewRootCmd(app).Execute()
}
