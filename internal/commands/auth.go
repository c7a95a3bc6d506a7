package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/droplog/internal/model"
	"github.com/sakif/droplog/internal/service"
	"github.com/sakif/droplog/internal/session"
)

// promptSecret reads one line from stdin. Passwords never travel through
// argv, where they would leak into shell history and the process table.
func promptSecret(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", label, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newSignupCmd(app *App) *cobra.Command {
	var first, last, email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptSecret("password")
			if err != nil {
				return err
			}
			confirm, err := promptSecret("confirm password")
			if err != nil {
				return err
			}

			user, err := app.Session.SignUp(cmd.Context(), session.SignUpInput{
				FirstName:       first,
				LastName:        last,
				Email:           email,
				Password:        password,
				ConfirmPassword: confirm,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Signed up and logged in as %s\n", user.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address")
	cmd.MarkFlagRequired("first")
	cmd.MarkFlagRequired("last")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptSecret("password")
			if err != nil {
				return err
			}

			user, err := app.Session.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			cmd.Printf("Logged in as %s\n", user.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Rehydrate first so the remote logout carries the token; local
			// state clears regardless of what the backend says.
			_ = app.Session.Initialize(cmd.Context())
			app.Session.SignOut(cmd.Context())
			cmd.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}
			user := app.Session.User()
			cmd.Printf("%s <%s>\n", user.DisplayName(), user.Email)
			if user.Username != "" {
				cmd.Printf("username: %s\n", user.Username)
			}
			return nil
		},
	}
}

func newPasswdCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			current, err := promptSecret("current password")
			if err != nil {
				return err
			}
			next, err := promptSecret("new password")
			if err != nil {
				return err
			}
			confirm, err := promptSecret("confirm new password")
			if err != nil {
				return err
			}

			if err := app.Session.UpdatePassword(cmd.Context(), current, next, confirm); err != nil {
				return err
			}
			cmd.Println("Password updated.")
			return nil
		},
	}
}

func newProfileCmd(app *App) *cobra.Command {
	var first, last, username, avatar string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the profile record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			// Unset flags inherit the current value; an explicitly empty
			// flag clears the field.
			current := app.Session.User()
			update := serviceProfileUpdate(current, cmd, first, last, username, avatar)

			user, err := app.Users.UpdateProfile(cmd.Context(), update)
			if err != nil {
				return err
			}
			cmd.Printf("Profile updated: %s\n", user.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")
	cmd.Flags().StringVar(&username, "username", "", "Display username (empty clears it)")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL (empty clears it)")
	return cmd
}

// serviceProfileUpdate merges the explicitly-set flags over the current user
// record. The backend treats empty string as "clear", so only flags the user
// did not pass fall back to the existing value.
func serviceProfileUpdate(current *model.User, cmd *cobra.Command, first, last, username, avatar string) service.ProfileUpdate {
	update := service.ProfileUpdate{
		FirstName: current.FirstName,
		LastName:  current.LastName,
		Username:  current.Username,
		Avatar:    current.Avatar,
	}
	if cmd.Flags().Changed("first") {
		update.FirstName = first
	}
	if cmd.Flags().Changed("last") {
		update.LastName = last
	}
	if cmd.Flags().Changed("username") {
		update.Username = username
	}
	if cmd.Flags().Changed("avatar") {
		update.Avatar = avatar
	}
	return update
}
