package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/spec-kit/fanfund/internal/output"
	"github.com/spec-kit/fanfund/internal/platform"
	"github.com/spec-kit/fanfund/internal/session"
)

const passwordEnv = "FANFUND_PASSWORD"

func credentialFlags(cmd *cobra.Command) {
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password (default $"+passwordEnv+")")
}

func readCredentials(cmd *cobra.Command) (platform.Credentials, error) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv(passwordEnv)
	}
	if email == "" || password == "" {
		return platform.Credentials{}, usageError("--email and --password are required")
	}
	return platform.Credentials{Email: email, Password: password}, nil
}

func newLoginCommand(app *App, store *session.Store, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := readCredentials(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd, app)
			defer cancel()

			sess, err := store.Login(ctx, creds)
			if err != nil {
				return err
			}
			app.Printer.Success("Logged in as %s (%s)", sess.DisplayName, roleLabel(sess))
			return nil
		},
	}
	credentialFlags(cmd)
	return cmd
}

func newLogoutCommand(app *App, store *session.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session and revoke its token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd, app)
			defer cancel()
			if err := store.Logout(ctx); err != nil {
				return err
			}
			app.Printer.Success("Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(app *App, store *session.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return guarded(cmd, app, store, func(_ context.Context, s *session.Session) error {
				table := output.NewTable(app.Printer.Out(), []string{"FIELD", "VALUE"})
				table.AddRow("id", s.SubjectID)
				table.AddRow("username", s.DisplayName)
				table.AddRow("email", s.Email)
				table.AddRow("role", roleLabel(s))
				return table.Render()
			})
		},
	}
}

func newRegisterCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := readCredentials(cmd)
			if err != nil {
				return err
			}
			username, _ := cmd.Flags().GetString("username")
			role, _ := cmd.Flags().GetString("role")
			if username == "" {
				return usageError("--username is required")
			}

			ctx, cancel := withTimeout(cmd, app)
			defer cancel()
			if _, err := app.API.Register(ctx, platform.RegisterRequest{
				Username: username,
				Email:    creds.Email,
				Password: creds.Password,
				Role:     role,
			}); err != nil {
				return err
			}

			sess, err := app.User.Login(ctx, creds)
			if err != nil {
				return err
			}
			app.Printer.Success("Registered %s (%s)", sess.DisplayName, roleLabel(sess))
			return nil
		},
	}
	credentialFlags(cmd)
	cmd.Flags().String("username", "", "public username")
	cmd.Flags().String("role", "fan", "artist, investor, label or fan")
	return cmd
}

func roleLabel(s *session.Session) string {
	label := s.RoleName
	if label == "" {
		label = s.Role.String()
	}
	if s.Admin {
		label += ", admin"
	}
	return label
}
