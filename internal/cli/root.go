package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/spec-kit/fanfund/internal/output"
)

// NewRootCommand builds the command tree over app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "fanfund",
		Short: "Fanfund platform client",
		Long: `fanfund talks to the Fanfund platform: browse artists, back projects,
subscribe to tiers and, for administrators, review submissions.

Example usage:
  fanfund login --email me@example.com --password ...
  fanfund artists
  fanfund invest <project-id> 2500
  fanfund admin projects --status draft`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRegisterCommand(app),
		newLoginCommand(app, app.User, "Log in to the platform"),
		newLogoutCommand(app, app.User),
		newWhoamiCommand(app, app.User),
		newNavCommand(app),
		newArtistsCommand(app),
		newArtistCommand(app),
		newTiersCommand(app),
		newTierCommand(app),
		newProjectCommand(app),
		newInvestCommand(app),
		newPortfolioCommand(app),
		newSubscribeCommand(app),
		newUnlockCommand(app),
		newAdminCommand(app),
	)
	return root
}

// Execute runs args and returns the process exit code. Errors are printed here.
func Execute(ctx context.Context, app *App, args []string) int {
	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(app.Printer.Out())

	err := root.ExecuteContext(ctx)
	if err == nil {
		return output.ExitSuccess
	}

	cliErr := toCLIError(err)
	app.Printer.FormatError(cliErr)
	return cliErr.ExitCode
}

// withTimeout bounds one command's platform calls.
func withTimeout(cmd *cobra.Command, app *App) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if app.Config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, app.Config.RequestTimeout)
}

var errUsage = errors.New("usage")
