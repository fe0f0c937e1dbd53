package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/fanfund/internal/output"
	"github.com/spec-kit/fanfund/internal/platform"
	"github.com/spec-kit/fanfund/internal/session"
)

func newAdminCommand(app *App) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Administrator commands",
		Long: `Administrator commands use their own session, separate from 'fanfund login'.
The admin session is kept only for the current terminal session.`,
	}

	admin.AddCommand(
		newLoginCommand(app, app.Admin, "Log in as an administrator"),
		newLogoutCommand(app, app.Admin),
		newWhoamiCommand(app, app.Admin),
		newAdminProjectsCommand(app),
		newAdminReviewCommand(app),
		newAdminUnlocksCommand(app),
		newAdminReviewUnlockCommand(app),
	)
	return admin
}

func newAdminProjectsCommand(app *App) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects by review status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return guarded(cmd, app, app.Admin, func(ctx context.Context, s *session.Session) error {
				projects, err := app.API.ListProjects(ctx, s.Token, status)
				if err != nil {
					return err
				}
				return renderProjects(app.Printer, projects)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "draft", "draft, approved or rejected")
	return cmd
}

func newAdminUnlocksCommand(app *App) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "unlocks",
		Short: "List unlock requests by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return guarded(cmd, app, app.Admin, func(ctx context.Context, s *session.Session) error {
				requests, err := app.API.ListUnlockRequests(ctx, s.Token, status)
				if err != nil {
					return err
				}
				if len(requests) == 0 {
					app.Printer.Info("No unlock requests.")
					return nil
				}
				table := output.NewTable(app.Printer.Out(), []string{"ID", "PROJECT", "AMOUNT", "REASON", "STATUS"})
				for _, r := range requests {
					table.AddRow(r.ID, r.ProjectID, output.Money(r.AmountCents, ""), r.Reason, app.Printer.StatusBadge(r.Status))
				}
				return table.Render()
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "pending", "pending, approved or rejected")
	return cmd
}

// reviewFlags registers --decision and --note and returns a reader for the verdict.
func reviewFlags(cmd *cobra.Command) func() (platform.Review, error) {
	var decision, note string
	cmd.Flags().StringVar(&decision, "decision", "", "approve or reject")
	cmd.Flags().StringVar(&note, "note", "", "note shown to the artist")
	return func() (platform.Review, error) {
		switch d := strings.ToLower(decision); d {
		case "approve", "reject":
			return platform.Review{Decision: d, Note: note}, nil
		default:
			return platform.Review{}, usageError("--decision must be approve or reject")
		}
	}
}

func newAdminReviewCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review <project-id>",
		Short: "Approve or reject a draft project",
		Args:  cobra.ExactArgs(1),
	}
	verdict := reviewFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		review, err := verdict()
		if err != nil {
			return err
		}
		return guarded(cmd, app, app.Admin, func(ctx context.Context, s *session.Session) error {
			p, err := app.API.ReviewProject(ctx, s.Token, args[0], review)
			if err != nil {
				return err
			}
			app.Cache.InvalidatePrefix(artistKey(p.ArtistID))
			app.Printer.Success("Project %s is now %s", p.ID, app.Printer.StatusBadge(p.Status))
			return nil
		})
	}
	return cmd
}

func newAdminReviewUnlockCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review-unlock <request-id>",
		Short: "Approve or reject a pending unlock request",
		Args:  cobra.ExactArgs(1),
	}
	verdict := reviewFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		review, err := verdict()
		if err != nil {
			return err
		}
		return guarded(cmd, app, app.Admin, func(ctx context.Context, s *session.Session) error {
			req, err := app.API.ReviewUnlock(ctx, s.Token, args[0], review)
			if err != nil {
				return err
			}
			app.Printer.Success("Unlock request %s is now %s", req.ID, app.Printer.StatusBadge(req.Status))
			return nil
		})
	}
	return cmd
}
