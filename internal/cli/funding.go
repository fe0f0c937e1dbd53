package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/spec-kit/fanfund/internal/output"
	"github.com/spec-kit/fanfund/internal/platform"
	"github.com/spec-kit/fanfund/internal/querycache"
	"github.com/spec-kit/fanfund/internal/session"
)

const portfolioPrefix = "portfolio:"

func newInvestCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "invest <project-id> <amount-cents>",
		Short: "Invest in an approved project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseCents(args[1])
			if err != nil {
				return err
			}
			return guarded(cmd, app, app.User, func(ctx context.Context, s *session.Session) error {
				inv, err := app.API.Invest(ctx, s.Token, args[0], amount)
				if err != nil {
					return err
				}
				app.Cache.InvalidatePrefix(portfolioPrefix)
				app.Cache.InvalidatePrefix("artist:")
				app.Printer.Success("Invested %s in project %s (%s)", output.Money(inv.AmountCents, ""), inv.ProjectID, inv.ID)
				return nil
			})
		},
	}
}

func newPortfolioCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "List your investments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return guarded(cmd, app, app.User, func(ctx context.Context, s *session.Session) error {
				items, err := querycache.Fetch(ctx, app.Cache, portfolioPrefix+s.SubjectID, func(ctx context.Context) ([]platform.PortfolioItem, error) {
					return app.API.Portfolio(ctx, s.Token)
				})
				if err != nil {
					return err
				}
				if len(items) == 0 {
					app.Printer.Info("No investments yet.")
					return nil
				}

				table := output.NewTable(app.Printer.Out(), []string{"PROJECT", "TITLE", "INVESTED", "RAISED", "GOAL", "STATUS"})
				var total int64
				for _, it := range items {
					total += it.InvestedCents
					table.AddRow(
						it.Project.ID,
						it.Project.Title,
						output.Money(it.InvestedCents, ""),
						output.Money(it.Project.RaisedCents, ""),
						output.Money(it.Project.GoalCents, ""),
						app.Printer.StatusBadge(it.Project.Status),
					)
				}
				if err := table.Render(); err != nil {
					return err
				}
				app.Printer.Print("Total invested: %s", app.Printer.Bold(output.Money(total, "")))
				return nil
			})
		},
	}
}

func newSubscribeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <tier-id>",
		Short: "Subscribe to a tier through the payment processor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return guarded(cmd, app, app.User, func(ctx context.Context, s *session.Session) error {
				checkout, err := app.API.Checkout(ctx, s.Token, args[0])
				if err != nil {
					return err
				}
				app.Logger.Debug("checkout session opened")

				sub, err := app.API.ConfirmCheckout(ctx, s.Token, checkout.SessionID)
				if err != nil {
					return err
				}
				app.Printer.Success("Subscription %s is %s (via %s)", sub.ID, app.Printer.StatusBadge(sub.Status), checkout.Provider)
				return nil
			})
		},
	}
}

func newProjectCommand(app *App) *cobra.Command {
	project := &cobra.Command{
		Use:   "project",
		Short: "Manage your projects",
	}

	var (
		title       string
		description string
		goal        string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Submit a project for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlag("title", title); err != nil {
				return err
			}
			goalCents, err := parseCents(goal)
			if err != nil {
				return err
			}
			return guarded(cmd, app, app.User, func(ctx context.Context, s *session.Session) error {
				p, err := app.API.CreateProject(ctx, s.Token, platform.NewProject{
					Title:       title,
					Description: description,
					GoalCents:   goalCents,
				})
				if err != nil {
					return err
				}
				app.Printer.Success("Project %s submitted, status %s", p.ID, app.Printer.StatusBadge(p.Status))
				return nil
			})
		},
	}
	create.Flags().StringVar(&title, "title", "", "project title")
	create.Flags().StringVar(&description, "description", "", "project description")
	create.Flags().StringVar(&goal, "goal", "", "funding goal in cents")

	project.AddCommand(create)
	return project
}

func newTierCommand(app *App) *cobra.Command {
	tier := &cobra.Command{
		Use:   "tier",
		Short: "Manage your subscription tiers",
	}

	var (
		name  string
		price string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Offer a new subscription tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlag("name", name); err != nil {
				return err
			}
			priceCents, err := parseCents(price)
			if err != nil {
				return err
			}
			return guarded(cmd, app, app.User, func(ctx context.Context, s *session.Session) error {
				t, err := app.API.CreateTier(ctx, s.Token, platform.NewTier{Name: name, PriceCents: priceCents})
				if err != nil {
					return err
				}
				app.Cache.Invalidate(tiersKey(t.ArtistID))
				app.Printer.Success("Tier %s created at %s", t.ID, output.Money(t.PriceCents, t.Currency))
				return nil
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "tier name")
	create.Flags().StringVar(&price, "price", "", "monthly price in cents")

	tier.AddCommand(create)
	return tier
}

func newUnlockCommand(app *App) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "unlock <project-id> <amount-cents>",
		Short: "Ask administrators to release raised funds",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseCents(args[1])
			if err != nil {
				return err
			}
			if err := requireFlag("reason", reason); err != nil {
				return err
			}
			return guarded(cmd, app, app.User, func(ctx context.Context, s *session.Session) error {
				req, err := app.API.RequestUnlock(ctx, s.Token, args[0], amount, reason)
				if err != nil {
					return err
				}
				app.Printer.Success("Unlock request %s for %s is %s", req.ID, output.Money(req.AmountCents, ""), app.Printer.StatusBadge(req.Status))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "what the funds are for")
	return cmd
}
