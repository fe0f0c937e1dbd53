package cli

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spec-kit/fanfund/internal/navigation"
	"github.com/spec-kit/fanfund/internal/output"
	"github.com/spec-kit/fanfund/internal/platform"
	"github.com/spec-kit/fanfund/internal/querycache"
	"github.com/spec-kit/fanfund/internal/session"
)

func artistKey(id string) string { return "artist:" + id }
func tiersKey(id string) string { return "tiers:" + id }

func newNavCommand(app *App) *cobra.Command {
	var (
		path   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "nav",
		Short: "List the destinations visible to the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// no refresh: navigation reflects the persisted identity as is
			entries := navigation.Destinations(session.RoleOf(app.User.Current()), path)

			if asJSON {
				enc := json.NewEncoder(app.Printer.Out())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			if len(entries) == 0 {
				app.Printer.Info("No destinations.")
				return nil
			}
			table := output.NewTable(app.Printer.Out(), []string{"PATH", "LABEL", "ICON"})
			for _, e := range entries {
				table.AddRow(e.Path, e.Label, e.Icon)
			}
			return table.Render()
		},
	}
	cmd.Flags().StringVar(&path, "path", "/", "current location")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newArtistsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "artists",
		Short: "List artists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd, app)
			defer cancel()

			artists, err := querycache.Fetch(ctx, app.Cache, "artists", app.API.ListArtists)
			if err != nil {
				return err
			}
			if len(artists) == 0 {
				app.Printer.Info("No artists yet.")
				return nil
			}
			table := output.NewTable(app.Printer.Out(), []string{"ID", "NAME", "GENRE"})
			for _, a := range artists {
				table.AddRow(a.ID, a.Name, a.Genre)
			}
			return table.Render()
		},
	}
}

func newArtistCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "artist <artist-id>",
		Short: "Show an artist with approved projects and tiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd, app)
			defer cancel()

			id := args[0]
			detail, err := querycache.Fetch(ctx, app.Cache, artistKey(id), func(ctx context.Context) (*platform.ArtistDetail, error) {
				return app.API.GetArtist(ctx, id)
			})
			if err != nil {
				return err
			}
			tiers, err := fetchTiers(ctx, app, id)
			if err != nil {
				return err
			}

			p := app.Printer
			p.Header(detail.Artist.Name)
			p.Print("Genre: %s", detail.Artist.Genre)
			if detail.Artist.Bio != "" {
				p.Print("%s", detail.Artist.Bio)
			}

			p.Header("Projects")
			if err := renderProjects(p, detail.Projects); err != nil {
				return err
			}
			p.Header("Tiers")
			return renderTiers(p, tiers)
		},
	}
}

func newTiersCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers <artist-id>",
		Short: "List an artist's subscription tiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd, app)
			defer cancel()

			tiers, err := fetchTiers(ctx, app, args[0])
			if err != nil {
				return err
			}
			return renderTiers(app.Printer, tiers)
		},
	}
}

func fetchTiers(ctx context.Context, app *App, artistID string) ([]platform.Tier, error) {
	return querycache.Fetch(ctx, app.Cache, tiersKey(artistID), func(ctx context.Context) ([]platform.Tier, error) {
		return app.API.ListTiers(ctx, artistID)
	})
}

func renderProjects(p *output.Printer, projects []platform.Project) error {
	if len(projects) == 0 {
		p.Info("No projects.")
		return nil
	}
	table := output.NewTable(p.Out(), []string{"ID", "TITLE", "RAISED", "GOAL", "FUNDED", "STATUS"})
	for _, pr := range projects {
		table.AddRow(
			pr.ID,
			pr.Title,
			output.Money(pr.RaisedCents, ""),
			output.Money(pr.GoalCents, ""),
			strconv.FormatFloat(pr.FundingPercent, 'f', 1, 64)+"%",
			p.StatusBadge(pr.Status),
		)
	}
	return table.Render()
}

func renderTiers(p *output.Printer, tiers []platform.Tier) error {
	if len(tiers) == 0 {
		p.Info("No tiers.")
		return nil
	}
	table := output.NewTable(p.Out(), []string{"ID", "NAME", "PRICE"})
	for _, t := range tiers {
		table.AddRow(t.ID, t.Name, output.Money(t.PriceCents, t.Currency))
	}
	return table.Render()
}

func parseCents(raw string) (int64, error) {
	cents, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || cents <= 0 {
		return 0, usageError("amount must be a positive number of cents, got %q", raw)
	}
	return cents, nil
}

func requireFlag(name, value string) error {
	if value == "" {
		return usageError("--%s is required", name)
	}
	return nil
}

