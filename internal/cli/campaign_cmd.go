package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/orbit/internal/cli/formatter"
	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/spf13/cobra"
)

func newCampaignCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "campaign",
		Aliases: []string{"c"},
		Short:   "Manage campaigns",
	}

	cmd.AddCommand(
		newCampaignAddCmd(app),
		newCampaignListCmd(app),
		newCampaignShowCmd(app),
		newCampaignRenameCmd(app),
		newCampaignMissionCmd(app),
		newCampaignClearMissionCmd(app),
		newCampaignColorCmd(app),
		newCampaignMoveCmd(app),
		newCampaignSlotCmd(app),
		newCampaignDeleteCmd(app),
	)

	return cmd
}

func newCampaignAddCmd(app *App) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a campaign (at most six)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Board.AddCampaign(cmd.Context(), domain.CampaignDraft{
				Name:  strings.Join(args, " "),
				Color: color,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added campaign %s %s\n", formatter.CampaignName(*c), formatter.TruncID(c.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Colour, e.g. #83a598 (defaults to the slot's palette colour)")

	return cmd
}

func newCampaignListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List campaigns with their missions",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.Board.Current()
			if len(s.Campaigns) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No campaigns yet. Add one with 'orbit campaign add NAME'.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCampaignList(s))
			return nil
		},
	}
}

func newCampaignShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show CAMPAIGN",
		Short: "Show a campaign's missions and projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.Board.Current()
			c, err := domain.ResolveCampaign(s, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCampaignDetail(s, c))
			return nil
		},
	}
}

func newCampaignRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename CAMPAIGN NEW_NAME",
		Short: "Rename a campaign",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := domain.ResolveCampaign(app.Board.Current(), args[0])
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			err = app.Board.RenameCampaign(cmd.Context(), c.ID, name)
			return report(cmd.OutOrStdout(), err, "Renamed %s to %s", c.Name, formatter.Bold(name))
		},
	}
}

func newCampaignMissionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mission CAMPAIGN TEXT",
		Short: "Set the current mission; the old one becomes the previous mission",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := domain.ResolveCampaign(app.Board.Current(), args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			err = app.Board.SetMission(cmd.Context(), c.ID, text)
			return report(cmd.OutOrStdout(), err, "%s mission: %s", formatter.CampaignName(c), text)
		},
	}
}

func newCampaignClearMissionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-mission CAMPAIGN",
		Short: "Clear the current mission and keep the previous one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := domain.ResolveCampaign(app.Board.Current(), args[0])
			if err != nil {
				return err
			}
			err = app.Board.ClearMission(cmd.Context(), c.ID)
			return report(cmd.OutOrStdout(), err, "Cleared mission of %s", formatter.CampaignName(c))
		},
	}
}

func newCampaignColorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "color CAMPAIGN COLOR",
		Short: "Change a campaign's colour",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := domain.ResolveCampaign(app.Board.Current(), args[0])
			if err != nil {
				return err
			}
			err = app.Board.SetCampaignColor(cmd.Context(), c.ID, args[1])
			c.Color = args[1]
			return report(cmd.OutOrStdout(), err, "%s is now %s", formatter.CampaignName(c), args[1])
		},
	}
}

func newCampaignMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move CAMPAIGN X Y",
		Short: "Pin a campaign to board coordinates",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := domain.ResolveCampaign(app.Board.Current(), args[0])
			if err != nil {
				return err
			}
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid x %q: %w", args[1], err)
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid y %q: %w", args[2], err)
			}
			err = app.Board.MoveCampaign(cmd.Context(), c.ID, x, y)
			if err == nil {
				err = app.Board.Flush(cmd.Context())
			}
			return report(cmd.OutOrStdout(), err, "Moved %s to (%g, %g)", formatter.CampaignName(c), x, y)
		},
	}
}

func newCampaignSlotCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "slot CAMPAIGN N",
		Short: "Move a campaign to slot N (1-6) on the slot board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := domain.ResolveCampaign(app.Board.Current(), args[0])
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid slot %q: %w", args[1], err)
			}
			err = app.Board.MoveCampaignToSlot(cmd.Context(), c.ID, n-1)
			return report(cmd.OutOrStdout(), err, "Moved %s to slot %d", formatter.CampaignName(c), n)
		},
	}
}

func newCampaignDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete CAMPAIGN",
		Aliases: []string{"rm"},
		Short:   "Delete a campaign and the projects that belong only to it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.Board.Current()
			c, err := domain.ResolveCampaign(s, args[0])
			if err != nil {
				return err
			}

			if !yes && app.interactive() {
				ok, err := confirmDeleteCampaign(c, s)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			res, err := app.Board.DeleteCampaign(cmd.Context(), c.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Deleted campaign %s\n", formatter.CampaignName(res.Campaign))
			for _, p := range res.RemovedProjects {
				fmt.Fprintf(out, "  %s %s\n", formatter.Dim("removed project"), p.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
