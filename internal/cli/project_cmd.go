package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/orbit/internal/cli/formatter"
	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectUpdateCmd(app),
		newProjectDeleteCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var (
		campaigns []string
		link      string
		mode      = domain.ModeLaunchable
		linkType  domain.LinkType
	)

	cmd := &cobra.Command{
		Use:   "add [NAME]",
		Short: "Add a project to one or more campaigns",
		Long: `Add a project to one or more campaigns.

Launchable projects need a link; its type is inferred from the link unless
--link-type is given. Physical projects have no link. Without a name or
campaign, an interactive form is shown when running in a terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.Board.Current()
			draft := domain.ProjectDraft{
				Name:     strings.Join(args, " "),
				Mode:     mode,
				Link:     link,
				LinkType: linkType,
			}

			if (draft.Name == "" || len(campaigns) == 0) && app.interactive() {
				if err := projectForm(s, &draft).Run(); err != nil {
					return err
				}
			} else {
				if draft.Name == "" {
					return fmt.Errorf("project name is required")
				}
				ids, err := domain.ResolveCampaignIDs(s, campaigns)
				if err != nil {
					return err
				}
				draft.CampaignIDs = ids
			}

			p, err := app.Board.AddProject(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added project %s %s to %s\n",
				formatter.Bold(p.Name), formatter.TruncID(p.ID), campaignLabel(app.Board.Current(), p.CampaignIDs))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&campaigns, "campaign", "c", nil, "Campaign id or name (repeat for several)")
	cmd.Flags().StringVar(&link, "link", "", "Link to open: URL, vault path, folder or page")
	cmd.Flags().Var(newModeValue(&mode), "mode", "launchable or physical")
	cmd.Flags().Var(newLinkTypeValue(&linkType), "link-type", "web, obsidian, vscode, cursor, notion or custom")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var campaign string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.Board.Current()
			projects := s.Projects
			if campaign != "" {
				c, err := domain.ResolveCampaign(s, campaign)
				if err != nil {
					return err
				}
				projects = s.ProjectsFor(c.ID)
			}

			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(s, projects))
			return nil
		},
	}

	cmd.Flags().StringVarP(&campaign, "campaign", "c", "", "Only list projects of this campaign")

	return cmd
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var (
		name      string
		link      string
		campaigns []string
		mode      domain.Mode
		linkType  domain.LinkType
	)

	cmd := &cobra.Command{
		Use:   "update PROJECT",
		Short: "Change a project; removing every campaign deletes it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.Board.Current()
			p, err := domain.ResolveProject(s, args[0])
			if err != nil {
				return err
			}

			var patch domain.ProjectPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("mode") {
				patch.Mode = &mode
			}
			if flags.Changed("link") {
				patch.Link = &link
			}
			if flags.Changed("link-type") {
				patch.LinkType = &linkType
			}
			if flags.Changed("campaign") {
				ids, err := domain.ResolveCampaignIDs(s, campaigns)
				if err != nil {
					return err
				}
				patch.CampaignIDs = &ids
			}
			if patch == (domain.ProjectPatch{}) {
				return fmt.Errorf("nothing to update: pass at least one of --name, --mode, --link, --link-type, --campaign")
			}

			res, err := app.Board.UpdateProject(cmd.Context(), p.ID, patch)
			if err != nil {
				return report(cmd.OutOrStdout(), err, "")
			}
			if res.Deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s: it no longer belongs to any campaign\n", formatter.Bold(p.Name))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", formatter.Bold(res.Project.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&link, "link", "", "New link")
	cmd.Flags().StringArrayVarP(&campaigns, "campaign", "c", nil, "Replace memberships (repeat for several)")
	cmd.Flags().Var(newModeValue(&mode), "mode", "launchable or physical")
	cmd.Flags().Var(newLinkTypeValue(&linkType), "link-type", "web, obsidian, vscode, cursor, notion or custom")

	return cmd
}

func newProjectDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete PROJECT",
		Aliases: []string{"rm"},
		Short:   "Delete a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := domain.ResolveProject(app.Board.Current(), args[0])
			if err != nil {
				return err
			}
			if err := app.Board.DeleteProject(cmd.Context(), p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", formatter.Bold(p.Name))
			return nil
		},
	}
}

func campaignLabel(s *domain.State, ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.Campaign(id); ok {
			names = append(names, formatter.CampaignName(c))
		}
	}
	return strings.Join(names, ", ")
}
