package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/orbit/internal/cli/formatter"
	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// orbitHuhTheme returns a huh theme matching the gruvbox formatter palette.
func orbitHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorGreen).SetString("[x] ")
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorDim).SetString("[ ] ")
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func requireText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// campaignOptions lists the board's campaigns for a multi-select, preselecting
// the ids already in selected.
func campaignOptions(s *domain.State, selected []string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(s.Campaigns))
	for _, c := range s.Campaigns {
		opt := huh.NewOption(c.Name, c.ID)
		for _, id := range selected {
			if id == c.ID {
				opt = opt.Selected(true)
			}
		}
		opts = append(opts, opt)
	}
	return opts
}

func linkTypeOptions() []huh.Option[domain.LinkType] {
	opts := []huh.Option[domain.LinkType]{huh.NewOption("Infer from link", domain.LinkType(""))}
	for _, lt := range domain.LinkTypes {
		opts = append(opts, huh.NewOption(string(lt), lt))
	}
	return opts
}

// projectForm collects a project draft. The link questions are skipped for
// physical projects.
func projectForm(s *domain.State, draft *domain.ProjectDraft) *huh.Form {
	if draft.Mode == "" {
		draft.Mode = domain.ModeLaunchable
	}
	isPhysical := func() bool { return draft.Mode == domain.ModePhysical }

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Value(&draft.Name).
				Validate(requireText("name")),
			huh.NewSelect[domain.Mode]().
				Title("Mode").
				Options(
					huh.NewOption("Launchable (opens a link)", domain.ModeLaunchable),
					huh.NewOption("Physical (a thing on your desk)", domain.ModePhysical),
				).
				Value(&draft.Mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Link").
				Placeholder("https://… or a vault / folder path").
				Value(&draft.Link).
				Validate(requireText("link")),
			huh.NewSelect[domain.LinkType]().
				Title("Link type").
				Options(linkTypeOptions()...).
				Value(&draft.LinkType),
		).WithHideFunc(isPhysical),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Campaigns").
				Options(campaignOptions(s, draft.CampaignIDs)...).
				Value(&draft.CampaignIDs).
				Validate(func(ids []string) error {
					if len(ids) == 0 {
						return errors.New("pick at least one campaign")
					}
					return nil
				}),
		),
	).WithTheme(orbitHuhTheme()).WithShowHelp(false)
}

// soleProjects lists the projects that belong to the campaign alone and
// would be deleted with it.
func soleProjects(s *domain.State, campaignID string) []domain.Project {
	var out []domain.Project
	for _, p := range s.ProjectsFor(campaignID) {
		if len(p.CampaignIDs) == 1 {
			out = append(out, p)
		}
	}
	return out
}

func confirmDeleteCampaign(c domain.Campaign, s *domain.State) (bool, error) {
	desc := "No projects are removed with it."
	if n := len(soleProjects(s, c.ID)); n > 0 {
		desc = fmt.Sprintf("%d project(s) belong only to this campaign and are removed too.", n)
	}

	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete campaign %q?", c.Name)).
			Description(desc).
			Affirmative("Delete").
			Negative("Keep").
			Value(&ok),
	)).WithTheme(orbitHuhTheme()).WithShowHelp(false).Run()
	return ok, err
}
