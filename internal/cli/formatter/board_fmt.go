package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/alexanderramin/orbit/internal/repository"
)

// FormatSummary renders the campaign capacity and project count of a board.
func FormatSummary(s *domain.State) string {
	return fmt.Sprintf("%s campaigns  %s",
		RenderCapacity(len(s.Campaigns), domain.MaxCampaigns),
		Dim(fmt.Sprintf("%d projects", len(s.Projects))))
}

// FormatCampaignList renders campaigns in slot order with their missions.
func FormatCampaignList(s *domain.State) string {
	headers := []string{"#", "ID", "CAMPAIGN", "MISSION", "PREVIOUS", "PROJECTS"}
	rows := make([][]string, 0, len(s.Campaigns))
	for i, c := range s.Campaigns {
		mission := StyleFg.Render(Truncate(c.CurrentMission, 40))
		if c.CurrentMission == "" {
			mission = Dim("--")
		}
		previous := Dim("--")
		if c.PreviousMission != "" {
			previous = Dim(Truncate(c.PreviousMission, 30))
		}
		rows = append(rows, []string{
			Dim(fmt.Sprintf("%d", i+1)),
			TruncID(c.ID),
			CampaignName(c),
			mission,
			previous,
			fmt.Sprintf("%d", len(s.ProjectsFor(c.ID))),
		})
	}
	return RenderTable(headers, rows) + "\n" + FormatSummary(s)
}

// FormatProjectList renders projects with their link and the names of the
// campaigns they belong to.
func FormatProjectList(s *domain.State, projects []domain.Project) string {
	headers := []string{"ID", "PROJECT", "MODE", "LINK", "CAMPAIGNS"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		link := Dim("--")
		if p.Link != "" {
			link = LinkBadge(p.LinkType) + " " + Truncate(p.Link, 48)
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			ModeBadge(p.Mode),
			link,
			campaignNames(s, p.CampaignIDs),
		})
	}
	return RenderTable(headers, rows)
}

func campaignNames(s *domain.State, ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.Campaign(id); ok {
			names = append(names, CampaignStyle(c).Render(c.Name))
		}
	}
	return strings.Join(names, Dim(", "))
}

// FormatCampaignDetail renders one campaign's missions and projects in a box.
func FormatCampaignDetail(s *domain.State, c domain.Campaign) string {
	var b strings.Builder

	b.WriteString(Header("Missions") + "\n")
	current := Dim("--")
	if c.CurrentMission != "" {
		current = StyleYellow.Render("◎ " + c.CurrentMission)
	}
	previous := Dim("--")
	if c.PreviousMission != "" {
		previous = Dim(c.PreviousMission)
	}
	fmt.Fprintf(&b, "%s %s\n", Dim("now: "), current)
	fmt.Fprintf(&b, "%s %s\n\n", Dim("was: "), previous)

	projects := s.ProjectsFor(c.ID)
	b.WriteString(Header(fmt.Sprintf("Projects (%d)", len(projects))) + "\n")
	if len(projects) == 0 {
		b.WriteString(Dim("none"))
	} else {
		b.WriteString(FormatProjectList(s, projects))
	}

	return RenderBox(c.Name, strings.TrimRight(b.String(), "\n"))
}

// FormatBoardTree renders every campaign with its projects underneath. A
// project shared by several campaigns appears under each of them.
func FormatBoardTree(s *domain.State) string {
	var items []TreeItem
	for _, c := range s.Campaigns {
		detail := ""
		if c.CurrentMission != "" {
			detail = StyleYellow.Render("◎ " + c.CurrentMission)
		}
		items = append(items, TreeItem{
			Title:  CampaignName(c),
			Marker: CampaignStyle(c).Render("●"),
			Detail: detail,
		})

		projects := s.ProjectsFor(c.ID)
		for i, p := range projects {
			title := p.Name
			if len(p.CampaignIDs) > 1 {
				title += Dim(fmt.Sprintf(" (shared ×%d)", len(p.CampaignIDs)))
			}
			detail := ModeBadge(p.Mode)
			if p.Mode == domain.ModeLaunchable {
				detail = LinkBadge(p.LinkType)
			}
			items = append(items, TreeItem{
				Title:  title,
				Level:  1,
				IsLast: i == len(projects)-1,
				Detail: detail,
			})
		}
	}
	return RenderTree(items)
}

// FormatHistory lists backed-up boards, newest first.
func FormatHistory(entries []repository.HistoryEntry, now time.Time) string {
	headers := []string{"SEQ", "REASON", "SAVED", "CAMPAIGNS", "PROJECTS"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		reason := e.Reason
		if reason == "" {
			reason = "--"
		}
		rows = append(rows, []string{
			StyleBlue.Render(fmt.Sprintf("%d", e.Seq)),
			reason,
			HumanTimestamp(e.SavedAt, now),
			fmt.Sprintf("%d", len(e.State.Campaigns)),
			fmt.Sprintf("%d", len(e.State.Projects)),
		})
	}
	return RenderTable(headers, rows)
}
