package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/alexanderramin/orbit/internal/layout"
	"github.com/alexanderramin/orbit/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CampaignResult is a campaign as reported to MCP clients.
type CampaignResult struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Color           string   `json:"color"`
	X               *float64 `json:"x,omitempty"`
	Y               *float64 `json:"y,omitempty"`
	CurrentMission  string   `json:"current_mission"`
	PreviousMission string   `json:"previous_mission"`
}

// ProjectResult is a project as reported to MCP clients.
type ProjectResult struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Mode        string   `json:"mode"`
	LinkType    string   `json:"link_type"`
	Link        string   `json:"link"`
	CampaignIDs []string `json:"campaign_ids"`
}

func campaignResult(c domain.Campaign) CampaignResult {
	return CampaignResult{
		ID:              c.ID,
		Name:            c.Name,
		Color:           c.Color,
		X:               c.X,
		Y:               c.Y,
		CurrentMission:  c.CurrentMission,
		PreviousMission: c.PreviousMission,
	}
}

func projectResult(p domain.Project) ProjectResult {
	return ProjectResult{
		ID:          p.ID,
		Name:        p.Name,
		Mode:        string(p.Mode),
		LinkType:    string(p.LinkType),
		Link:        p.Link,
		CampaignIDs: append([]string{}, p.CampaignIDs...),
	}
}

// GetBoardInput takes no arguments.
type GetBoardInput struct{}

// BoardResult is the whole board.
type BoardResult struct {
	Revision  int64            `json:"revision"`
	UpdatedAt int64            `json:"updated_at"`
	Campaigns []CampaignResult `json:"campaigns"`
	Projects  []ProjectResult  `json:"projects"`
}

// AddCampaignInput is the add_campaign tool input.
type AddCampaignInput struct {
	Name  string `json:"name" jsonschema:"campaign name"`
	Color string `json:"color,omitempty" jsonschema:"optional CSS colour; defaults to the palette colour for the slot"`
}

// RenameCampaignInput is the rename_campaign tool input.
type RenameCampaignInput struct {
	Campaign string `json:"campaign" jsonschema:"campaign id, id prefix or name"`
	Name     string `json:"name" jsonschema:"new campaign name"`
}

// SetMissionInput is the set_mission tool input.
type SetMissionInput struct {
	Campaign string `json:"campaign" jsonschema:"campaign id, id prefix or name"`
	Mission  string `json:"mission" jsonschema:"new current mission; empty clears it"`
}

// CampaignRefInput names one campaign.
type CampaignRefInput struct {
	Campaign string `json:"campaign" jsonschema:"campaign id, id prefix or name"`
}

// DeleteCampaignResult lists what a campaign delete removed.
type DeleteCampaignResult struct {
	Campaign        CampaignResult `json:"campaign"`
	RemovedProjects []string       `json:"removed_project_ids"`
}

// AddProjectInput is the add_project tool input.
type AddProjectInput struct {
	Name      string   `json:"name" jsonschema:"project name"`
	Campaigns []string `json:"campaigns" jsonschema:"campaigns the project belongs to (id, id prefix or name)"`
	Mode      string   `json:"mode,omitempty" jsonschema:"launchable (default) or physical"`
	Link      string   `json:"link,omitempty" jsonschema:"URL, deep link or path; required for launchable projects"`
	LinkType  string   `json:"link_type,omitempty" jsonschema:"web, obsidian, vscode, cursor, notion or custom; inferred when empty"`
}

// UpdateProjectInput is the update_project tool input. Omitted fields keep
// their current value.
type UpdateProjectInput struct {
	Project   string   `json:"project" jsonschema:"project id, id prefix or name"`
	Name      *string  `json:"name,omitempty" jsonschema:"new name"`
	Mode      *string  `json:"mode,omitempty" jsonschema:"launchable or physical"`
	Link      *string  `json:"link,omitempty" jsonschema:"new link"`
	LinkType  *string  `json:"link_type,omitempty" jsonschema:"new link type"`
	Campaigns []string `json:"campaigns,omitempty" jsonschema:"replacement campaign list; a project left with none is deleted"`
}

// UpdateProjectResult holds the updated project, or Deleted.
type UpdateProjectResult struct {
	Project *ProjectResult `json:"project,omitempty"`
	Deleted bool           `json:"deleted"`
}

// ProjectRefInput names one project.
type ProjectRefInput struct {
	Project string `json:"project" jsonschema:"project id, id prefix or name"`
}

// DeleteProjectResult reports a removed project.
type DeleteProjectResult struct {
	ID string `json:"id"`
}

// LayoutInput is the layout_board tool input.
type LayoutInput struct {
	Strategy string `json:"strategy,omitempty" jsonschema:"ring or slots; defaults to the configured layout"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_board",
		Description: "Returns every campaign and project on the board",
	}, s.getBoard)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_campaign",
		Description: "Adds a campaign (at most six per board)",
	}, s.addCampaign)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "rename_campaign",
		Description: "Renames a campaign",
	}, s.renameCampaign)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_mission",
		Description: "Sets a campaign's current mission; the old one becomes the previous mission",
	}, s.setMission)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_campaign",
		Description: "Deletes a campaign and every project that belonged only to it",
	}, s.deleteCampaign)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_project",
		Description: "Adds a project to one or more campaigns",
	}, s.addProject)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_project",
		Description: "Changes a project's name, mode, link or campaigns",
	}, s.updateProject)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_project",
		Description: "Deletes a project",
	}, s.deleteProject)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "layout_board",
		Description: "Computes where campaigns and projects are drawn",
	}, s.layoutBoard)
}

// settle treats a redundant edit as success.
func settle(err error) error {
	if errors.Is(err, service.ErrUnchanged) {
		return nil
	}
	return err
}

func (s *Server) campaignAfterEdit(id string) (CampaignResult, error) {
	c, ok := s.board.Current().Campaign(id)
	if !ok {
		return CampaignResult{}, fmt.Errorf("campaign %q: %w", id, service.ErrNotFound)
	}
	return campaignResult(c), nil
}

func (s *Server) getBoard(ctx context.Context, _ *mcp.CallToolRequest, _ GetBoardInput) (*mcp.CallToolResult, BoardResult, error) {
	s.sync(ctx)
	st := s.board.Current()
	out := BoardResult{
		Revision:  s.board.Revision(),
		UpdatedAt: st.UpdatedAt,
		Campaigns: make([]CampaignResult, 0, len(st.Campaigns)),
		Projects:  make([]ProjectResult, 0, len(st.Projects)),
	}
	for _, c := range st.Campaigns {
		out.Campaigns = append(out.Campaigns, campaignResult(c))
	}
	for _, p := range st.Projects {
		out.Projects = append(out.Projects, projectResult(p))
	}
	return nil, out, nil
}

func (s *Server) addCampaign(ctx context.Context, _ *mcp.CallToolRequest, in AddCampaignInput) (*mcp.CallToolResult, CampaignResult, error) {
	s.sync(ctx)
	c, err := s.board.AddCampaign(ctx, domain.CampaignDraft{Name: in.Name, Color: in.Color})
	if err != nil {
		return nil, CampaignResult{}, fmt.Errorf("add campaign: %w", err)
	}
	return nil, campaignResult(*c), nil
}

func (s *Server) renameCampaign(ctx context.Context, _ *mcp.CallToolRequest, in RenameCampaignInput) (*mcp.CallToolResult, CampaignResult, error) {
	s.sync(ctx)
	c, err := domain.ResolveCampaign(s.board.Current(), in.Campaign)
	if err != nil {
		return nil, CampaignResult{}, err
	}
	if err := settle(s.board.RenameCampaign(ctx, c.ID, in.Name)); err != nil {
		return nil, CampaignResult{}, fmt.Errorf("rename campaign: %w", err)
	}
	out, err := s.campaignAfterEdit(c.ID)
	return nil, out, err
}

func (s *Server) setMission(ctx context.Context, _ *mcp.CallToolRequest, in SetMissionInput) (*mcp.CallToolResult, CampaignResult, error) {
	s.sync(ctx)
	c, err := domain.ResolveCampaign(s.board.Current(), in.Campaign)
	if err != nil {
		return nil, CampaignResult{}, err
	}
	if strings.TrimSpace(in.Mission) == "" {
		err = s.board.ClearMission(ctx, c.ID)
	} else {
		err = s.board.SetMission(ctx, c.ID, in.Mission)
	}
	if err := settle(err); err != nil {
		return nil, CampaignResult{}, fmt.Errorf("set mission: %w", err)
	}
	out, err := s.campaignAfterEdit(c.ID)
	return nil, out, err
}

func (s *Server) deleteCampaign(ctx context.Context, _ *mcp.CallToolRequest, in CampaignRefInput) (*mcp.CallToolResult, DeleteCampaignResult, error) {
	s.sync(ctx)
	c, err := domain.ResolveCampaign(s.board.Current(), in.Campaign)
	if err != nil {
		return nil, DeleteCampaignResult{}, err
	}
	res, err := s.board.DeleteCampaign(ctx, c.ID)
	if err != nil {
		return nil, DeleteCampaignResult{}, fmt.Errorf("delete campaign: %w", err)
	}
	out := DeleteCampaignResult{Campaign: campaignResult(res.Campaign), RemovedProjects: []string{}}
	for _, p := range res.RemovedProjects {
		out.RemovedProjects = append(out.RemovedProjects, p.ID)
	}
	return nil, out, nil
}

func parseMode(raw string) (domain.Mode, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.ModeLaunchable, nil
	}
	m, ok := domain.ParseMode(raw)
	if !ok {
		return "", fmt.Errorf("unknown mode %q (want launchable or physical)", raw)
	}
	return m, nil
}

func parseLinkType(raw string) (domain.LinkType, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	t, ok := domain.ParseLinkType(raw)
	if !ok {
		return "", fmt.Errorf("unknown link type %q", raw)
	}
	return t, nil
}

func (s *Server) addProject(ctx context.Context, _ *mcp.CallToolRequest, in AddProjectInput) (*mcp.CallToolResult, ProjectResult, error) {
	s.sync(ctx)
	ids, err := domain.ResolveCampaignIDs(s.board.Current(), in.Campaigns)
	if err != nil {
		return nil, ProjectResult{}, err
	}
	mode, err := parseMode(in.Mode)
	if err != nil {
		return nil, ProjectResult{}, err
	}
	lt, err := parseLinkType(in.LinkType)
	if err != nil {
		return nil, ProjectResult{}, err
	}
	p, err := s.board.AddProject(ctx, domain.ProjectDraft{
		Name:        in.Name,
		Mode:        mode,
		Link:        in.Link,
		LinkType:    lt,
		CampaignIDs: ids,
	})
	if err != nil {
		return nil, ProjectResult{}, fmt.Errorf("add project: %w", err)
	}
	return nil, projectResult(*p), nil
}

func (s *Server) updateProject(ctx context.Context, _ *mcp.CallToolRequest, in UpdateProjectInput) (*mcp.CallToolResult, UpdateProjectResult, error) {
	s.sync(ctx)
	st := s.board.Current()
	p, err := domain.ResolveProject(st, in.Project)
	if err != nil {
		return nil, UpdateProjectResult{}, err
	}

	var patch domain.ProjectPatch
	patch.Name = in.Name
	patch.Link = in.Link
	if in.Mode != nil {
		mode, err := parseMode(*in.Mode)
		if err != nil {
			return nil, UpdateProjectResult{}, err
		}
		patch.Mode = &mode
	}
	if in.LinkType != nil {
		lt, err := parseLinkType(*in.LinkType)
		if err != nil {
			return nil, UpdateProjectResult{}, err
		}
		patch.LinkType = &lt
	}
	if in.Campaigns != nil {
		ids, err := domain.ResolveCampaignIDs(st, in.Campaigns)
		if err != nil {
			return nil, UpdateProjectResult{}, err
		}
		patch.CampaignIDs = &ids
	}

	res, err := s.board.UpdateProject(ctx, p.ID, patch)
	if errors.Is(err, service.ErrUnchanged) {
		out := projectResult(p)
		return nil, UpdateProjectResult{Project: &out}, nil
	}
	if err != nil {
		return nil, UpdateProjectResult{}, fmt.Errorf("update project: %w", err)
	}
	if res.Deleted {
		return nil, UpdateProjectResult{Deleted: true}, nil
	}
	out := projectResult(*res.Project)
	return nil, UpdateProjectResult{Project: &out}, nil
}

func (s *Server) deleteProject(ctx context.Context, _ *mcp.CallToolRequest, in ProjectRefInput) (*mcp.CallToolResult, DeleteProjectResult, error) {
	s.sync(ctx)
	p, err := domain.ResolveProject(s.board.Current(), in.Project)
	if err != nil {
		return nil, DeleteProjectResult{}, err
	}
	if err := s.board.DeleteProject(ctx, p.ID); err != nil {
		return nil, DeleteProjectResult{}, fmt.Errorf("delete project: %w", err)
	}
	return nil, DeleteProjectResult{ID: p.ID}, nil
}

func (s *Server) layoutBoard(ctx context.Context, _ *mcp.CallToolRequest, in LayoutInput) (*mcp.CallToolResult, layout.Placement, error) {
	s.sync(ctx)
	strategy := s.strategy
	if name := strings.TrimSpace(in.Strategy); name != "" {
		st, ok := layout.Lookup(strings.ToLower(name))
		if !ok {
			return nil, layout.Placement{}, fmt.Errorf("unknown layout %q (want one of %s)", name, strings.Join(layout.Names(), ", "))
		}
		strategy = st
	}
	p, err := s.board.Layout(ctx, strategy, s.viewport)
	if err != nil {
		return nil, layout.Placement{}, fmt.Errorf("layout board: %w", err)
	}
	return nil, p, nil
}
