package domain

import (
	"slices"
	"strings"
)

// ProjectDraft holds the inputs for AddProject. An empty LinkType is
// inferred from Link.
type ProjectDraft struct {
	Name        string
	Mode        Mode
	Link        string
	LinkType    LinkType
	CampaignIDs []string
}

// ProjectPatch lists the fields UpdateProject should change. Nil fields keep
// their current value. Setting Link without LinkType re-infers the type.
type ProjectPatch struct {
	Name        *string
	Mode        *Mode
	Link        *string
	LinkType    *LinkType
	CampaignIDs *[]string
}

// buildProject validates d against s and returns the normalized project
// without an id.
func buildProject(s *State, d ProjectDraft) (Project, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Project{}, invalid("name", "project name is required")
	}
	mode := SanitizeMode(string(d.Mode))

	members := filterMembership(d.CampaignIDs, campaignIDSet(s.Campaigns))
	if len(members) == 0 {
		return Project{}, invalid("campaignIds", "select at least one existing campaign")
	}

	lt := d.LinkType
	if !lt.Valid() {
		lt = InferLinkType(d.Link)
	}
	link := NormalizeLink(d.Link, lt)
	if mode == ModePhysical {
		link = ""
	} else if link == "" {
		return Project{}, invalid("link", "a launchable project needs a link")
	}

	return Project{
		Name:        name,
		Mode:        mode,
		LinkType:    lt,
		Link:        link,
		CampaignIDs: members,
	}, nil
}

// CheckProjectDraft reports why AddProject would reject d, or nil.
func CheckProjectDraft(s *State, d ProjectDraft) error {
	_, err := buildProject(orEmpty(s), d)
	return err
}

// AddProject validates and appends a project.
func (m *Mutator) AddProject(s *State, d ProjectDraft) *State {
	s = orEmpty(s)
	p, err := buildProject(s, d)
	if err != nil {
		return s
	}
	used := make(map[string]bool, len(s.Projects))
	for _, existing := range s.Projects {
		used[existing.ID] = true
	}
	p.ID = m.uniqueID("", used)

	next := s.clone()
	next.Projects = append(next.Projects, p)
	return m.touch(next, s)
}

// mergePatch overlays patch onto the current project and returns the draft
// that UpdateProject validates.
func mergePatch(cur Project, patch ProjectPatch) ProjectDraft {
	d := ProjectDraft{
		Name:        cur.Name,
		Mode:        cur.Mode,
		Link:        cur.Link,
		LinkType:    cur.LinkType,
		CampaignIDs: cur.CampaignIDs,
	}
	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.Mode != nil {
		d.Mode = *patch.Mode
	}
	if patch.Link != nil {
		d.Link = *patch.Link
		d.LinkType = ""
	}
	if patch.LinkType != nil {
		d.LinkType = *patch.LinkType
	}
	if patch.CampaignIDs != nil {
		d.CampaignIDs = *patch.CampaignIDs
	}
	return d
}

// CheckProjectPatch reports why UpdateProject would reject patch, or nil.
// A patch that empties the membership is not an error: it deletes the project.
func CheckProjectPatch(s *State, id string, patch ProjectPatch) error {
	s = orEmpty(s)
	cur, ok := s.Project(id)
	if !ok {
		return invalid("id", "unknown project")
	}
	d := mergePatch(cur, patch)
	if len(filterMembership(d.CampaignIDs, campaignIDSet(s.Campaigns))) == 0 {
		return nil
	}
	_, err := buildProject(s, d)
	return err
}

// UpdateProject merges patch onto a project and re-validates it with the
// same rules as AddProject. If the merged membership is empty the project
// is deleted. An invalid merge, such as a launchable project without a
// link, keeps the previous project.
func (m *Mutator) UpdateProject(s *State, id string, patch ProjectPatch) *State {
	s = orEmpty(s)
	i := s.ProjectIndex(id)
	if i < 0 {
		return s
	}
	cur := s.Projects[i]
	d := mergePatch(cur, patch)

	if len(filterMembership(d.CampaignIDs, campaignIDSet(s.Campaigns))) == 0 {
		next := s.clone()
		next.Projects = slices.Delete(next.Projects, i, i+1)
		return m.touch(next, s)
	}

	updated, err := buildProject(s, d)
	if err != nil {
		return s
	}
	updated.ID = cur.ID
	if updated.equal(cur) {
		return s
	}
	next := s.clone()
	next.Projects[i] = updated
	next.Projects = enforceMembership(next.Campaigns, next.Projects)
	return m.touch(next, s)
}

// DeleteProject removes a project.
func (m *Mutator) DeleteProject(s *State, id string) *State {
	s = orEmpty(s)
	i := s.ProjectIndex(id)
	if i < 0 {
		return s
	}
	next := s.clone()
	next.Projects = slices.Delete(next.Projects, i, i+1)
	return m.touch(next, s)
}
