package domain

import "strings"

// enforceMembership is the single place the "no project without a campaign"
// invariant is maintained. It strips memberships that reference missing
// campaigns and drops every project left with none.
func enforceMembership(campaigns []Campaign, projects []Project) []Project {
	valid := campaignIDSet(campaigns)
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		ids := filterMembership(p.CampaignIDs, valid)
		if len(ids) == 0 {
			continue
		}
		p.CampaignIDs = ids
		out = append(out, p)
	}
	return out
}

// filterMembership trims ids, collapses duplicates (first occurrence wins)
// and keeps only ids present in valid. It always returns a new slice.
func filterMembership(ids []string, valid map[string]bool) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] || !valid[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
