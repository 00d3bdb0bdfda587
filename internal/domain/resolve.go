package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ResolveCampaign finds a campaign by, in order: exact id, unique id
// prefix, or case-insensitive name.
func ResolveCampaign(s *State, input string) (Campaign, error) {
	return resolveRef("campaign", s.Campaigns, input,
		func(c Campaign) string { return c.ID },
		func(c Campaign) string { return c.Name })
}

// ResolveProject finds a project the same way as ResolveCampaign.
func ResolveProject(s *State, input string) (Project, error) {
	return resolveRef("project", s.Projects, input,
		func(p Project) string { return p.ID },
		func(p Project) string { return p.Name })
}

// ResolveCampaignIDs resolves each input to a campaign id.
func ResolveCampaignIDs(s *State, inputs []string) ([]string, error) {
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		c, err := ResolveCampaign(s, in)
		if err != nil {
			return nil, err
		}
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func resolveRef[T any](kind string, items []T, input string, idOf, nameOf func(T) string) (T, error) {
	var zero T
	input = strings.TrimSpace(input)
	if input == "" {
		return zero, fmt.Errorf("%s is required", kind)
	}

	// 1. Exact id
	for _, it := range items {
		if idOf(it) == input {
			return it, nil
		}
	}

	// 2. Unique id prefix
	var matches []T
	for _, it := range items {
		if strings.HasPrefix(idOf(it), input) {
			matches = append(matches, it)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return zero, fmt.Errorf("%s id prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}

	// 3. Name, compared with Unicode case folding
	fold := cases.Fold()
	want := fold.String(input)
	for _, it := range items {
		if fold.String(strings.TrimSpace(nameOf(it))) == want {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%s name %q is ambiguous (%d matches); use the id", kind, input, len(matches))
	}
}
