package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Normalize turns any payload into a well-formed snapshot using the
// default Mutator. See Mutator.Normalize.
func Normalize(raw any) *State {
	return defaultMutator.Normalize(raw)
}

// NormalizeJSON decodes data and normalizes it. Undecodable input yields
// an empty board.
func NormalizeJSON(data []byte) *State {
	return defaultMutator.NormalizeJSON(data)
}

// NormalizeJSON decodes data and normalizes it with m's id generator.
func (m *Mutator) NormalizeJSON(data []byte) *State {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Empty()
	}
	return m.Normalize(raw)
}

// Adopt normalizes incoming and stamps it as the successor of prev. It is
// the wholesale replacement used by import and restore.
func (m *Mutator) Adopt(prev *State, incoming any) *State {
	return m.touch(m.Normalize(incoming), orEmpty(prev))
}

// Normalize accepts an arbitrary, possibly malformed payload (decoded JSON,
// a *State, or any JSON-marshalable value) and returns a well-formed
// snapshot. Malformed entries are dropped or repaired, never reported.
// Normalize is idempotent.
func (m *Mutator) Normalize(raw any) *State {
	root := asObject(toGeneric(raw))
	out := Empty()

	campaignIDs := make(map[string]bool)
	for i, entry := range asList(root["campaigns"]) {
		if len(out.Campaigns) >= MaxCampaigns {
			break
		}
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		slot := len(out.Campaigns)
		c := Campaign{
			ID:              m.uniqueID(stringField(obj, "id"), campaignIDs),
			Name:            CoalesceStr(stringField(obj, "name"), fmt.Sprintf("Campaign %d", i+1)),
			Color:           CoalesceStr(stringField(obj, "color"), PaletteColor(slot)),
			CurrentMission:  stringField(obj, "currentMission"),
			PreviousMission: stringField(obj, "previousMission"),
		}
		x, xok := numberField(obj, "x")
		y, yok := numberField(obj, "y")
		if xok && yok {
			c.X, c.Y = floatPtr(x), floatPtr(y)
		}
		out.Campaigns = append(out.Campaigns, c)
	}

	projectIDs := make(map[string]bool)
	for i, entry := range asList(root["projects"]) {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		members := filterMembership(membershipField(obj), campaignIDs)
		if len(members) == 0 {
			continue
		}

		mode := SanitizeMode(stringField(obj, "mode"))
		link := stringField(obj, "link")
		lt, ok := ParseLinkType(stringField(obj, "linkType"))
		if !ok {
			lt = InferLinkType(link)
		}
		link = NormalizeLink(link, lt)
		if mode == ModePhysical {
			link = ""
		}

		out.Projects = append(out.Projects, Project{
			ID:          m.uniqueID(stringField(obj, "id"), projectIDs),
			Name:        CoalesceStr(stringField(obj, "name"), fmt.Sprintf("Project %d", i+1)),
			Mode:        mode,
			LinkType:    lt,
			Link:        link,
			CampaignIDs: members,
		})
	}

	if ts, ok := numberField(root, "updatedAt"); ok && ts > 0 && ts < math.MaxInt64 {
		out.UpdatedAt = int64(ts)
	}
	return out
}

// toGeneric converts typed values into the map/slice shapes produced by
// encoding/json so one code path handles every input.
func toGeneric(raw any) any {
	switch v := raw.(type) {
	case nil, map[string]any, []any:
		return v
	case []byte:
		var out any
		if err := json.Unmarshal(v, &out); err != nil {
			return nil
		}
		return out
	case json.RawMessage:
		return toGeneric([]byte(v))
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func asObject(v any) map[string]any {
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}

func asList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

func numberField(obj map[string]any, key string) (float64, bool) {
	var f float64
	switch v := obj[key].(type) {
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return 0, false
	}
	return f, isFinite(f)
}

// membershipField reads campaignIds, accepting the legacy single
// campaignId field as a one-element membership.
func membershipField(obj map[string]any) []string {
	var ids []string
	for _, v := range asList(obj["campaignIds"]) {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	if legacy := stringField(obj, "campaignId"); legacy != "" {
		ids = append(ids, legacy)
	}
	return ids
}
