package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// validateEnvelope checks the envelope fields and the shape of its state.
// It returns the parsed export time and every validation error found.
func validateEnvelope(env *rawEnvelope) (time.Time, []error) {
	var errs []error

	var format string
	if err := json.Unmarshal(env.Format, &format); err != nil || format != Format {
		errs = append(errs, fmt.Errorf("format: expected %q, got %s", Format, describe(env.Format)))
	}

	if v, err := numberValue(env.Version); err != nil || v != Version {
		errs = append(errs, fmt.Errorf("version: expected %d, got %s", Version, describe(env.Version)))
	}

	var exportedAt time.Time
	var stamp string
	if err := json.Unmarshal(env.ExportedAt, &stamp); err != nil {
		errs = append(errs, fmt.Errorf("exportedAt: expected a timestamp string, got %s", describe(env.ExportedAt)))
	} else if t, err := parseTimestamp(stamp); err != nil {
		errs = append(errs, fmt.Errorf("exportedAt: unparseable timestamp %q", stamp))
	} else {
		exportedAt = t
	}

	errs = append(errs, validateState(env.State)...)
	return exportedAt, errs
}

func validateState(raw json.RawMessage) []error {
	if !isKind(raw, '{') {
		return []error{fmt.Errorf("state: expected an object, got %s", describe(raw))}
	}
	var st rawState
	if err := json.Unmarshal(raw, &st); err != nil {
		return []error{fmt.Errorf("state: %v", err)}
	}

	var errs []error
	if !isKind(st.Campaigns, '[') {
		errs = append(errs, fmt.Errorf("state.campaigns: expected a list, got %s", describe(st.Campaigns)))
	}
	if !isKind(st.Projects, '[') {
		errs = append(errs, fmt.Errorf("state.projects: expected a list, got %s", describe(st.Projects)))
	}
	return errs
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// parseTimestamp accepts RFC 3339 (fractional seconds optional), a naive
// local timestamp, or a bare date. Naive values are read as UTC.
func parseTimestamp(s string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

func numberValue(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	return f, nil
}

func isKind(raw json.RawMessage, open byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == open
}

func describe(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "nothing"
	}
	if runes := []rune(string(trimmed)); len(runes) > 40 {
		return string(runes[:37]) + "..."
	}
	return string(trimmed)
}
