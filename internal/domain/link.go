package domain

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	schemePattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+.\-]*)://`)
	uriPattern    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:([^/?#]*)`)
	portPattern   = regexp.MustCompile(`^[0-9]+$`)
)

// InferLinkType classifies a raw link by its scheme. Links without a scheme
// and http(s) links are web links; unknown schemes are custom.
func InferLinkType(raw string) LinkType {
	m := schemePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return LinkWeb
	}
	scheme := strings.ToLower(m[1])
	if scheme == "http" || scheme == "https" {
		return LinkWeb
	}
	for _, t := range LinkTypes {
		if t.Scheme() != "" && t.Scheme() == scheme {
			return t
		}
	}
	return LinkCustom
}

// NormalizeLink returns the canonical form of raw for the given link type.
// An empty result means the link is unusable.
func NormalizeLink(raw string, t LinkType) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}

	switch t {
	case LinkObsidian:
		if schemePattern.MatchString(v) {
			return v
		}
		p := cleanPath(v)
		if p == "" {
			return ""
		}
		return "obsidian://open?path=" + url.PathEscape(p)
	case LinkVSCode, LinkCursor:
		if schemePattern.MatchString(v) {
			return v
		}
		p := cleanPath(v)
		if p == "" {
			return ""
		}
		return t.Scheme() + "://file/" + p
	case LinkNotion:
		if schemePattern.MatchString(v) {
			return v
		}
		p := cleanPath(v)
		if p == "" {
			return ""
		}
		return "notion://" + p
	case LinkCustom:
		return v
	default:
		if !hasURIScheme(v) {
			v = "https://" + strings.TrimLeft(v, "/")
		}
		return stripVolatileReaderParams(v)
	}
}

// hasURIScheme reports whether v starts with any URI scheme, with or without
// an authority (mailto:, tel:). A host:port pair such as localhost:3000 is
// not a scheme.
func hasURIScheme(v string) bool {
	m := uriPattern.FindStringSubmatch(v)
	return m != nil && !portPattern.MatchString(m[1])
}

func cleanPath(v string) string {
	return strings.TrimSpace(strings.TrimLeft(v, "/"))
}
