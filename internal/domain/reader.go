package domain

import (
	"net/url"
	"regexp"
	"strings"
)

// readerRule names query parameters that capture a reading position on a
// hosted reader. Reopening a link without them lets the service resume from
// its own last-read tracking.
type readerRule struct {
	host       *regexp.Regexp
	pathPrefix string
	params     []string
}

var volatileReaderRules = []readerRule{
	{
		host:       regexp.MustCompile(`^read\.amazon\.[a-z]{2,3}(\.[a-z]{2})?$`),
		pathPrefix: "/",
		params:     []string{"location"},
	},
}

// stripVolatileReaderParams removes position parameters from links that
// match a known reader. Every other link is returned unchanged.
func stripVolatileReaderParams(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}
	host := strings.ToLower(u.Hostname())
	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, rule := range volatileReaderRules {
		if !rule.host.MatchString(host) || !strings.HasPrefix(path, rule.pathPrefix) {
			continue
		}
		q := u.Query()
		removed := false
		for _, p := range rule.params {
			if q.Has(p) {
				q.Del(p)
				removed = true
			}
		}
		if !removed {
			return raw
		}
		u.RawQuery = q.Encode()
		return u.String()
	}
	return raw
}
