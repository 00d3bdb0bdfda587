package domain

import (
	"slices"
	"strings"
)

// Mode decides whether a project opens a link or stands for offline work.
type Mode string

const (
	ModeLaunchable Mode = "launchable"
	ModePhysical   Mode = "physical"
)

// ParseMode accepts a mode name case-insensitively.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLaunchable:
		return ModeLaunchable, true
	case ModePhysical:
		return ModePhysical, true
	}
	return "", false
}

// SanitizeMode maps unknown values to ModeLaunchable.
func SanitizeMode(s string) Mode {
	if m, ok := ParseMode(s); ok {
		return m
	}
	return ModeLaunchable
}

// LinkType classifies how a project link is opened.
type LinkType string

const (
	LinkWeb      LinkType = "web"
	LinkObsidian LinkType = "obsidian"
	LinkVSCode   LinkType = "vscode"
	LinkCursor   LinkType = "cursor"
	LinkNotion   LinkType = "notion"
	LinkCustom   LinkType = "custom"
)

// LinkTypes is the canonical, ordered set of accepted link types.
var LinkTypes = []LinkType{LinkWeb, LinkObsidian, LinkVSCode, LinkCursor, LinkNotion, LinkCustom}

// ParseLinkType accepts a link type name case-insensitively.
func ParseLinkType(s string) (LinkType, bool) {
	v := LinkType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range LinkTypes {
		if t == v {
			return t, true
		}
	}
	return "", false
}

// Valid reports whether t is one of LinkTypes.
func (t LinkType) Valid() bool {
	return slices.Contains(LinkTypes, t)
}

// Scheme returns the URI scheme owned by a deep-link type, or "" for web and custom links.
func (t LinkType) Scheme() string {
	switch t {
	case LinkObsidian, LinkVSCode, LinkCursor, LinkNotion:
		return string(t)
	}
	return ""
}
