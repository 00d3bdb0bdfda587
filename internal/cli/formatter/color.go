package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// CampaignStyle returns a style in the campaign's own colour, falling back to
// the foreground colour for values lipgloss cannot use.
func CampaignStyle(c domain.Campaign) lipgloss.Style {
	if !strings.HasPrefix(c.Color, "#") {
		return StyleFg
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color))
}

// CampaignName renders a campaign name in bold, in its colour.
func CampaignName(c domain.Campaign) string {
	return CampaignStyle(c).Bold(true).Render(c.Name)
}

// ModeBadge returns a short marker for a project mode.
func ModeBadge(mode domain.Mode) string {
	if mode == domain.ModePhysical {
		return StylePurple.Render("■ physical")
	}
	return StyleGreen.Render("▶ launchable")
}

// LinkBadge labels a link type, e.g. "[obsidian]".
func LinkBadge(t domain.LinkType) string {
	if t == "" {
		return StyleDim.Render("--")
	}
	return StyleBlue.Render(fmt.Sprintf("[%s]", t))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
