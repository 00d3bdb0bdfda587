package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a tree display.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	Marker string // styled prefix drawn before the title, e.g. a colour dot
	Detail string // right-aligned badge
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders items as an indented tree with box-drawing connectors.
// Details line up in a column after the widest title.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	lines := make([]string, len(items))
	widest := 0
	for i, item := range items {
		var line string
		if item.Level > 0 {
			connector := strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				connector += treeCorner
			} else {
				connector += treeBranch
			}
			line = StyleDim.Render(connector)
		}
		if item.Marker != "" {
			line += item.Marker + " "
		}
		lines[i] = line + item.Title
		widest = max(widest, lipgloss.Width(lines[i]))
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(lines[i])
		if item.Detail != "" {
			b.WriteString(strings.Repeat(" ", widest-lipgloss.Width(lines[i])+colGap))
			b.WriteString(item.Detail)
		}
		b.WriteString("\n")
	}
	return b.String()
}
