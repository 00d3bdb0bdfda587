package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/alexanderramin/orbit/internal/layout"
	"github.com/charmbracelet/lipgloss"
)

const (
	minCanvasCols = 24
	minCanvasRows = 8
	slotsPerRow   = 3
	slotBoxWidth  = 26
)

type canvasCell struct {
	ch    rune
	style lipgloss.Style
}

type canvas struct {
	cols, rows int
	cells      [][]canvasCell
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, cells: make([][]canvasCell, rows)}
	for r := range c.cells {
		c.cells[r] = make([]canvasCell, cols)
		for i := range c.cells[r] {
			c.cells[r][i] = canvasCell{ch: ' ', style: StyleFg}
		}
	}
	return c
}

func (c *canvas) set(col, row int, ch rune, style lipgloss.Style) {
	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return
	}
	c.cells[row][col] = canvasCell{ch: ch, style: style}
}

func (c *canvas) write(col, row int, text string, style lipgloss.Style) {
	for i, r := range []rune(text) {
		c.set(col+i, row, r, style)
	}
}

// project maps a board point onto the character grid.
func (c *canvas) project(pt domain.Point, vp layout.Viewport) (col, row int) {
	col = int(math.Round(pt.X / vp.Width * float64(c.cols-1)))
	row = int(math.Round(pt.Y / vp.Height * float64(c.rows-1)))
	return min(max(col, 0), c.cols-1), min(max(row, 0), c.rows-1)
}

func (c *canvas) String() string {
	lines := make([]string, c.rows)
	for r, row := range c.cells {
		var b strings.Builder
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && sameStyle(row[i].style, row[start].style) {
				continue
			}
			run := make([]rune, 0, i-start)
			for _, cell := range row[start:i] {
				run = append(run, cell.ch)
			}
			b.WriteString(row[start].style.Render(string(run)))
			start = i
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}

func sameStyle(a, b lipgloss.Style) bool {
	return a.GetForeground() == b.GetForeground() &&
		a.GetBold() == b.GetBold() &&
		a.GetUnderline() == b.GetUnderline()
}

// RenderPlacement draws a placement in the terminal: the ring canvas for
// free layouts, a grid of boxes for the slot board.
func RenderPlacement(s *domain.State, p layout.Placement, cols, rows int) string {
	if p.Strategy == (layout.Slots{}).Name() {
		return RenderSlots(s, p)
	}
	return RenderRing(s, p, cols, rows)
}

// RenderRing draws campaigns and their project clusters on a character grid
// scaled from the placement viewport. selected, when non-empty, highlights
// one campaign.
func RenderRing(s *domain.State, p layout.Placement, cols, rows int, selected ...string) string {
	cv := newCanvas(max(cols, minCanvasCols), max(rows, minCanvasRows))
	vp := p.Viewport.Sanitize()

	for _, spot := range p.Projects {
		style := StyleDim
		if proj, ok := s.Project(spot.ID); ok && len(proj.CampaignIDs) > 0 {
			if c, ok := s.Campaign(proj.CampaignIDs[0]); ok {
				style = CampaignStyle(c)
			}
		}
		col, row := cv.project(spot.Point, vp)
		cv.set(col, row, '◦', style)
	}

	for _, spot := range p.Campaigns {
		c, ok := s.Campaign(spot.ID)
		if !ok {
			continue
		}
		style := CampaignStyle(c)
		marker := '●'
		if len(selected) > 0 && selected[0] == c.ID {
			marker = '◉'
			style = style.Bold(true).Underline(true)
		}
		col, row := cv.project(spot.Point, vp)
		cv.set(col, row, marker, style)

		label := Truncate(c.Name, max(cv.cols-col-2, 0))
		if col+2+len([]rune(label)) > cv.cols {
			label = Truncate(c.Name, max(col-1, 0))
			cv.write(col-1-len([]rune(label)), row, label, style.Bold(true))
			continue
		}
		cv.write(col+2, row, label, style.Bold(true))
	}

	frame := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorDim)
	return frame.Render(cv.String())
}

// RenderSlots draws the six-slot board as boxes, three per row. Empty slots
// are drawn as dim placeholders. selected, when non-empty, highlights one
// campaign.
func RenderSlots(s *domain.State, p layout.Placement, selected ...string) string {
	boxes := make([]string, 0, len(p.Slots))
	for _, slot := range p.Slots {
		boxes = append(boxes, renderSlot(s, slot, len(selected) > 0 && selected[0] == slot.CampaignID && !slot.Empty))
	}

	var rowsOut []string
	for i := 0; i < len(boxes); i += slotsPerRow {
		end := min(i+slotsPerRow, len(boxes))
		rowsOut = append(rowsOut, lipgloss.JoinHorizontal(lipgloss.Top, boxes[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rowsOut...)
}

func renderSlot(s *domain.State, slot layout.Slot, selected bool) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Width(slotBoxWidth).
		Padding(0, 1)

	if slot.Empty {
		return box.Render(Dim(fmt.Sprintf("slot %d", slot.Index+1)) + "\n" + Dim("(empty)"))
	}

	c, _ := s.Campaign(slot.CampaignID)
	border := lipgloss.NormalBorder()
	if selected {
		border = lipgloss.ThickBorder()
	}
	box = box.Border(border).BorderForeground(lipgloss.Color(c.Color))

	lines := []string{CampaignName(c)}
	if c.CurrentMission != "" {
		lines = append(lines, StyleYellow.Render("◎ "+Truncate(c.CurrentMission, slotBoxWidth-4)))
	}
	for _, id := range slot.ProjectIDs {
		proj, ok := s.Project(id)
		if !ok {
			continue
		}
		lines = append(lines, Dim("• ")+Truncate(proj.Name, slotBoxWidth-4))
	}
	if len(slot.ProjectIDs) == 0 {
		lines = append(lines, Dim("no projects"))
	}
	return box.Render(strings.Join(lines, "\n"))
}
