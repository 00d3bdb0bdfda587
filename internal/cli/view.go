package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/orbit/internal/cli/formatter"
	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/alexanderramin/orbit/internal/layout"
	"github.com/alexanderramin/orbit/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// moveStep is how far one key press drags a campaign, in board units.
const moveStep = 20.0

const defaultWatchInterval = 2 * time.Second

// boardChangedMsg carries a board published by the controller, either a
// local edit or an external write picked up by Watch.
type boardChangedMsg struct {
	state *domain.State
}

// placedMsg carries the result of a layout pass.
type placedMsg struct {
	state     *domain.State
	placement layout.Placement
	err       error
}

// editDoneMsg reports the outcome of an edit made from the view.
type editDoneMsg struct {
	status string
	err    error
}

type boardKeyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	SlotLeft  key.Binding
	SlotRight key.Binding
	Toggle    key.Binding
	Reset     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		Next:      key.NewBinding(key.WithKeys("tab", "n"), key.WithHelp("tab", "next campaign")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab", "p"), key.WithHelp("shift+tab", "previous")),
		Up:        key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "drag up")),
		Down:      key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "drag down")),
		Left:      key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "drag left")),
		Right:     key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "drag right")),
		SlotLeft:  key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "slot left")),
		SlotRight: key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "slot right")),
		Toggle:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "ring/slots")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset layout")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Toggle, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Up, k.Down, k.Left, k.Right},
		{k.SlotLeft, k.SlotRight},
		{k.Toggle, k.Reset, k.Help, k.Quit},
	}
}

// boardModel is the interactive board view.
type boardModel struct {
	ctx      context.Context
	board    service.BoardService
	strategy layout.Strategy
	viewport layout.Viewport

	state     *domain.State
	placement layout.Placement
	selected  string

	width, height int
	keys          boardKeyMap
	help          help.Model

	status string
	err    error
}

func newBoardModel(ctx context.Context, app *App) *boardModel {
	return &boardModel{
		ctx:      ctx,
		board:    app.Board,
		strategy: app.strategy(),
		viewport: app.Config.Canvas(),
		state:    app.Board.Current(),
		width:    80,
		height:   24,
		keys:     newBoardKeyMap(),
		help:     help.New(),
	}
}

func (m *boardModel) Init() tea.Cmd {
	return m.place()
}

// place runs a layout pass. Seeded positions are saved by the controller.
func (m *boardModel) place() tea.Cmd {
	ctx, board, strategy, vp := m.ctx, m.board, m.strategy, m.viewport
	return func() tea.Msg {
		p, err := board.Layout(ctx, strategy, vp)
		return placedMsg{state: board.Current(), placement: p, err: err}
	}
}

func (m *boardModel) edit(status string, fn func(ctx context.Context, b service.BoardService) error) tea.Cmd {
	ctx, board := m.ctx, m.board
	return func() tea.Msg {
		return editDoneMsg{status: status, err: fn(ctx, board)}
	}
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case boardChangedMsg:
		if msg.state == m.state {
			return m, nil
		}
		return m, m.place()

	case placedMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		m.state, m.placement = msg.state, msg.placement
		m.keepSelection()
		return m, nil

	case editDoneMsg:
		m.err = nil
		switch {
		case errors.Is(msg.err, service.ErrUnchanged):
			m.status = "Nothing to change."
		case msg.err != nil:
			m.err = msg.err
			m.status = ""
		default:
			m.status = msg.status
		}
		return m, m.place()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Next):
		m.cycle(1)
	case key.Matches(msg, m.keys.Prev):
		m.cycle(-1)
	case key.Matches(msg, m.keys.Toggle):
		if m.isSlots() {
			m.strategy = layout.Ring{}
		} else {
			m.strategy = layout.Slots{}
		}
		m.status = "Layout: " + m.strategy.Name()
		return m, m.place()
	case key.Matches(msg, m.keys.Reset):
		return m, m.edit("Positions cleared.", func(ctx context.Context, b service.BoardService) error {
			return b.ResetLayout(ctx)
		})
	case key.Matches(msg, m.keys.Up):
		return m, m.drag(0, -moveStep)
	case key.Matches(msg, m.keys.Down):
		return m, m.drag(0, moveStep)
	case key.Matches(msg, m.keys.Left):
		return m, m.drag(-moveStep, 0)
	case key.Matches(msg, m.keys.Right):
		return m, m.drag(moveStep, 0)
	case key.Matches(msg, m.keys.SlotLeft):
		return m, m.shiftSlot(-1)
	case key.Matches(msg, m.keys.SlotRight):
		return m, m.shiftSlot(1)
	}
	return m, nil
}

func (m *boardModel) isSlots() bool {
	return m.strategy.Name() == (layout.Slots{}).Name()
}

func (m *boardModel) keepSelection() {
	if m.state.CampaignIndex(m.selected) >= 0 {
		return
	}
	m.selected = ""
	if len(m.state.Campaigns) > 0 {
		m.selected = m.state.Campaigns[0].ID
	}
}

func (m *boardModel) cycle(delta int) {
	n := len(m.state.Campaigns)
	if n == 0 {
		return
	}
	i := m.state.CampaignIndex(m.selected)
	i = ((i+delta)%n + n) % n
	m.selected = m.state.Campaigns[i].ID
}

// drag moves the selected campaign from where the last pass drew it.
func (m *boardModel) drag(dx, dy float64) tea.Cmd {
	if m.selected == "" || m.isSlots() {
		return nil
	}
	from, ok := m.placement.CampaignPoint(m.selected)
	if !ok {
		return nil
	}
	id, to := m.selected, domain.Point{X: from.X + dx, Y: from.Y + dy}
	return m.edit("", func(ctx context.Context, b service.BoardService) error {
		return b.MoveCampaign(ctx, id, to.X, to.Y)
	})
}

func (m *boardModel) shiftSlot(delta int) tea.Cmd {
	i := m.state.CampaignIndex(m.selected)
	if i < 0 {
		return nil
	}
	target := i + delta
	if target < 0 || target >= len(m.state.Campaigns) {
		return nil
	}
	id := m.selected
	return m.edit(fmt.Sprintf("Moved to slot %d.", target+1), func(ctx context.Context, b service.BoardService) error {
		return b.MoveCampaignToSlot(ctx, id, target)
	})
}

func (m *boardModel) View() string {
	var b strings.Builder

	b.WriteString(formatter.StyleHeader.Render("ORBIT"))
	b.WriteString(formatter.Dim("  " + m.strategy.Name() + "  "))
	b.WriteString(formatter.FormatSummary(m.state))
	b.WriteString("\n")

	if len(m.state.Campaigns) == 0 {
		b.WriteString("\n" + formatter.Dim("The board is empty. Add a campaign with 'orbit campaign add NAME'.") + "\n")
	} else if m.isSlots() {
		b.WriteString(formatter.RenderSlots(m.state, m.placement, m.selected) + "\n")
	} else {
		b.WriteString(formatter.RenderRing(m.state, m.placement, m.width-2, m.height-8, m.selected) + "\n")
	}

	if c, ok := m.state.Campaign(m.selected); ok {
		line := formatter.CampaignName(c)
		if c.CurrentMission != "" {
			line += "  " + formatter.StyleYellow.Render("◎ "+c.CurrentMission)
		}
		if c.PreviousMission != "" {
			line += "  " + formatter.Dim("was: "+c.PreviousMission)
		}
		b.WriteString(line + "\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString(formatter.Dim(m.status) + "\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func newViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Open the interactive board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("view needs an interactive terminal; use 'orbit board' instead")
			}
			return runBoardView(cmd.Context(), app)
		},
	}
}

// runBoardView runs the board TUI and the external-change watcher together.
// Quitting the TUI stops the watcher; a watcher failure stops the TUI.
func runBoardView(ctx context.Context, app *App) error {
	interval := app.Config.WatchInterval
	if interval <= 0 {
		interval = defaultWatchInterval
	}

	g, ctx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	p := tea.NewProgram(newBoardModel(ctx, app), tea.WithAltScreen(), tea.WithContext(ctx))
	unsubscribe := app.Board.Subscribe(func(s *domain.State) {
		p.Send(boardChangedMsg{state: s})
	})
	defer unsubscribe()

	g.Go(func() error {
		return app.Board.Watch(watchCtx, interval)
	})
	g.Go(func() error {
		defer stopWatch()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return app.Board.Flush(context.WithoutCancel(ctx))
}
