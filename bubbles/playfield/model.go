package playfield

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ghthor/shapesboom/blokfall"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// FrameInterval is how often the scheduler ticks the session.
const FrameInterval = time.Second / 60

// BannerDuration is how long the game over banner stays up.
const BannerDuration = 2 * time.Second

// FrameMsg is one scheduler tick.
type FrameMsg time.Time

func frameTick() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg { return FrameMsg(t) })
}

var (
	Bold = lipgloss.NewStyle().Bold(true)

	StyleLabel = lipgloss.NewStyle().Faint(true)

	StyleBanner = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 3).
			Border(lipgloss.DoubleBorder()).
			Align(lipgloss.Center)

	StyleHighScore = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFF00"))
)

type tableView struct {
	board string
	side  string
}

var _ table.Data = tableView{}

func (t tableView) At(row, col int) string {
	switch col {
	case 0:
		return t.board
	case 1:
		return t.side
	default:
		return ""
	}
}

func (t tableView) Rows() int    { return 1 }
func (t tableView) Columns() int { return 2 }

// staticView adapts a rendered string to tea.Model for the overlay.
type staticView string

func (v staticView) Init() tea.Cmd                       { return nil }
func (v staticView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }
func (v staticView) View() string                        { return string(v) }

// Model plays one blokfall session in a terminal. It is the session's
// scheduler, input source and renderer.
type Model struct {
	b    strings.Builder
	side strings.Builder

	session  *blokfall.Session
	renderer *BoardRenderer

	keys KeyMap
	help help.Model

	table *table.Table
	tableView

	overlay *overlay.Model

	// Player is shown above the score when set.
	Player string

	now         time.Time
	last        time.Time
	banner      string
	bannerUntil time.Time
	newBest     bool

	render bool
}

var _ tea.Model = &Model{}
var _ blokfall.Observer = &Model{}

// New creates a Model and the session it drives.
func New(cfg blokfall.Config, opts ...blokfall.Option) *Model {
	m := &Model{
		keys:     DefaultKeyMap(),
		help:     help.New(),
		renderer: NewBoardRenderer(blokfall.Palette),
	}
	opts = append(opts, blokfall.WithObserver(m))
	m.session = blokfall.New(cfg, opts...)
	return m
}

func (m *Model) Session() *blokfall.Session { return m.session }

func (m *Model) Init() tea.Cmd {
	m.table = table.New().Border(lipgloss.RoundedBorder())
	m.overlay = overlay.New(nil, nil, overlay.Center, overlay.Center, 0, 0)
	m.session.Start()
	m.render = true
	return frameTick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.UpdatePlayfield(msg)
}

func (m *Model) UpdatePlayfield(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		m.HandleFrame(time.Time(msg))
		return m, frameTick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.render = true
			return m, nil
		}
		m.HandleInput(m.keys.Input(msg))

	case blokfall.Input:
		m.HandleInput(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.render = true
	}
	return m, nil
}

// HandleFrame feeds the time since the previous frame to the session.
func (m *Model) HandleFrame(t time.Time) {
	m.now = t
	var elapsed time.Duration
	if !m.last.IsZero() {
		elapsed = t.Sub(m.last)
	}
	m.last = t

	if m.session.Update(elapsed) {
		m.render = true
	}
	if m.banner != "" && !t.Before(m.bannerUntil) {
		m.banner = ""
		m.render = true
	}
}

func (m *Model) HandleInput(in blokfall.Input) {
	if m.session.Handle(in) {
		m.render = true
	}
}

func (m *Model) ScoreChanged(int) {
	m.render = true
}

func (m *Model) HighScoreChanged(int) {
	m.newBest = true
	m.render = true
}

func (m *Model) GameOver(final int) {
	m.banner = fmt.Sprintf("GAME OVER\n\nscore %d", final)
	m.bannerUntil = m.now.Add(BannerDuration)
	m.newBest = false
	m.render = true
}

// Banner returns the text of the game over banner while it is shown.
func (m *Model) Banner() string { return m.banner }

func (m *Model) View() string {
	if !m.render {
		return m.b.String()
	}

	f := m.session.Frame()

	m.b.Reset()
	m.renderer.Render(&m.b, f)
	m.tableView.board = m.b.String()

	m.side.Reset()
	m.viewSideIn(&m.side, f)
	m.tableView.side = m.side.String()

	m.b.Reset()
	m.table.Data(m.tableView)
	v := m.table.Render()

	if m.banner != "" {
		m.overlay.Foreground = staticView(StyleBanner.Render(m.banner))
		m.overlay.Background = staticView(v)
		v = m.overlay.View()
	}

	m.b.WriteString(v)
	m.b.WriteString("\n")
	m.b.WriteString(m.help.View(m.keys))

	m.render = false
	return m.b.String()
}

func (m *Model) viewSideIn(b *strings.Builder, f blokfall.Frame) {
	if m.Player != "" {
		fmt.Fprintf(b, "%s\n%s\n\n", StyleLabel.Render("player"), Bold.Render(m.Player))
	}

	if shape, ok := m.session.Library().ByID(f.PieceShape); ok && f.PieceVisible {
		fmt.Fprintf(b, "%s\n%s\n\n", StyleLabel.Render("piece"), Bold.Render(shape.Name()))
	}

	fmt.Fprintf(b, "%s\n%s\n\n", StyleLabel.Render("score"), Bold.Render(fmt.Sprint(f.Score)))

	high := Bold.Render(fmt.Sprint(f.HighScore))
	if m.newBest {
		high = StyleHighScore.Render(fmt.Sprint(f.HighScore))
	}
	fmt.Fprintf(b, "%s\n%s\n\n", StyleLabel.Render("high score"), high)

	fmt.Fprintln(b, StyleLabel.Render("next"))
	for i, s := range f.Next {
		m.renderer.RenderShape(b, s)
		if i+1 != len(f.Next) {
			fmt.Fprintln(b)
		}
		fmt.Fprintln(b)
	}
}
