package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/orbitsim/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const (
	frameInterval  = 33 * time.Millisecond
	energyCap      = 600
	energyChartLen = 50
)

// Model is the live bubbletea view over a running simulation.
type Model struct {
	sim    *sim.Simulation
	camera *Camera

	showTrails bool
	showChart  bool
	simTime    float64

	energy []float64

	width  int
	height int

	lastFrame time.Time
	fps       float64
}

func NewModel(s *sim.Simulation, span float64) *Model {
	return &Model{
		sim:        s,
		camera:     NewCamera(span),
		showTrails: true,
		energy:     make([]float64, 0, energyCap),
		width:      100,
		height:     30,
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		now := time.Now()
		if !m.lastFrame.IsZero() {
			dt := now.Sub(m.lastFrame).Seconds()
			if dt > 0 {
				m.fps = 1.0 / dt
			}
		}
		m.lastFrame = now

		if !m.sim.Paused() {
			frameDt := frameInterval.Seconds()
			m.sim.Step(frameDt)
			m.simTime += frameDt * m.sim.TimeScale()

			m.energy = append(m.energy, m.sim.Energy())
			if len(m.energy) > energyCap {
				m.energy = m.energy[1:]
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "escape":
		return m, tea.Quit
	case " ", "p":
		m.sim.TogglePause()
	case "b":
		m.sim.ToggleSolver()
	case "t":
		m.showTrails = !m.showTrails
	case "e":
		m.showChart = !m.showChart
	case "r":
		m.sim.Reset()
		m.simTime = 0
		m.energy = m.energy[:0]
	case "+", "=":
		m.sim.SpeedUp()
	case "-", "_":
		m.sim.SlowDown()
	case "left", "h":
		m.camera.Rotate(-0.1, 0)
	case "right", "l":
		m.camera.Rotate(0.1, 0)
	case "up", "k":
		m.camera.Rotate(0, 0.1)
	case "down", "j":
		m.camera.Rotate(0, -0.1)
	case "z":
		m.camera.ZoomIn()
	case "x":
		m.camera.ZoomOut()
	}
	return m, nil
}

func (m *Model) View() string {
	cw := m.width - 4
	ch := m.height - 8
	if m.showChart {
		ch -= 8
	}
	if cw < 40 {
		cw = 40
	}
	if ch < 10 {
		ch = 10
	}

	canvas := NewCanvas(cw, ch)
	m.draw(canvas)

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.sim.Paused() {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n  %s %s  %s  %s\n",
		statusIcon, cyan.Render("orbitsim"), statusText,
		dim.Render(fmt.Sprintf("solver %s  speed %.2fx  t=%.1fs  %.0ffps",
			m.sim.Solver(), m.sim.TimeScale(), m.simTime, m.fps))))
	b.WriteString(dimmer.Render("  "+strings.Repeat("─", cw)) + "\n")

	for _, line := range strings.Split(strings.TrimRight(canvas.Render(), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}

	b.WriteString(dimmer.Render("  "+strings.Repeat("─", cw)) + "\n")
	b.WriteString(fmt.Sprintf("  %s %s  %s %s\n",
		dim.Render("bodies"), white.Render(fmt.Sprintf("%d", len(m.sim.Bodies()))),
		dim.Render("energy"), white.Render(fmt.Sprintf("%.1f", m.sim.Energy()))))

	if m.showChart && len(m.energy) > 1 {
		b.WriteString("\n" + m.energyChart(cw) + "\n")
	}

	b.WriteString("\n" + dim.Render("  space pause  b solver  t trails  e energy  ←→↑↓ orbit  z/x zoom  ± speed  r reset  q quit") + "\n")
	return b.String()
}

func (m *Model) draw(c *Canvas) {
	bodies := m.sim.Bodies()
	w, h := c.Width(), c.Height()

	if m.showTrails {
		for _, b := range bodies {
			fg := ColorCode(b.Color.Mul(0.5))
			for _, p := range b.Trajectory() {
				if x, y, _, ok := m.camera.Project(p, w, h); ok {
					c.Set(x, y, '·', fg)
				}
			}
		}
	}

	// Painter's order: farthest first so near bodies win the cell.
	type projected struct {
		x, y  int
		depth float64
		glyph rune
		fg    string
	}
	pts := make([]projected, 0, len(bodies))
	for _, b := range bodies {
		x, y, depth, ok := m.camera.Project(b.Position, w, h)
		if !ok {
			continue
		}
		pts = append(pts, projected{x, y, depth, glyphFor(b.Radius), ColorCode(b.Color)})
	}
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && pts[j].depth > pts[j-1].depth; j-- {
			pts[j], pts[j-1] = pts[j-1], pts[j]
		}
	}
	for _, p := range pts {
		c.Set(p.x, p.y, p.glyph, p.fg)
	}
}

func glyphFor(radius float64) rune {
	switch {
	case radius >= 3:
		return '⬤'
	case radius >= 1:
		return '●'
	default:
		return '∘'
	}
}

func (m *Model) energyChart(width int) string {
	data := m.energy
	if len(data) > energyChartLen {
		data = data[len(data)-energyChartLen:]
	}
	chart := asciigraph.Plot(data,
		asciigraph.Height(5),
		asciigraph.Width(width-12),
		asciigraph.Caption("total energy"))

	var b strings.Builder
	for _, line := range strings.Split(chart, "\n") {
		b.WriteString("  " + dim.Render(line) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RunLive starts the live view in the alternate screen and blocks until the
// user quits.
func RunLive(s *sim.Simulation, span float64) error {
	p := tea.NewProgram(NewModel(s, span), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
