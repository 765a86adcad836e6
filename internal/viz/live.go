package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/fusionsim/gcorbit/internal/geom"
	"github.com/fusionsim/gcorbit/internal/orbit"
)

const (
	width  = 60
	height = 28
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model replays a traced orbit sample by sample inside the plasma
// boundary, with scrubbing and speed control.
type Model struct {
	orbit    *orbit.Orbit
	boundary *geom.Polygon
	title    string

	rs, zs, phis []float64
	times        []float64
	canvas       *Canvas

	head    int
	speed   int
	running bool
}

func NewModel(o *orbit.Orbit, boundary *geom.Polygon, title string) Model {
	c := NewCanvas(width, height)

	rs, zs := o.R(), o.Z()
	if boundary != nil && len(boundary.Vertices) > 0 {
		rMin, rMax := boundary.Vertices[0].R, boundary.Vertices[0].R
		zMin, zMax := boundary.Vertices[0].Z, boundary.Vertices[0].Z
		for _, p := range boundary.Vertices {
			rMin, rMax = minF(rMin, p.R), maxF(rMax, p.R)
			zMin, zMax = minF(zMin, p.Z), maxF(zMax, p.Z)
		}
		c.SetView(rMin, rMax, zMin, zMax)
	} else if len(rs) > 0 {
		rMin, rMax := rs[0], rs[0]
		zMin, zMax := zs[0], zs[0]
		for i := range rs {
			rMin, rMax = minF(rMin, rs[i]), maxF(rMax, rs[i])
			zMin, zMax = minF(zMin, zs[i]), maxF(zMax, zs[i])
		}
		c.SetView(rMin, rMax, zMin, zMax)
	}

	return Model{
		orbit:    o,
		boundary: boundary,
		title:    title,
		rs:       rs,
		zs:       zs,
		phis:     o.Phi(),
		times:    o.Times(),
		canvas:   c,
		head:     1,
		speed:    1,
		running:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.head = 1
		case "[":
			m.scrub(-m.speed)
		case "]":
			m.scrub(m.speed)
		case "+", "=":
			if m.speed < 64 {
				m.speed *= 2
			}
		case "-", "_":
			if m.speed > 1 {
				m.speed /= 2
			}
		}
	case TickMsg:
		if m.running {
			m.head += m.speed
			if m.head >= len(m.rs) {
				m.head = 1
			}
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) scrub(d int) {
	m.running = false
	m.head += d
	if m.head < 1 {
		m.head = 1
	}
	if m.head >= len(m.rs) {
		m.head = len(m.rs) - 1
	}
}

func (m Model) View() string {
	m.canvas.Clear()
	m.canvas.PlotPolygon(m.boundary)
	m.canvas.PlotPath(m.rs[:m.head+1], m.zs[:m.head+1])
	m.canvas.Mark(m.rs[m.head], m.zs[m.head])

	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(fmt.Sprintf("%s  x%d\n\n", status, m.speed))

	if m.head > 1 {
		chart := asciigraph.Plot(m.rs[:m.head+1], asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("R [m]"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f us", m.times[m.head]*1e6)) + "\n")
	s.WriteString(labelStyle.Render("R") + valueStyle.Render(fmt.Sprintf("%.4f m", m.rs[m.head])) + "\n")
	s.WriteString(labelStyle.Render("Z") + valueStyle.Render(fmt.Sprintf("%.4f m", m.zs[m.head])) + "\n")
	s.WriteString(labelStyle.Render("Phi") + valueStyle.Render(fmt.Sprintf("%.3f rad", m.phis[m.head])) + "\n")
	s.WriteString(labelStyle.Render("Sample") + valueStyle.Render(fmt.Sprintf("%d / %d", m.head, len(m.rs)-1)) + "\n")

	closure := "open"
	if m.orbit.Complete() {
		closure = "closed"
	} else if m.orbit.HitsBoundary() {
		closure = "lost"
	}
	s.WriteString(labelStyle.Render("Orbit") + valueStyle.Render(closure) + "\n")

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Restart Q:Quit\n[ ]:Scrub  +/-:Speed"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
