// Package viz renders a live terminal dashboard of a running reactor
// simulation: sliding height/power/tension graphs plus a stats panel.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/vortexlabs/talaria/internal/reactor"
)

const (
	graphWidth    = 70
	graphHeight   = 8
	historyWindow = 600
)

type TickMsg time.Time

// Model steps the engine in batches between frames so long runs play
// back faster than real time.
type Model struct {
	engine        *reactor.Engine
	profile       string
	duration      float64
	dt            float64
	t             float64
	stepsPerFrame int
	frameRate     int

	running bool
	done    bool
	err     error

	last        reactor.StepResult
	heightHist  []float64
	powerHist   []float64
	tensionHist []float64
	snaps       int
	lastSnapT   float64
}

// NewModel prepares a live view of engine under the given profile.
func NewModel(engine *reactor.Engine, profile string, duration float64, frameRate int) Model {
	if frameRate <= 0 {
		frameRate = 30
	}
	return Model{
		engine:        engine,
		profile:       profile,
		duration:      duration,
		dt:            engine.Config().Dt,
		stepsPerFrame: 2000,
		frameRate:     frameRate,
		running:       true,
		heightHist:    make([]float64, 0, historyWindow),
		powerHist:     make([]float64, 0, historyWindow),
		tensionHist:   make([]float64, 0, historyWindow),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.stepsPerFrame *= 2
		case "-":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame /= 2
			}
		}
		return m, nil

	case TickMsg:
		if m.running && !m.done {
			m.advance()
		}
		if m.err != nil {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame; i++ {
		if m.t >= m.duration {
			m.done = true
			return
		}
		res, err := m.engine.Advance(m.t)
		if err != nil {
			m.err = err
			return
		}
		m.t += m.dt
		m.last = res
		if res.Broke {
			m.snaps++
			m.lastSnapT = m.t
		}
	}
	m.record()
}

func (m *Model) record() {
	m.heightHist = slide(m.heightHist, m.last.Position.Z*1000)
	m.powerHist = slide(m.powerHist, m.last.PowerInput)
	m.tensionHist = slide(m.tensionHist, m.last.Tension*1e9)
}

func slide(hist []float64, v float64) []float64 {
	hist = append(hist, v)
	if len(hist) > historyWindow {
		hist = hist[1:]
	}
	return hist
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("simulation error: %v\n", m.err)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("talaria live — %s profile", m.profile)))
	b.WriteString("\n")

	graphs := lipgloss.JoinVertical(lipgloss.Left,
		m.panel("height [mm]", m.heightHist),
		m.panel("power [unit]", m.powerHist),
		m.panel("tension [nN]", m.tensionHist),
	)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, graphs, m.stats()))
	b.WriteString(helpStyle.Render("space pause · +/- speed · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) panel(caption string, data []float64) string {
	if len(data) < 2 {
		return panelStyle.Render(fmt.Sprintf("%-*s", graphWidth, caption+" (warming up)"))
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption(caption),
	)
	return panelStyle.Render(graph)
}

func (m Model) stats() string {
	st := m.engine.State()

	status := "running"
	if m.done {
		status = "complete"
	} else if !m.running {
		status = "paused"
	}

	rows := []string{
		row("status", status),
		row("sim time", fmt.Sprintf("%.1f / %.0f s", m.t, m.duration)),
		row("speed", fmt.Sprintf("%d steps/frame", m.stepsPerFrame)),
		"",
		row("height", fmt.Sprintf("%.2f mm", st.Position.Z*1000)),
		row("length", fmt.Sprintf("%.3f mm", st.FilamentLength*1000)),
		row("max length", fmt.Sprintf("%.3f mm", st.MaxLength*1000)),
		row("power", fmt.Sprintf("%.1f", st.PowerInput)),
		row("vapor radius", fmt.Sprintf("%.1f µm", st.VaporRadius*1e6)),
		row("velocity", fmt.Sprintf("%.3f mm/s", st.VerticalVelocity*1000)),
		row("target", fmt.Sprintf("%.3f mm/s", m.last.TargetVelocity*1000)),
		row("tension", fmt.Sprintf("%.1f nN", m.last.Tension*1e9)),
	}

	snapLine := row("snaps", fmt.Sprintf("%d", st.BreakCount))
	if m.snaps > 0 && m.t-m.lastSnapT < 5 {
		snapLine = snapStyle.Render(fmt.Sprintf("snaps: %d  !!!SNAP", st.BreakCount))
	}
	rows = append(rows, "", snapLine)

	return statsStyle.Render(strings.Join(rows, "\n"))
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}
