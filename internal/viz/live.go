package viz

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sphfluid/internal/fluid"
	"github.com/san-kum/sphfluid/internal/metrics"
	"github.com/san-kum/sphfluid/internal/scene"
)

const (
	width           = 64
	height          = 24
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model runs one simulation, advancing FrameTime of simulated time per tick.
type Model struct {
	sim       *fluid.Simulation
	name      string
	sceneText string
	frameTime float64

	canvas        *Canvas
	running       bool
	showHelp      bool
	err           error
	stats         metrics.Stats
	energyHistory []float64
	speedHistory  []float64

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int
}

// NewModel wraps sim. sceneText is reloaded by the R key.
func NewModel(sim *fluid.Simulation, name, sceneText string, frameTime float64) Model {
	params := sim.GetParams()
	initial := make(map[string]float64, len(params))
	keys := make([]string, 0, len(params))
	for k, v := range params {
		initial[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := Model{
		sim:           sim,
		name:          name,
		sceneText:     sceneText,
		frameTime:     frameTime,
		canvas:        NewCanvas(width, height),
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		speedHistory:  make([]float64, 0, historyCapacity),
		params:        params,
		initialParams: initial,
		paramKeys:     keys,
	}
	m.stats = metrics.Collect(sim)
	return m
}

func (m Model) tick() tea.Cmd {
	interval := time.Duration(m.frameTime * float64(time.Second))
	interval = max(interval, time.Second/120)
	return tea.Tick(interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running && m.err == nil
		case "r":
			m.reload()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

// adjustParam scales the selected parameter. A zero value is nudged off
// zero so it can grow.
func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if val == 0 && factor > 1 {
		val = 0.01
	}
	if err := m.sim.SetParam(key, val); err != nil {
		return
	}
	m.params[key] = val
}

// step advances one frame of simulated time.
func (m *Model) step() {
	if _, err := m.sim.AdvanceBy(context.Background(), m.frameTime); err != nil {
		m.err = err
		m.running = false
	}
	m.stats = metrics.Collect(m.sim)
	m.energyHistory = appendCapped(m.energyHistory, m.stats.KineticEnergy)
	m.speedHistory = appendCapped(m.speedHistory, m.stats.MaxSpeed)
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

// reload reapplies the scene and restores the initial parameters.
func (m *Model) reload() {
	for k, v := range m.initialParams {
		if err := m.sim.SetParam(k, v); err == nil {
			m.params[k] = v
		}
	}
	if err := scene.Load(m.sim, m.sceneText); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.params = m.sim.GetParams()
	m.err = nil
	m.running = true
	m.energyHistory = m.energyHistory[:0]
	m.speedHistory = m.speedHistory[:0]
	m.stats = metrics.Collect(m.sim)
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.canvas.DrawBorder()
	w, h := m.sim.Domain()
	m.canvas.DrawParticles(m.sim.Particles(), w, h)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	theme := CurrentTheme
	canvasView := canvasStyle.Foreground(theme.Fluid).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(StatusError.Render("UNSTABLE") + "\n" + Subtle.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.3fs", m.stats.Time))
	row("Steps", fmt.Sprintf("%d", m.stats.Steps))
	row("Particles", fmt.Sprintf("%d", m.stats.Particles))
	row("Max speed", fmt.Sprintf("%.2f", m.stats.MaxSpeed))
	row("Density", fmt.Sprintf("%.2f", m.stats.MeanDensity))
	row("Pressure", fmt.Sprintf("[%.1f, %.1f]", m.stats.MinPressure, m.stats.MaxPressure))
	s.WriteString(MetricLabel.Render("Speed") + SparklineChart(m.speedHistory, 24) + "\n")

	s.WriteString("\nPARAMETERS\n")
	active := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-13s %.4g", k, m.params[k])
		if i == m.selected {
			s.WriteString(active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + Subtle.Render(line) + "\n")
		}
	}
	s.WriteString(helpStyle.Render("\n" + Separator(24) + "\nSP:Pause R:Reload Q:Quit\nT:Theme  ?:Help ↑↓:Tune"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reload scene             ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts the live view in the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
