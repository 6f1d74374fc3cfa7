package viz

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/scene"
)

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var configFields = []string{"smoothing_radius", "gravity", "stiffness", "viscosity", "rest_density", "fps"}

// App picks a preset, lets the user tune it, then hands over to a Model.
type App struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	liveModel     Model
}

func NewApp() *App {
	return &App{
		state:   stateMenu,
		presets: config.ListPresets(),
	}
}

func (m App) Init() tea.Cmd { return nil }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.cfg = config.GetPreset(m.selected)
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m App) configKey(msg tea.KeyMsg) (App, tea.Cmd) {
	name := configFields[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.setField(name, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(configFields)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(m.field(name), 'g', -1, 64)
	case "s":
		cmd := m.start()
		return m, cmd
	case "left", "h":
		m.adjust(name, 0.9)
	case "right", "l":
		m.adjust(name, 1.1)
	}
	return m, nil
}

func (m *App) field(name string) float64 {
	if name == "fps" {
		return float64(m.cfg.Render.FPS)
	}
	v, _ := m.cfg.Param(name)
	return v
}

func (m *App) setField(name string, v float64) {
	if name == "fps" {
		m.cfg.Render.FPS = max(int(math.Round(v)), 1)
		return
	}
	_ = m.cfg.SetParam(name, v)
}

// adjust scales a field by factor. FPS always moves by at least one frame.
func (m *App) adjust(name string, factor float64) {
	if name != "fps" {
		m.setField(name, m.field(name)*factor)
		return
	}
	fps := m.cfg.Render.FPS
	next := int(math.Round(float64(fps) * factor))
	if factor > 1 {
		next = max(next, fps+1)
	} else {
		next = min(next, fps-1)
	}
	m.cfg.Render.FPS = max(next, 1)
}

func (m *App) start() tea.Cmd {
	sim, err := scene.Construct(m.cfg.Simulation.SmoothingRadius, m.cfg.Scene, m.cfg.Options())
	if err != nil {
		m.err = err
		return nil
	}
	m.liveModel = NewModel(sim, m.selected, m.cfg.Scene, m.cfg.FrameTime())
	m.state = stateSim
	return m.liveModel.Init()
}

func (m App) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func header(title, sub string) string {
	return "\n\n    " + GradientText(title, "#00cccc", "#ff88ff") + "\n    " + Subtle.Render(sub) + "\n    " + Subtle.Render("─────────────────────────") + "\n\n"
}

func hints(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (m App) viewMenu() string {
	var b strings.Builder
	b.WriteString(header("SPHFLUID", "particle fluid simulator"))
	for i, name := range m.presets {
		desc := config.Presets[name].Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-10s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", name)), Subtle.Render(desc)))
		}
	}
	b.WriteString(hints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m App) viewConfig() string {
	var b strings.Builder
	b.WriteString(header(strings.ToUpper(m.selected), m.cfg.Description))
	for i, name := range configFields {
		valStr := fmt.Sprintf("%10.4g", m.field(name))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-16s", name)), descStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-16s", name)), Subtle.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusError.Render(m.err.Error()) + "\n")
	}
	b.WriteString(hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back"))
	return b.String()
}

func RunInteractive() error {
	_, err := tea.NewProgram(NewApp(), tea.WithAltScreen()).Run()
	return err
}
