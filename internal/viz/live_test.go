package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/sphfluid/internal/fluid"
	"github.com/san-kum/sphfluid/internal/scene"
)

const testScene = "GRAVITY 1 NEW_P POS 100 400 V 2 0 M 1 END_P NEW_P POS 300 400 M 1 END_P"

func newLive(t *testing.T) Model {
	t.Helper()
	sim, err := scene.Construct(4, testScene, fluid.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(sim, "test", testScene, 0.05)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestLiveTickAdvances(t *testing.T) {
	m := newLive(t)
	m = update(m, TickMsg(time.Now()))
	m = update(m, TickMsg(time.Now()))

	if got := m.sim.Time(); got < 0.1-1e-9 {
		t.Errorf("time = %v, want 0.1", got)
	}
	if len(m.energyHistory) != 2 {
		t.Errorf("history = %d samples, want 2", len(m.energyHistory))
	}
	if !strings.Contains(m.View(), "RUNNING") {
		t.Error("view should report running")
	}
}

func TestLivePause(t *testing.T) {
	m := newLive(t)
	m = update(m, key(" "))
	m = update(m, TickMsg(time.Now()))

	if m.sim.Time() != 0 {
		t.Errorf("paused model advanced to %v", m.sim.Time())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should report paused")
	}
}

func TestLiveReload(t *testing.T) {
	m := newLive(t)
	m = update(m, TickMsg(time.Now()))
	m = update(m, key("r"))

	if m.sim.Time() != 0 {
		t.Errorf("reload left time at %v", m.sim.Time())
	}
	if m.sim.Particle(0).Vel.X != 2 {
		t.Error("reload did not restore particle state")
	}
	if len(m.energyHistory) != 0 {
		t.Error("reload kept history")
	}
}

func TestLiveAdjustParam(t *testing.T) {
	m := newLive(t)
	for m.paramKeys[m.selected] != "gravity" {
		m = update(m, tea.KeyMsg{Type: tea.KeyTab})
	}
	m = update(m, key("k"))

	if got := m.sim.Gravity(); got != 1.05 {
		t.Errorf("gravity = %v, want 1.05", got)
	}
	m = update(m, key("r"))
	if got := m.sim.Gravity(); got != 1 {
		t.Errorf("reload kept gravity %v", got)
	}
}

func TestLiveQuit(t *testing.T) {
	m := newLive(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
