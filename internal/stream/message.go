package stream

import "github.com/san-kum/sphfluid/internal/fluid"

// Message is one frame on the wire. Positions are in domain units with y up.
type Message struct {
	Time      float64      `json:"time"`
	Steps     int          `json:"steps"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Particles [][2]float64 `json:"particles"`
	Colors    []string     `json:"colors,omitempty"`
}

// NewMessage snapshots sim. Colours are included when withColor is set.
func NewMessage(sim *fluid.Simulation, withColor bool) Message {
	w, h := sim.Domain()
	ps := sim.Particles()
	m := Message{
		Time:      sim.Time(),
		Steps:     sim.Steps(),
		Width:     w,
		Height:    h,
		Particles: make([][2]float64, len(ps)),
	}
	if withColor {
		m.Colors = make([]string, len(ps))
	}
	for i, p := range ps {
		m.Particles[i] = [2]float64{p.Pos.X, p.Pos.Y}
		if withColor {
			m.Colors[i] = p.Color.Clamped().Hex()
		}
	}
	return m
}
