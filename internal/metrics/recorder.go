package metrics

import (
	"fmt"

	"github.com/san-kum/sphfluid/internal/fluid"
)

// Fields lists the series names accepted by Series.
var Fields = []string{
	"particles", "max_speed", "mean_speed", "kinetic_energy",
	"mean_density", "min_pressure", "max_pressure",
}

// Recorder accumulates one Stats sample per observed frame.
type Recorder struct {
	history []Stats
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Observe(sim *fluid.Simulation) Stats {
	st := Collect(sim)
	r.history = append(r.history, st)
	return st
}

func (r *Recorder) Add(st Stats) { r.history = append(r.history, st) }

func (r *Recorder) History() []Stats { return r.history }

func (r *Recorder) Len() int { return len(r.history) }

func (r *Recorder) Reset() { r.history = r.history[:0] }

// Last returns the most recent sample.
func (r *Recorder) Last() (Stats, bool) {
	if len(r.history) == 0 {
		return Stats{}, false
	}
	return r.history[len(r.history)-1], true
}

// Series extracts one named field across the history.
func (r *Recorder) Series(field string) ([]float64, error) {
	return Series(r.history, field)
}

// Series extracts one named field from stats.
func Series(stats []Stats, field string) ([]float64, error) {
	get, ok := fieldGetters[field]
	if !ok {
		return nil, fmt.Errorf("unknown field: %s", field)
	}
	out := make([]float64, len(stats))
	for i := range stats {
		out[i] = get(&stats[i])
	}
	return out, nil
}

var fieldGetters = map[string]func(*Stats) float64{
	"time":           func(s *Stats) float64 { return s.Time },
	"particles":      func(s *Stats) float64 { return float64(s.Particles) },
	"max_speed":      func(s *Stats) float64 { return s.MaxSpeed },
	"mean_speed":     func(s *Stats) float64 { return s.MeanSpeed },
	"kinetic_energy": func(s *Stats) float64 { return s.KineticEnergy },
	"mean_density":   func(s *Stats) float64 { return s.MeanDensity },
	"min_pressure":   func(s *Stats) float64 { return s.MinPressure },
	"max_pressure":   func(s *Stats) float64 { return s.MaxPressure },
}

// Summary reduces the history to a few run-level figures.
func (r *Recorder) Summary() map[string]float64 {
	out := map[string]float64{"frames": float64(len(r.history))}
	if len(r.history) == 0 {
		return out
	}
	last := r.history[len(r.history)-1]
	out["final_time"] = last.Time
	out["steps"] = float64(last.Steps)
	out["final_kinetic_energy"] = last.KineticEnergy

	peak := 0.0
	for _, st := range r.history {
		peak = max(peak, st.MaxSpeed)
	}
	out["peak_speed"] = peak
	return out
}
