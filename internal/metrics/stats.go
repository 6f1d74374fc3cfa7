package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/sphfluid/internal/fluid"
)

// Stats is a snapshot of aggregate particle quantities. Density and
// pressure are the values computed by the most recent step.
type Stats struct {
	Time          float64 `csv:"time" json:"time"`
	Steps         int     `csv:"steps" json:"steps"`
	Particles     int     `csv:"particles" json:"particles"`
	MaxSpeed      float64 `csv:"max_speed" json:"max_speed"`
	MeanSpeed     float64 `csv:"mean_speed" json:"mean_speed"`
	KineticEnergy float64 `csv:"kinetic_energy" json:"kinetic_energy"`
	MeanDensity   float64 `csv:"mean_density" json:"mean_density"`
	MinPressure   float64 `csv:"min_pressure" json:"min_pressure"`
	MaxPressure   float64 `csv:"max_pressure" json:"max_pressure"`
}

// Collect computes Stats for the current state of sim.
func Collect(sim *fluid.Simulation) Stats {
	ps := sim.Particles()
	st := Stats{
		Time:      sim.Time(),
		Steps:     sim.Steps(),
		Particles: len(ps),
	}
	if len(ps) == 0 {
		return st
	}

	speed := make([]float64, len(ps))
	mass := make([]float64, len(ps))
	density := make([]float64, len(ps))
	pressure := make([]float64, len(ps))
	for i, p := range ps {
		speed[i] = p.Speed()
		mass[i] = p.Mass
		density[i] = p.Density
		pressure[i] = p.Pressure
	}

	st.MaxSpeed = floats.Max(speed)
	st.MeanSpeed = stat.Mean(speed, nil)
	st.MeanDensity = stat.Mean(density, nil)
	st.MinPressure = floats.Min(pressure)
	st.MaxPressure = floats.Max(pressure)

	floats.Mul(speed, speed)
	st.KineticEnergy = 0.5 * floats.Dot(mass, speed)
	return st
}
