package fluid

import (
	"log/slog"
	"math"
)

// Reference constants of the solver.
const (
	DefaultWidth       = 512.0
	DefaultHeight      = 512.0
	DefaultStiffness   = 1000.0
	DefaultViscosity   = 1000.0
	DefaultRestDensity = 1000.0
	DefaultMaxStep     = 0.01

	// DensityFloor seeds every density sum so it is never zero.
	DensityFloor = 1e-6

	// CFLFactor divides h/vmax in the timestep bound.
	CFLFactor = 1.33
)

// Options holds the parameters fixed at construction.
type Options struct {
	Width, Height float64
	Gravity       float64
	Stiffness     float64
	Viscosity     float64
	RestDensity   float64
	MaxStep       float64

	// Workers > 1 splits the density and force passes across goroutines.
	Workers int
	// UseGrid replaces the all-pairs neighbour search with a uniform grid.
	UseGrid bool
	// ValidateState fails a step that leaves NaN or Inf in any particle.
	ValidateState bool

	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		Stiffness:     DefaultStiffness,
		Viscosity:     DefaultViscosity,
		RestDensity:   DefaultRestDensity,
		MaxStep:       DefaultMaxStep,
		Workers:       1,
		ValidateState: true,
	}
}

func (o Options) validate() error {
	if !positive(o.Width) || !positive(o.Height) {
		return invalidf("domain %gx%g", o.Width, o.Height)
	}
	if !positive(o.MaxStep) {
		return invalidf("max step %g", o.MaxStep)
	}
	for name, v := range map[string]float64{
		"gravity": o.Gravity, "stiffness": o.Stiffness,
		"viscosity": o.Viscosity, "rest density": o.RestDensity,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidf("%s %g", name, v)
		}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
