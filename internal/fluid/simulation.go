package fluid

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/sphfluid/internal/kernel"
)

// Simulation is the complete solver state. Domain bounds are fixed at
// construction; everything else may be replaced by Apply between steps.
type Simulation struct {
	particles []Particle
	t         float64
	steps     int

	kernels *kernel.Kernels
	opts    Options
	log     *slog.Logger

	grid *grid
}

// New creates an empty simulation with smoothing radius h.
func New(h float64, opts Options) (*Simulation, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	k, err := kernel.New(h, opts.Viscosity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Simulation{
		kernels: k,
		opts:    opts,
		log:     logger,
	}
	if opts.UseGrid {
		s.grid = newGrid()
	}
	return s, nil
}

func (s *Simulation) Time() float64            { return s.t }
func (s *Simulation) Steps() int               { return s.steps }
func (s *Simulation) SmoothingRadius() float64 { return s.kernels.Radius() }
func (s *Simulation) Gravity() float64         { return s.opts.Gravity }
func (s *Simulation) Len() int                 { return len(s.particles) }

// Domain returns the fixed width and height of the simulation rectangle.
func (s *Simulation) Domain() (width, height float64) {
	return s.opts.Width, s.opts.Height
}

// Options returns a copy of the current parameters.
func (s *Simulation) Options() Options { return s.opts }

// Kernels exposes the cached kernel evaluators for the current radius.
func (s *Simulation) Kernels() *kernel.Kernels { return s.kernels }

// Particles returns a copy of the particle set.
func (s *Simulation) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Particle returns particle i by value.
func (s *Simulation) Particle(i int) Particle { return s.particles[i] }

// AddParticle appends p after checking its mass.
func (s *Simulation) AddParticle(p Particle) error {
	if err := checkParticle(len(s.particles), p); err != nil {
		return err
	}
	s.particles = append(s.particles, p)
	return nil
}

// SetSmoothingRadius changes h and recomputes all kernel factors.
func (s *Simulation) SetSmoothingRadius(h float64) error {
	if err := s.kernels.SetRadius(h); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return nil
}

func (s *Simulation) GetParams() map[string]float64 {
	return map[string]float64{
		"h":            s.kernels.Radius(),
		"gravity":      s.opts.Gravity,
		"stiffness":    s.opts.Stiffness,
		"viscosity":    s.opts.Viscosity,
		"rest_density": s.opts.RestDensity,
		"max_step":     s.opts.MaxStep,
	}
}

// SetParam updates one tunable parameter. Domain size is not tunable.
func (s *Simulation) SetParam(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalidf("%s %g", name, v)
	}
	switch name {
	case "h":
		return s.SetSmoothingRadius(v)
	case "gravity":
		s.opts.Gravity = v
	case "stiffness":
		s.opts.Stiffness = v
	case "viscosity":
		k, err := kernel.New(s.kernels.Radius(), v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
		s.kernels = k
		s.opts.Viscosity = v
	case "rest_density":
		s.opts.RestDensity = v
	case "max_step":
		if !positive(v) {
			return invalidf("max step %g", v)
		}
		s.opts.MaxStep = v
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}

func checkParticle(i int, p Particle) error {
	if !positive(p.Mass) {
		return invalidf("particle %d has mass %g", i, p.Mass)
	}
	return nil
}
