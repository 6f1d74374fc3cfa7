package fluid

import (
	"math"
)

// Scene is a fully parsed replacement state. Nil Radius or Gravity keeps
// the simulation's current value.
type Scene struct {
	Particles []Particle
	Time      float64
	Radius    *float64
	Gravity   *float64
}

// Validate checks the scene without touching any simulation.
func (sc *Scene) Validate() error {
	if math.IsNaN(sc.Time) || math.IsInf(sc.Time, 0) {
		return invalidf("time %g", sc.Time)
	}
	if sc.Radius != nil && !positive(*sc.Radius) {
		return invalidf("smoothing radius %g", *sc.Radius)
	}
	if sc.Gravity != nil && (math.IsNaN(*sc.Gravity) || math.IsInf(*sc.Gravity, 0)) {
		return invalidf("gravity %g", *sc.Gravity)
	}
	for i, p := range sc.Particles {
		if err := checkParticle(i, p); err != nil {
			return err
		}
	}
	return nil
}

// Apply clears the simulation and repopulates it from sc. The scene is
// validated first; on error the simulation is left unchanged.
func (s *Simulation) Apply(sc *Scene) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	if sc.Radius != nil {
		if err := s.SetSmoothingRadius(*sc.Radius); err != nil {
			return err
		}
	}
	if sc.Gravity != nil {
		s.opts.Gravity = *sc.Gravity
	}
	s.particles = append(s.particles[:0], sc.Particles...)
	s.t = sc.Time
	s.steps = 0

	s.log.Debug("scene applied",
		"particles", len(s.particles),
		"time", s.t,
		"h", s.kernels.Radius(),
		"gravity", s.opts.Gravity,
	)
	return nil
}
