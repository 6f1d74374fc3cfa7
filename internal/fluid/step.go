package fluid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Step advances the simulation by one sub-step of at most maxDuration and
// returns the duration actually taken.
func (s *Simulation) Step(maxDuration float64) (float64, error) {
	if !positive(maxDuration) {
		return 0, invalidf("step duration %g", maxDuration)
	}

	if s.grid != nil {
		s.grid.rebuild(s.particles, s.kernels.Radius())
	}
	s.computeDensities()
	s.computeForces()
	dt := s.timestep(maxDuration)
	if !(dt > 0) {
		return 0, &StepError{Step: s.steps, Time: s.t, Wrapped: ErrUnstable}
	}
	s.integrate(dt)

	s.t += dt
	s.steps++

	if s.opts.ValidateState {
		for i := range s.particles {
			if !s.particles[i].IsFinite() {
				return dt, &StepError{Step: s.steps, Time: s.t, Wrapped: ErrUnstable}
			}
		}
	}
	return dt, nil
}

// neighbors calls fn for every particle j != i closer than h.
func (s *Simulation) neighbors(i int, fn func(j int, d r2.Vec, r float64)) {
	h := s.kernels.Radius()
	pos := s.particles[i].Pos
	visit := func(j int) {
		if j == i {
			return
		}
		d := r2.Sub(pos, s.particles[j].Pos)
		if r := r2.Norm(d); r < h {
			fn(j, d, r)
		}
	}
	if s.grid != nil {
		s.grid.each(pos, visit)
		return
	}
	for j := range s.particles {
		visit(j)
	}
}

func (s *Simulation) computeDensities() {
	parallelFor(len(s.particles), s.opts.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			density := DensityFloor
			s.neighbors(i, func(j int, _ r2.Vec, r float64) {
				density += s.particles[j].Mass * s.kernels.Poly6(r)
			})
			p := &s.particles[i]
			p.Density = density
			p.Pressure = density - s.opts.RestDensity
		}
	})
}

// computeForces sums pressure and viscosity over neighbours. The viscosity
// term divides by the neighbour's pressure, and gravity is applied once per
// particle in the collection, self included.
func (s *Simulation) computeForces() {
	n := float64(len(s.particles))
	k, u := s.opts.Stiffness, s.opts.Viscosity

	parallelFor(len(s.particles), s.opts.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			p := &s.particles[i]
			var force r2.Vec
			s.neighbors(i, func(j int, d r2.Vec, r float64) {
				q := &s.particles[j]

				pressure := k * q.Mass * (p.Pressure + q.Pressure) / (2 * q.Density) * s.kernels.SpikyGrad(r)
				force = r2.Add(force, r2.Scale(pressure, direction(d, r)))

				viscosity := -u * (q.Mass / q.Pressure) * s.kernels.ViscosityLap(r)
				force = r2.Add(force, r2.Scale(viscosity, r2.Sub(q.Vel, p.Vel)))
			})
			force.Y -= n * s.opts.Gravity * p.Mass
			p.Force = force
		}
	})
}

func direction(d r2.Vec, r float64) r2.Vec {
	if r == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/r, d)
}

// timestep bounds dt by h/(1.33*vmax). A fluid at rest takes maxDuration.
func (s *Simulation) timestep(maxDuration float64) float64 {
	maxSpeed := 0.0
	for i := range s.particles {
		maxSpeed = math.Max(maxSpeed, s.particles[i].Speed())
	}
	if maxSpeed == 0 {
		return maxDuration
	}
	return math.Min(maxDuration, s.kernels.Radius()/(CFLFactor*maxSpeed))
}

// integrate applies explicit Euler and clamps each axis into the domain,
// halving the velocity component of any axis that hit a wall.
func (s *Simulation) integrate(dt float64) {
	w, h := s.opts.Width, s.opts.Height
	for i := range s.particles {
		p := &s.particles[i]
		accel := r2.Vec{X: p.Force.X / p.Mass, Y: p.Force.Y / p.Mass}
		p.Vel = r2.Add(p.Vel, r2.Scale(dt, accel))
		p.Pos = r2.Add(p.Pos, r2.Scale(dt, p.Vel))

		if p.Pos.X < 0 || p.Pos.X > w {
			p.Pos.X = math.Min(math.Max(p.Pos.X, 0), w)
			p.Vel.X /= 2
		}
		if p.Pos.Y < 0 || p.Pos.Y > h {
			p.Pos.Y = math.Min(math.Max(p.Pos.Y, 0), h)
			p.Vel.Y /= 2
		}
	}
}
