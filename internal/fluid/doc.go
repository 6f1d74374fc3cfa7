// Package fluid implements a 2D smoothed-particle-hydrodynamics solver.
//
// A [Simulation] owns a set of [Particle] records, the smoothing radius and
// the fluid constants, and a fixed rectangular domain. It exposes three
// operations to a host:
//
//   - [Simulation.AdvanceBy]: advance simulated time, split into bounded steps
//   - [Simulation.Apply]: replace the whole state with a parsed [Scene]
//   - [Simulation.RenderInto]: rasterize particle positions into a [Frame]
//
// Each step runs four passes over the current state: density (with a linear
// equation of state), forces (pressure, viscosity, gravity), a CFL-style
// timestep bound, and explicit Euler integration with inelastic walls.
//
// # Example
//
//	sim, _ := fluid.New(16, fluid.DefaultOptions())
//	_ = sim.Apply(sc)
//	_, err := sim.AdvanceBy(ctx, 1.0/30)
//	frame, _ := sim.Render(256, 256)
//
// # Thread Safety
//
// Simulation instances are NOT safe for concurrent use. The host must
// serialize AdvanceBy, Apply and Render calls. Options.Workers only splits
// the work inside a single step.
package fluid
