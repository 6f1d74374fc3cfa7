package fluid

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is one fluid sample. Density, Pressure and Force are recomputed
// every step; Color is carried through untouched.
type Particle struct {
	Pos      r2.Vec
	Vel      r2.Vec
	Mass     float64
	Density  float64
	Pressure float64
	Force    r2.Vec
	Color    colorful.Color
}

// Speed returns the velocity magnitude.
func (p Particle) Speed() float64 { return r2.Norm(p.Vel) }

// IsFinite reports whether every numeric field is free of NaN and Inf.
func (p Particle) IsFinite() bool {
	for _, v := range [...]float64{
		p.Pos.X, p.Pos.Y, p.Vel.X, p.Vel.Y, p.Mass,
		p.Density, p.Pressure, p.Force.X, p.Force.Y,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
