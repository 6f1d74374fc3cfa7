package scene

import (
	"strconv"
	"strings"

	"github.com/san-kum/sphfluid/internal/fluid"
)

// Export writes the state of sim in the scene language. Loading the result
// reproduces the particle set, time, radius and gravity.
func Export(sim *fluid.Simulation) string {
	var b strings.Builder
	line := func(key string, vs ...float64) {
		b.WriteString(key)
		for _, v := range vs {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}

	line(KeyTime, sim.Time())
	line(KeySmoothing, sim.SmoothingRadius())
	line(KeyGravity, sim.Gravity())
	for _, p := range sim.Particles() {
		b.WriteString(KeyNewParticle)
		b.WriteByte('\n')
		line(KeyPos, p.Pos.X, p.Pos.Y)
		line(KeyVel, p.Vel.X, p.Vel.Y)
		line(KeyMass, p.Mass)
		line(KeyDensity, p.Density)
		line(KeyPressure, p.Pressure)
		line(KeyForce, p.Force.X, p.Force.Y)
		line(KeyRGB, p.Color.R, p.Color.G, p.Color.B)
		b.WriteString(KeyEndParticle)
		b.WriteByte('\n')
	}
	return b.String()
}
