package scene

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphfluid/internal/fluid"
)

const (
	// FillMass is the mass of every generated particle.
	FillMass = 5000.0
	// FillJitter bounds the positional noise on each axis.
	FillJitter = 0.3
	// MaxFill caps the particles one RECT_FILL may generate.
	MaxFill = 1 << 20
)

// Water is the colour of generated particles.
var Water = colorful.Color{R: 1, G: 1, B: 1}

// Rect is a generator request in domain units.
type Rect struct {
	X, Y, W, H int
	Seed       int64
}

// Spacing returns the grid pitch for smoothing radius h: h/2 rounded half
// to even, at least 1.
func Spacing(h float64) int {
	s := math.RoundToEven(h / 2)
	if !(s >= 1) {
		return 1
	}
	return int(math.Min(s, 1<<30))
}

// Count returns how many particles Fill produces for r at radius h.
func (r Rect) Count(h float64) float64 {
	s := Spacing(h)
	return float64(steps(r.W, s)) * float64(steps(r.H, s))
}

func steps(n, s int) int {
	if n <= 0 {
		return 0
	}
	k := n / s
	if n%s != 0 {
		k++
	}
	return k
}

// Fill lays particles on a jittered grid over [X, X+W) x [Y, Y+H). The
// generator is local to the call, so equal seeds give equal output.
func Fill(r Rect, h float64) []fluid.Particle {
	rng := rand.New(rand.NewSource(r.Seed))
	uniform := func(lo, hi float64) float64 { return lo + (hi-lo)*rng.Float64() }

	s := Spacing(h)
	out := make([]fluid.Particle, 0, int(r.Count(h)))
	for n := 0; n < r.W; n += s {
		for m := 0; m < r.H; m += s {
			x := float64(r.X+n) + uniform(-FillJitter, FillJitter)
			y := float64(r.Y+m) + uniform(-FillJitter, FillJitter)
			vx := uniform(-1, 1)
			vy := uniform(-1, 0.5)
			out = append(out, fluid.Particle{
				Pos:   r2.Vec{X: x, Y: y},
				Vel:   r2.Vec{X: vx, Y: vy},
				Mass:  FillMass,
				Color: Water,
			})
		}
	}
	return out
}

func (p *parser) rectFill() error {
	var args [5]int
	for i := range args {
		v, err := p.integer()
		if err != nil {
			return err
		}
		args[i] = v
	}
	r := Rect{X: args[0], Y: args[1], W: args[2], H: args[3], Seed: int64(args[4])}
	if r.Count(p.h) > MaxFill {
		return &ParseError{Pos: p.pos - 1, Token: p.toks[p.pos-1], Reason: "fill too large"}
	}
	p.sc.Particles = append(p.sc.Particles, Fill(r, p.h)...)
	return nil
}
