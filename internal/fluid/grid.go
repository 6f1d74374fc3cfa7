package fluid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

type cellKey struct{ x, y int }

// grid buckets particle indices by floor(pos/h). Looking up the 3x3 block
// around a cell yields a superset of the particles within h.
type grid struct {
	cell    float64
	buckets map[cellKey][]int
}

func newGrid() *grid {
	return &grid{buckets: make(map[cellKey][]int)}
}

func (g *grid) key(p r2.Vec) cellKey {
	return cellKey{int(math.Floor(p.X / g.cell)), int(math.Floor(p.Y / g.cell))}
}

func (g *grid) rebuild(particles []Particle, h float64) {
	g.cell = h
	for k, b := range g.buckets {
		g.buckets[k] = b[:0]
	}
	for i := range particles {
		k := g.key(particles[i].Pos)
		g.buckets[k] = append(g.buckets[k], i)
	}
}

func (g *grid) each(p r2.Vec, fn func(j int)) {
	c := g.key(p)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, j := range g.buckets[cellKey{c.x + dx, c.y + dy}] {
				fn(j)
			}
		}
	}
}
