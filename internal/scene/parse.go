package scene

import (
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphfluid/internal/fluid"
)

// Command keywords.
const (
	KeyNewParticle = "NEW_P"
	KeyEndParticle = "END_P"
	KeyTime        = "TIME"
	KeySmoothing   = "SMOOTHING_DISTANCE"
	KeyGravity     = "GRAVITY"
	KeyScenario    = "SCENARIO"
	KeyDamBreak    = "DAMBREAK"
	KeyRectFill    = "RECT_FILL"

	KeyPos      = "POS"
	KeyVel      = "V"
	KeyMass     = "M"
	KeyDensity  = "D"
	KeyPressure = "P"
	KeyForce    = "F"
	KeyRGB      = "RGB"
)

type parser struct {
	toks []string
	pos  int

	// h is the smoothing radius in effect at the current point of the
	// stream; it sizes the RECT_FILL grid.
	h  float64
	sc fluid.Scene
}

// Parse turns scene text into a replacement state. h is the smoothing radius
// in effect before the text is applied. Physical validation is left to
// [fluid.Scene.Validate].
func Parse(text string, h float64) (*fluid.Scene, error) {
	p := &parser{toks: strings.Fields(text), h: h}
	for p.pos < len(p.toks) {
		if err := p.command(); err != nil {
			return nil, err
		}
	}
	return &p.sc, nil
}

func (p *parser) command() error {
	tok := p.toks[p.pos]
	p.pos++
	switch tok {
	case KeyNewParticle:
		return p.particle()
	case KeyTime:
		v, err := p.float()
		if err != nil {
			return err
		}
		p.sc.Time = v
	case KeySmoothing:
		v, err := p.float()
		if err != nil {
			return err
		}
		p.h = v
		p.sc.Radius = &v
	case KeyGravity:
		v, err := p.float()
		if err != nil {
			return err
		}
		p.sc.Gravity = &v
	case KeyScenario:
	case KeyDamBreak, KeyRectFill:
		return p.rectFill()
	}
	return nil
}

func (p *parser) particle() error {
	var pt fluid.Particle
	for {
		if p.pos >= len(p.toks) {
			return p.fail("particle block missing " + KeyEndParticle)
		}
		tok := p.toks[p.pos]
		p.pos++

		var err error
		switch tok {
		case KeyEndParticle:
			p.sc.Particles = append(p.sc.Particles, pt)
			return nil
		case KeyPos:
			pt.Pos, err = p.vec()
		case KeyVel:
			pt.Vel, err = p.vec()
		case KeyMass:
			pt.Mass, err = p.float()
		case KeyDensity:
			pt.Density, err = p.float()
		case KeyPressure:
			pt.Pressure, err = p.float()
		case KeyForce:
			pt.Force, err = p.vec()
		case KeyRGB:
			pt.Color, err = p.color()
		default:
			p.pos--
			return p.fail("unknown particle field")
		}
		if err != nil {
			return err
		}
	}
}

func (p *parser) float() (float64, error) {
	if p.pos >= len(p.toks) {
		return 0, p.fail("expected number, got end of input")
	}
	v, err := strconv.ParseFloat(p.toks[p.pos], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, p.fail("expected finite number")
	}
	p.pos++
	return v, nil
}

func (p *parser) integer() (int, error) {
	if p.pos >= len(p.toks) {
		return 0, p.fail("expected integer, got end of input")
	}
	v, err := strconv.Atoi(p.toks[p.pos])
	if err != nil {
		return 0, p.fail("expected integer")
	}
	p.pos++
	return v, nil
}

func (p *parser) vec() (r2.Vec, error) {
	x, err := p.float()
	if err != nil {
		return r2.Vec{}, err
	}
	y, err := p.float()
	if err != nil {
		return r2.Vec{}, err
	}
	return r2.Vec{X: x, Y: y}, nil
}

func (p *parser) color() (colorful.Color, error) {
	var c [3]float64
	for i := range c {
		v, err := p.float()
		if err != nil {
			return colorful.Color{}, err
		}
		c[i] = v
	}
	return colorful.Color{R: c[0], G: c[1], B: c[2]}, nil
}

func (p *parser) fail(reason string) error {
	e := &ParseError{Pos: p.pos, Reason: reason}
	if p.pos < len(p.toks) {
		e.Token = p.toks[p.pos]
	}
	return e
}
