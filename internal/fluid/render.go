package fluid

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Frame is a row-major pixel buffer with stride Width. Row 0 holds the
// bottom of the domain (y = 0).
type Frame struct {
	Width, Height int
	Pix           []colorful.Color
	Hit           []bool
}

// NewFrame allocates a cleared w x h frame.
func NewFrame(w, h int) (*Frame, error) {
	if w <= 0 || h <= 0 || w > math.MaxInt/h {
		return nil, invalidf("frame size %dx%d", w, h)
	}
	return &Frame{
		Width:  w,
		Height: h,
		Pix:    make([]colorful.Color, w*h),
		Hit:    make([]bool, w*h),
	}, nil
}

// Clear resets every pixel to the zero colour.
func (f *Frame) Clear() {
	clear(f.Pix)
	clear(f.Hit)
}

func (f *Frame) At(x, y int) colorful.Color { return f.Pix[x+y*f.Width] }

// Occupied reports whether any particle was drawn at (x, y).
func (f *Frame) Occupied(x, y int) bool { return f.Hit[x+y*f.Width] }

// Count returns the number of occupied pixels.
func (f *Frame) Count() int {
	n := 0
	for _, h := range f.Hit {
		if h {
			n++
		}
	}
	return n
}

// Image converts the frame to an RGBA image with y pointing down, so the
// bottom of the domain lands on the last image row.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.Set(x, f.Height-1-y, f.At(x, y).Clamped())
		}
	}
	return img
}

// Render returns a new w x h frame of the current particle positions.
func (s *Simulation) Render(w, h int) (*Frame, error) {
	f, err := NewFrame(w, h)
	if err != nil {
		return nil, err
	}
	s.RenderInto(f)
	return f, nil
}

// RenderInto clears f and writes each particle's colour at its mapped
// pixel. Later particles overwrite earlier ones. Particles mapping outside
// the frame, possible only before the first step, are skipped.
func (s *Simulation) RenderInto(f *Frame) {
	f.Clear()
	for i := range s.particles {
		x, y, ok := s.pixel(i, f.Width, f.Height)
		if !ok {
			continue
		}
		f.Pix[x+y*f.Width] = s.particles[i].Color
		f.Hit[x+y*f.Width] = true
	}
}

func (s *Simulation) pixel(i, w, h int) (int, int, bool) {
	p := s.particles[i].Pos
	fx := p.X * float64(w-1) / s.opts.Width
	fy := p.Y * float64(h-1) / s.opts.Height
	// int() truncates toward zero, so (-1, 0) still lands on pixel 0.
	if !(fx > -1 && fy > -1 && fx < float64(w) && fy < float64(h)) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}
