package fluid

import (
	"errors"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	red  = colorful.Color{R: 1}
	blue = colorful.Color{B: 1}
)

func TestRenderMapping(t *testing.T) {
	s := newTestSim(t, 1, nil)
	mustAdd(t, s,
		Particle{Pos: r2.Vec{X: 0, Y: 0}, Mass: 1, Color: red},
		Particle{Pos: r2.Vec{X: 512, Y: 512}, Mass: 1, Color: blue},
		Particle{Pos: r2.Vec{X: 256, Y: 100}, Mass: 1, Color: red},
	)

	f, err := s.Render(100, 50)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if len(f.Pix) != 100*50 {
		t.Fatalf("buffer length = %d, want %d", len(f.Pix), 100*50)
	}
	if f.At(0, 0) != red {
		t.Errorf("origin = %v, want red", f.At(0, 0))
	}
	if f.At(99, 49) != blue {
		t.Errorf("far corner = %v, want blue", f.At(99, 49))
	}
	// 256*99/512 = 49.5, 100*49/512 = 9.57
	if !f.Occupied(49, 9) || f.At(49, 9) != red {
		t.Error("expected truncated mapping to (49, 9)")
	}
	if f.Count() != 3 {
		t.Errorf("occupied = %d, want 3", f.Count())
	}
}

func TestRenderStrideIsWidth(t *testing.T) {
	s := newTestSim(t, 1, nil)
	mustAdd(t, s, Particle{Pos: r2.Vec{X: 0, Y: 512}, Mass: 1, Color: red})

	f, err := s.Render(10, 3)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !f.Hit[0+2*10] {
		t.Error("expected top-left pixel at index 2*width")
	}
}

func TestRenderLaterOverwrites(t *testing.T) {
	s := newTestSim(t, 1, nil)
	mustAdd(t, s,
		Particle{Pos: r2.Vec{X: 10, Y: 10}, Mass: 1, Color: red},
		Particle{Pos: r2.Vec{X: 10.1, Y: 10.1}, Mass: 1, Color: blue},
	)

	f, _ := s.Render(32, 32)
	if f.Count() != 1 {
		t.Fatalf("occupied = %d, want 1", f.Count())
	}
	if f.At(0, 0) != blue {
		t.Errorf("pixel = %v, want the later particle's colour", f.At(0, 0))
	}
}

func TestRenderIntoClears(t *testing.T) {
	s := newTestSim(t, 1, nil)
	mustAdd(t, s, Particle{Pos: r2.Vec{X: 100, Y: 100}, Mass: 1, Color: red})

	f, _ := NewFrame(16, 16)
	f.Pix[5] = blue
	f.Hit[5] = true
	s.RenderInto(f)

	if f.Hit[5] || f.Pix[5] != (colorful.Color{}) {
		t.Error("RenderInto did not clear stale pixels")
	}
	if f.Count() != 1 {
		t.Errorf("occupied = %d, want 1", f.Count())
	}
}

func TestRenderSkipsOutOfDomain(t *testing.T) {
	s := newTestSim(t, 1, nil)
	mustAdd(t, s,
		Particle{Pos: r2.Vec{X: -100, Y: 10}, Mass: 1, Color: red},
		Particle{Pos: r2.Vec{X: 10, Y: 5000}, Mass: 1, Color: red},
	)

	f, err := s.Render(64, 64)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if f.Count() != 0 {
		t.Errorf("occupied = %d, want 0", f.Count())
	}
}

func TestRenderInvalidSize(t *testing.T) {
	s := newTestSim(t, 1, nil)
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, -1}, {math.MaxInt / 2, 3}, {3, math.MaxInt / 2}} {
		if _, err := s.Render(size[0], size[1]); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("size %v: expected ErrInvalidParameter, got %v", size, err)
		}
	}
}

func TestFrameImageFlipsY(t *testing.T) {
	s := newTestSim(t, 1, nil)
	mustAdd(t, s, Particle{Pos: r2.Vec{X: 0, Y: 0}, Mass: 1, Color: red})

	f, _ := s.Render(4, 4)
	img := f.Image()

	r, g, b, _ := img.At(0, 3).RGBA()
	if r != 0xffff || g != 0 || b != 0 {
		t.Errorf("bottom-left image pixel = (%d,%d,%d), want red", r, g, b)
	}
}
