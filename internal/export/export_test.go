package export

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphfluid/internal/fluid"
)

func newSim(t *testing.T) *fluid.Simulation {
	t.Helper()
	sim, err := fluid.New(8, fluid.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []fluid.Particle{
		{Pos: r2.Vec{X: 0, Y: 0}, Mass: 1, Color: colorful.Color{R: 1}},
		{Pos: r2.Vec{X: 512, Y: 512}, Vel: r2.Vec{X: 3}, Mass: 1, Color: colorful.Color{B: 1}},
	} {
		if err := sim.AddParticle(p); err != nil {
			t.Fatal(err)
		}
	}
	return sim
}

func TestFrameToSVG(t *testing.T) {
	f, err := newSim(t).Render(10, 10)
	if err != nil {
		t.Fatal(err)
	}

	svg := FrameToSVG(f, 2)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if !strings.Contains(svg, `width="20" height="20"`) {
		t.Error("missing scaled size")
	}
	if got := strings.Count(svg, "<rect "); got != 3 {
		t.Errorf("expected background plus 2 pixels, got %d rects", got)
	}
	// origin is drawn at the bottom-left
	if !strings.Contains(svg, `x="0.0" y="18.0" width="2.0" height="2.0" fill="#ff0000"`) {
		t.Error("origin pixel not at bottom-left")
	}
	if FrameToSVG(nil, 1) != "" {
		t.Error("nil frame should give empty output")
	}
}

func TestParticlesToSVG(t *testing.T) {
	svg := ParticlesToSVG(newSim(t), 256)
	if got := strings.Count(svg, "<circle "); got != 2 {
		t.Errorf("expected 2 circles, got %d", got)
	}
	if !strings.Contains(svg, `width="256" height="256"`) {
		t.Error("missing size")
	}
}

func TestSpeedColor(t *testing.T) {
	if c := SpeedColor(0, 0); !c.AlmostEqualRgb(slowColor) {
		t.Errorf("at rest = %v, want slow colour", c)
	}
	if c := SpeedColor(5, 5); !c.AlmostEqualRgb(fastColor) {
		t.Errorf("at max = %v, want fast colour", c)
	}
	if c := SpeedColor(50, 5); !c.AlmostEqualRgb(fastColor) {
		t.Errorf("above max = %v, want fast colour", c)
	}
}

func TestWritePNG(t *testing.T) {
	f, err := newSim(t).Render(8, 4)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, f); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("size = %v", b)
	}
	r, _, _, _ := img.At(0, 3).RGBA()
	if r != 0xffff {
		t.Error("origin should be red in the bottom-left corner")
	}
}
