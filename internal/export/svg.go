package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/sphfluid/internal/fluid"
)

const background = "#0a0a0a"

var (
	slowColor = colorful.Color{R: 0.1, G: 0.3, B: 0.9}
	fastColor = colorful.Color{R: 1, G: 0.95, B: 0.6}
)

// FrameToSVG draws one square per occupied pixel, scale units wide, with
// the domain's y axis pointing up.
func FrameToSVG(f *fluid.Frame, scale float64) string {
	if f == nil {
		return ""
	}

	width := float64(f.Width) * scale
	height := float64(f.Height) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if !f.Occupied(x, y) {
				continue
			}
			sx := float64(x) * scale
			sy := float64(f.Height-1-y) * scale
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, sx, sy, scale, scale, f.At(x, y).Clamped().Hex()))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SpeedColor blends from slow blue to fast white as speed approaches
// maxSpeed.
func SpeedColor(speed, maxSpeed float64) colorful.Color {
	t := 0.0
	if maxSpeed > 0 {
		t = math.Min(speed/maxSpeed, 1)
	}
	return slowColor.BlendHcl(fastColor, t).Clamped()
}

// ParticlesToSVG draws each particle as a circle of radius h/2 coloured by
// speed, scaled so the domain fills width pixels.
func ParticlesToSVG(sim *fluid.Simulation, width int) string {
	dw, dh := sim.Domain()
	scale := float64(width) / dw
	height := int(math.Ceil(dh * scale))
	radius := math.Max(sim.SmoothingRadius()/2*scale, 0.5)

	ps := sim.Particles()
	maxSpeed := 0.0
	for _, p := range ps {
		maxSpeed = math.Max(maxSpeed, p.Speed())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill-opacity="0.8">
`, width, height, width, height, background))

	for _, p := range ps {
		cx := p.Pos.X * scale
		cy := float64(height) - p.Pos.Y*scale
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, radius, SpeedColor(p.Speed(), maxSpeed).Hex()))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
