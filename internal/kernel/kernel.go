package kernel

import (
	"errors"
	"math"
)

// ContactEpsilon keeps the spiky gradient finite when two particles overlap.
const ContactEpsilon = 1e-6

// ErrInvalidRadius is returned for a smoothing radius that is not strictly positive.
var ErrInvalidRadius = errors.New("kernel: smoothing radius must be positive")

// Kernels caches the normalization factors for one smoothing radius.
type Kernels struct {
	h         float64
	viscosity float64

	poly6Factor     float64
	spikyFactor     float64
	viscosityFactor float64
}

// New returns kernels for radius h and viscosity constant u.
func New(h, u float64) (*Kernels, error) {
	k := &Kernels{viscosity: u}
	if err := k.SetRadius(h); err != nil {
		return nil, err
	}
	return k, nil
}

// SetRadius changes h and recomputes all three factors.
func (k *Kernels) SetRadius(h float64) error {
	if !(h > 0) || math.IsInf(h, 1) {
		return ErrInvalidRadius
	}
	k.h = h
	h4 := h * h * h * h
	k.poly6Factor = 4 / (math.Pi * h4 * h4)
	k.spikyFactor = 15 / (math.Pi * h4)
	k.viscosityFactor = 40 * k.viscosity / (math.Pi * h4)
	return nil
}

func (k *Kernels) Radius() float64 { return k.h }

// Factors returns the cached poly6, spiky and viscosity normalization factors.
func (k *Kernels) Factors() (poly6, spiky, viscosity float64) {
	return k.poly6Factor, k.spikyFactor, k.viscosityFactor
}

// Poly6 is the density kernel: f*(h^2-r^2)^3.
func (k *Kernels) Poly6(r float64) float64 {
	if r >= k.h {
		return 0
	}
	d := k.h*k.h - r*r
	return k.poly6Factor * d * d * d
}

// SpikyGrad is the magnitude of the spiky kernel gradient used for pressure.
func (k *Kernels) SpikyGrad(r float64) float64 {
	if r >= k.h {
		return 0
	}
	q := (r + ContactEpsilon) / k.h
	s := 1 - r/k.h
	return k.spikyFactor * r * s * s / q
}

// ViscosityLap is the 2D Laplacian of the viscosity kernel.
func (k *Kernels) ViscosityLap(r float64) float64 {
	if r >= k.h {
		return 0
	}
	return k.viscosityFactor * (1 - r/k.h)
}
