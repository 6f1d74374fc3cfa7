package analysis

import (
	"errors"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

var ErrShortSeries = errors.New("analysis: series too short")

// Spectrum is the one-sided amplitude spectrum of a uniformly sampled series.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum removes the mean of data and returns its amplitude
// spectrum. dt is the sample interval in simulated seconds.
func PowerSpectrum(data []float64, dt float64) (*Spectrum, error) {
	if len(data) < 4 {
		return nil, ErrShortSeries
	}
	if !(dt > 0) {
		return nil, errors.New("analysis: sample interval must be positive")
	}

	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(len(centered))
	coeffs := fft.Coefficients(nil, centered)

	sp := &Spectrum{
		Freqs: make([]float64, len(coeffs)),
		Power: make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		sp.Freqs[i] = fft.Freq(i) / dt
		sp.Power[i] = cmplx.Abs(c)
	}
	return sp, nil
}

// Dominant returns the frequency with the most power, ignoring the DC bin.
func (s *Spectrum) Dominant() (freq, power float64) {
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > power {
			freq, power = s.Freqs[i], s.Power[i]
		}
	}
	return freq, power
}
