package analysis

import (
	"errors"
	"math"
	"testing"
)

func TestPowerSpectrumDominant(t *testing.T) {
	const (
		n  = 128
		dt = 0.05
		hz = 2.5
	)
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*hz*float64(i)*dt)
	}

	sp, err := PowerSpectrum(data, dt)
	if err != nil {
		t.Fatalf("PowerSpectrum: %v", err)
	}
	if len(sp.Freqs) != n/2+1 {
		t.Fatalf("bins = %d, want %d", len(sp.Freqs), n/2+1)
	}
	if sp.Power[0] > 1e-9 {
		t.Errorf("mean not removed: DC power %g", sp.Power[0])
	}
	freq, power := sp.Dominant()
	if math.Abs(freq-hz) > 1e-9 || power <= 0 {
		t.Errorf("dominant = %g Hz (%g), want %g Hz", freq, power, hz)
	}
}

func TestPowerSpectrumErrors(t *testing.T) {
	if _, err := PowerSpectrum([]float64{1, 2}, 0.1); !errors.Is(err, ErrShortSeries) {
		t.Errorf("err = %v, want ErrShortSeries", err)
	}
	if _, err := PowerSpectrum([]float64{1, 2, 3, 4}, 0); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestSettlingIndex(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		fraction float64
		want     int
	}{
		{"decay", []float64{0, 10, 6, 3, 0.5, 0.2}, 0.1, 4},
		{"rebound", []float64{10, 0.5, 5, 0.5, 0.1}, 0.1, 3},
		{"never", []float64{1, 10, 9, 8}, 0.1, -1},
		{"peak last", []float64{1, 2, 3}, 0.5, -1},
		{"flat zero", []float64{0, 0, 0}, 0.1, 0},
		{"empty", nil, 0.1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SettlingIndex(tt.data, tt.fraction); got != tt.want {
				t.Errorf("SettlingIndex = %d, want %d", got, tt.want)
			}
		})
	}
}
