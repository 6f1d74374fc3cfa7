package scene

import "testing"

func TestSpacing(t *testing.T) {
	tests := []struct {
		h    float64
		want int
	}{
		{0.1, 1},
		{1, 1},
		{3, 2},
		{5, 2},
		{7, 4},
		{16, 8},
		{-4, 1},
	}

	for _, tt := range tests {
		if got := Spacing(tt.h); got != tt.want {
			t.Errorf("Spacing(%v) = %d, want %d", tt.h, got, tt.want)
		}
	}
}

func TestRectCount(t *testing.T) {
	tests := []struct {
		r    Rect
		h    float64
		want float64
	}{
		{Rect{W: 10, H: 10}, 1, 100},
		{Rect{W: 10, H: 10}, 4, 25},
		{Rect{W: 9, H: 3}, 4, 5 * 2},
		{Rect{W: 0, H: 10}, 1, 0},
		{Rect{W: -3, H: 10}, 1, 0},
	}

	for _, tt := range tests {
		if got := tt.r.Count(tt.h); got != tt.want {
			t.Errorf("%+v at h=%v: count %v, want %v", tt.r, tt.h, got, tt.want)
		}
		if n := len(Fill(tt.r, tt.h)); float64(n) != tt.want {
			t.Errorf("%+v at h=%v: filled %d, want %v", tt.r, tt.h, n, tt.want)
		}
	}
}
