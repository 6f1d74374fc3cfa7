package analysis

// SettlingIndex returns the first index after which every value of data
// stays at or below fraction times its peak, or -1 if the series never
// settles. A series that is all zero settles at 0.
func SettlingIndex(data []float64, fraction float64) int {
	if len(data) == 0 {
		return -1
	}
	peak, peakIdx := data[0], 0
	for i, v := range data {
		if v > peak {
			peak, peakIdx = v, i
		}
	}
	if peak <= 0 {
		return 0
	}

	limit := fraction * peak
	settled := -1
	for i := len(data) - 1; i > peakIdx; i-- {
		if data[i] > limit {
			break
		}
		settled = i
	}
	return settled
}
