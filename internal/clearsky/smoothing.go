package clearsky

import "math"

// MovingMean computes a centered moving average of the given width over
// vals. Positions whose window would reach past either end of the series
// yield NaN, as do windows containing a NaN; incomplete windows are never
// averaged. Even widths lean one element toward the start of the series.
// Widths of one or less return a copy of the input unchanged.
func MovingMean(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	if window <= 1 {
		copy(out, vals)
		return out
	}

	for i := range vals {
		lo := i - window/2
		hi := lo + window - 1
		if lo < 0 || hi >= len(vals) {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += vals[j]
		}
		out[i] = sum / float64(window)
	}
	return out
}
