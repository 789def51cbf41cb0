package clearsky

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// EstimateFrequency returns the median spacing in minutes between
// consecutive day-time values of a stream's samples. Day times of the whole
// stream are pooled and sorted before differencing, so the estimate reflects
// the effective time-of-day grid rather than the wall-clock sample rate.
// Streams with fewer than two samples have no defined spacing and yield NaN;
// parameter resolution maps NaN to the coarsest defaults.
func EstimateFrequency(samples []Sample) float64 {
	if len(samples) < 2 {
		return math.NaN()
	}

	dayTimes := make([]float64, len(samples))
	for i, s := range samples {
		dayTimes[i] = DayTime(s.Time)
	}
	sort.Float64s(dayTimes)

	diffs := make([]float64, len(dayTimes)-1)
	for i := 1; i < len(dayTimes); i++ {
		diffs[i-1] = dayTimes[i] - dayTimes[i-1]
	}

	median, err := stats.Median(diffs)
	if err != nil {
		return math.NaN()
	}
	return median
}
