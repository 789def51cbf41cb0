package clearsky

import (
	"math"
	"sort"
)

// BuildTemplate derives the clear sky template for one comparison window.
// All days' samples are pooled on the day-time axis and sorted, so the
// pre-smoothing pass treats the window as a single time-of-day signal and
// mixes calendar days that are adjacent in day time. The pooled series is
// then reduced to a per-day-time maximum envelope, scaled by the percentile
// correction, and post-smoothed over the buckets in day-time order. Buckets
// whose value ends up NaN, from smoothing over incomplete edge windows,
// carry no template value and are dropped.
func BuildTemplate(w Window, p Params) *Template {
	total := 0
	for _, d := range w.Days {
		total += len(d.Samples)
	}
	if total == 0 {
		return &Template{}
	}

	pooled := make([]DaySample, 0, total)
	for _, d := range w.Days {
		pooled = append(pooled, d.Samples...)
	}
	sort.SliceStable(pooled, func(i, j int) bool { return pooled[i].DayTime < pooled[j].DayTime })

	powers := make([]float64, len(pooled))
	for i, s := range pooled {
		powers[i] = s.Power
	}
	powers = MovingMean(powers, p.PreSmoothWindow)

	// Maximum per distinct day time. NaN entries are ignored unless the
	// whole bucket is NaN.
	var points []TemplatePoint
	for i := 0; i < len(pooled); {
		j := i
		max := math.NaN()
		for ; j < len(pooled) && pooled[j].DayTime == pooled[i].DayTime; j++ {
			v := powers[j]
			if !math.IsNaN(v) && (math.IsNaN(max) || v > max) {
				max = v
			}
		}
		points = append(points, TemplatePoint{DayTime: pooled[i].DayTime, Power: max * p.Percentile})
		i = j
	}

	corrected := make([]float64, len(points))
	for i := range points {
		corrected[i] = points[i].Power
	}
	corrected = MovingMean(corrected, p.PostSmoothWindow)

	out := make([]TemplatePoint, 0, len(points))
	for i := range points {
		if math.IsNaN(corrected[i]) {
			continue
		}
		out = append(out, TemplatePoint{DayTime: points[i].DayTime, Power: corrected[i]})
	}
	return &Template{Points: out}
}
