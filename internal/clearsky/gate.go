package clearsky

import "math"

// CheckDay applies the day quality gate: the sample count must exceed the
// minimum, power at the day's first and last sample must sit at or below the
// night bound, and no gap between consecutive samples may reach the gap
// threshold. ok reports whether the day may proceed to template matching;
// on failure the verdict names the first check that failed. Measured
// diagnostics are filled in as far as the evaluation got.
//
// The gap check needs at least five samples to be meaningful; days with four
// or fewer are treated as having an unbounded gap and rejected.
func CheckDay(d Day, p Params) (Verdict, bool) {
	v := Verdict{
		Stream:      d.Stream,
		Date:        d.Date,
		SampleCount: len(d.Samples),
		MaxGap:      math.NaN(),
		Correlation: math.NaN(),
	}

	if len(d.Samples) <= p.MinPoints {
		v.Reason = ReasonMinPoints
		return v, false
	}

	v.FirstPower = d.Samples[0].Power
	v.LastPower = d.Samples[len(d.Samples)-1].Power
	if v.FirstPower > p.FirstLastLimit || v.LastPower > p.FirstLastLimit {
		v.Reason = ReasonEdgePower
		return v, false
	}

	if len(d.Samples) <= 4 {
		v.Reason = ReasonGap
		return v, false
	}
	maxGap := 0.0
	for i := 1; i < len(d.Samples); i++ {
		if g := d.Samples[i].DayTime - d.Samples[i-1].DayTime; g > maxGap {
			maxGap = g
		}
	}
	v.MaxGap = maxGap
	if maxGap >= p.GapThreshold {
		v.Reason = ReasonGap
		return v, false
	}

	return v, true
}
