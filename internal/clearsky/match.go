package clearsky

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MatchDay aligns one day's samples to its window's template by
// nearest-preceding day time and applies the correlation and deviation
// tests. Samples with no template value at or before their day time are
// dropped from the comparison; fewer than two surviving pairs leave the
// correlation undefined and reject the day. A non-nil record means the day
// was accepted. MatchDay assumes the day already passed CheckDay.
func MatchDay(d Day, t *Template, p Params) (Verdict, *Record) {
	v := Verdict{
		Stream:      d.Stream,
		Date:        d.Date,
		SampleCount: len(d.Samples),
		MaxGap:      math.NaN(),
		Correlation: math.NaN(),
	}

	measured := make([]float64, 0, len(d.Samples))
	tmpl := make([]float64, 0, len(d.Samples))
	for _, s := range d.Samples {
		tv, ok := t.Lookup(s.DayTime)
		if !ok {
			continue
		}
		measured = append(measured, s.Power)
		tmpl = append(tmpl, tv)
	}
	if len(measured) < 2 {
		v.Reason = ReasonAlignment
		return v, nil
	}

	corr := stat.Correlation(measured, tmpl, nil)
	v.Correlation = corr
	// NaN correlations, from constant day or template values, fail here.
	if !(corr > p.CorrThreshold) {
		v.Reason = ReasonCorrelation
		return v, nil
	}

	exceeds := 0
	for i := range measured {
		if math.Abs(measured[i]-tmpl[i]) > p.MaxDeviation {
			exceeds++
		}
	}
	v.ExceedCount = exceeds
	if exceeds > p.MaxExceedCount {
		v.Reason = ReasonDeviation
		return v, nil
	}

	v.Reason = ReasonAccepted
	return v, &Record{
		Stream:      d.Stream,
		Date:        d.Date,
		Correlation: corr,
		Samples:     d.Samples,
	}
}

// EvaluateDay runs the quality gate and template matcher over one day,
// merging the gate's diagnostics into the final verdict. A non-nil record
// means the day was accepted.
func EvaluateDay(d Day, t *Template, p Params) (Verdict, *Record) {
	gv, ok := CheckDay(d, p)
	if !ok {
		return gv, nil
	}

	mv, rec := MatchDay(d, t, p)
	mv.FirstPower = gv.FirstPower
	mv.LastPower = gv.LastPower
	mv.MaxGap = gv.MaxGap
	return mv, rec
}
