package clearsky

import (
	"sort"
	"time"
)

// Sample is a single power measurement from one PV stream.
type Sample struct {
	Time   time.Time
	Power  float64
	Stream string
}

// DaySample pairs a measurement with its time-of-day coordinate in minutes.
type DaySample struct {
	Time    time.Time
	DayTime float64
	Power   float64
}

// Day holds all samples of one stream falling on one calendar date, sorted
// by day time.
type Day struct {
	Stream  string
	Date    time.Time
	Samples []DaySample
}

// Window is one right-closed comparison interval of a stream's samples.
// Every day in a window is evaluated against the single template built from
// the window's pooled samples, never against a foreign window's template.
type Window struct {
	Stream string
	Start  time.Time // exclusive
	End    time.Time // inclusive
	Days   []Day
}

// TemplatePoint is one day-time bucket of a clear sky template.
type TemplatePoint struct {
	DayTime float64
	Power   float64
}

// Template is the percentile-corrected maximum-power envelope of one
// comparison window, with points in ascending day-time order. Built once
// per window and treated as read-only afterwards.
type Template struct {
	Points []TemplatePoint
}

// Lookup returns the template value at the greatest day time not exceeding
// dayTime. ok is false when no point lies at or before dayTime.
func (t *Template) Lookup(dayTime float64) (power float64, ok bool) {
	i := sort.Search(len(t.Points), func(i int) bool { return t.Points[i].DayTime > dayTime })
	if i == 0 {
		return 0, false
	}
	return t.Points[i-1].Power, true
}

// Record is one accepted clear sky day together with the correlation
// coefficient that accepted it. Records are the unit of output; the
// correlation applies uniformly to every sample of the day.
type Record struct {
	Stream      string
	Date        time.Time
	Correlation float64
	Samples     []DaySample
}

// Reason classifies the outcome of a day evaluation.
type Reason string

const (
	ReasonAccepted    Reason = "accepted"
	ReasonMinPoints   Reason = "min_points"
	ReasonEdgePower   Reason = "edge_power"
	ReasonGap         Reason = "gap"
	ReasonAlignment   Reason = "alignment"
	ReasonCorrelation Reason = "correlation"
	ReasonDeviation   Reason = "deviation"
)

// Verdict describes how one day fared against its window's template,
// carrying the measured values behind each check for diagnostics.
type Verdict struct {
	Stream      string
	Date        time.Time
	Reason      Reason
	SampleCount int
	FirstPower  float64
	LastPower   float64
	MaxGap      float64 // minutes; NaN when fewer than five samples
	Correlation float64 // NaN unless alignment produced at least two pairs
	ExceedCount int
}

// Accepted reports whether the day became a Record.
func (v Verdict) Accepted() bool {
	return v.Reason == ReasonAccepted
}
