package clearsky

import (
	"math"
	"testing"
)

func TestCheckDay(t *testing.T) {
	base := Params{MinPoints: 4, FirstLastLimit: 0.1, GapThreshold: 30}

	tests := []struct {
		name     string
		dayTimes []float64
		powers   []float64
		params   Params
		ok       bool
		reason   Reason
	}{
		{
			name:     "clean day passes",
			dayTimes: []float64{600, 605, 610, 615, 620},
			powers:   []float64{0, 3, 5, 3, 0.05},
			params:   base,
			ok:       true,
		},
		{
			name:     "count equal to the minimum is rejected",
			dayTimes: []float64{600, 605, 610, 615},
			powers:   []float64{0, 3, 3, 0},
			params:   base,
			ok:       false,
			reason:   ReasonMinPoints,
		},
		{
			name:     "high power at first sample",
			dayTimes: []float64{600, 605, 610, 615, 620},
			powers:   []float64{50, 3, 5, 3, 0},
			params:   base,
			ok:       false,
			reason:   ReasonEdgePower,
		},
		{
			name:     "high power at last sample",
			dayTimes: []float64{600, 605, 610, 615, 620},
			powers:   []float64{0, 3, 5, 3, 0.2},
			params:   base,
			ok:       false,
			reason:   ReasonEdgePower,
		},
		{
			name:     "too few samples for the gap check",
			dayTimes: []float64{600, 605, 610, 615},
			powers:   []float64{0, 3, 3, 0},
			params:   Params{MinPoints: 2, FirstLastLimit: 0.1, GapThreshold: 30},
			ok:       false,
			reason:   ReasonGap,
		},
		{
			name:     "gap at the threshold is rejected",
			dayTimes: []float64{600, 630, 660, 690, 720},
			powers:   []float64{0, 3, 5, 3, 0},
			params:   base,
			ok:       false,
			reason:   ReasonGap,
		},
		{
			name:     "gap under the threshold passes",
			dayTimes: []float64{600, 630, 660, 690, 720},
			powers:   []float64{0, 3, 5, 3, 0},
			params:   Params{MinPoints: 4, FirstLastLimit: 0.1, GapThreshold: 31},
			ok:       true,
		},
		{
			name:     "gap over the threshold is rejected",
			dayTimes: []float64{600, 605, 640, 645, 650},
			powers:   []float64{0, 3, 5, 3, 0},
			params:   base,
			ok:       false,
			reason:   ReasonGap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := CheckDay(dayOf(tt.dayTimes, tt.powers), tt.params)

			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v (reason %q)", tt.ok, ok, v.Reason)
			}
			if !ok && v.Reason != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, v.Reason)
			}
		})
	}
}

func TestCheckDayDiagnostics(t *testing.T) {
	p := Params{MinPoints: 4, FirstLastLimit: 0.1, GapThreshold: 30}

	v, ok := CheckDay(dayOf(
		[]float64{600, 605, 615, 620, 625},
		[]float64{0.02, 3, 5, 3, 0.04},
	), p)

	if !ok {
		t.Fatalf("expected day to pass, rejected with %q", v.Reason)
	}
	if v.SampleCount != 5 {
		t.Errorf("SampleCount: expected 5, got %d", v.SampleCount)
	}
	if v.FirstPower != 0.02 || v.LastPower != 0.04 {
		t.Errorf("edge powers: expected 0.02 and 0.04, got %.2f and %.2f", v.FirstPower, v.LastPower)
	}
	if math.Abs(v.MaxGap-10) > 1e-9 {
		t.Errorf("MaxGap: expected 10, got %.4f", v.MaxGap)
	}
	if !math.IsNaN(v.Correlation) {
		t.Errorf("Correlation should be undefined before matching, got %.4f", v.Correlation)
	}
}

func TestCheckDayShortDayHasNoGapMeasure(t *testing.T) {
	p := Params{MinPoints: 2, FirstLastLimit: 0.1, GapThreshold: 30}

	v, ok := CheckDay(dayOf([]float64{600, 605, 610}, []float64{0, 3, 0}), p)

	if ok {
		t.Fatal("expected rejection for a day too short to gap-check")
	}
	if v.Reason != ReasonGap {
		t.Errorf("expected reason %q, got %q", ReasonGap, v.Reason)
	}
	if !math.IsNaN(v.MaxGap) {
		t.Errorf("MaxGap should stay undefined, got %.4f", v.MaxGap)
	}
}
