package clearsky

import (
	"math"
	"testing"
)

// dayOf builds a Day from parallel day-time and power slices.
func dayOf(dayTimes, powers []float64) Day {
	samples := make([]DaySample, len(dayTimes))
	for i := range dayTimes {
		samples[i] = DaySample{DayTime: dayTimes[i], Power: powers[i]}
	}
	return Day{Stream: "s", Samples: samples}
}

func TestBuildTemplateSingleDay(t *testing.T) {
	w := Window{Days: []Day{
		dayOf([]float64{600, 605, 610, 615, 620}, []float64{2, 4, 6, 4, 2}),
	}}
	p := Params{Percentile: 0.9, PreSmoothWindow: 1, PostSmoothWindow: 1}

	tmpl := BuildTemplate(w, p)

	expected := []TemplatePoint{
		{DayTime: 600, Power: 1.8},
		{DayTime: 605, Power: 3.6},
		{DayTime: 610, Power: 5.4},
		{DayTime: 615, Power: 3.6},
		{DayTime: 620, Power: 1.8},
	}
	if len(tmpl.Points) != len(expected) {
		t.Fatalf("expected %d points, got %d", len(expected), len(tmpl.Points))
	}
	for i, want := range expected {
		got := tmpl.Points[i]
		if got.DayTime != want.DayTime || math.Abs(got.Power-want.Power) > 1e-9 {
			t.Errorf("point %d: expected (%.0f, %.4f), got (%.0f, %.4f)",
				i, want.DayTime, want.Power, got.DayTime, got.Power)
		}
	}
}

func TestBuildTemplateTakesBucketMax(t *testing.T) {
	w := Window{Days: []Day{
		dayOf([]float64{600, 605, 610}, []float64{1, 5, 1}),
		dayOf([]float64{600, 605, 610}, []float64{3, 2, 4}),
	}}
	p := Params{Percentile: 0.9, PreSmoothWindow: 1, PostSmoothWindow: 1}

	tmpl := BuildTemplate(w, p)

	expected := []float64{2.7, 4.5, 3.6} // max of both days, scaled
	if len(tmpl.Points) != len(expected) {
		t.Fatalf("expected %d points, got %d", len(expected), len(tmpl.Points))
	}
	for i, want := range expected {
		if math.Abs(tmpl.Points[i].Power-want) > 1e-9 {
			t.Errorf("point %d: expected %.4f, got %.4f", i, want, tmpl.Points[i].Power)
		}
	}
}

func TestBuildTemplatePreSmoothsPooledSeries(t *testing.T) {
	// Pooled and sorted by day time the powers are 2, 4, 6; a pre-smoothing
	// window of three leaves only the middle position defined.
	w := Window{Days: []Day{
		dayOf([]float64{600, 610}, []float64{2, 6}),
		dayOf([]float64{605}, []float64{4}),
	}}
	p := Params{Percentile: 0.9, PreSmoothWindow: 3, PostSmoothWindow: 1}

	tmpl := BuildTemplate(w, p)

	if len(tmpl.Points) != 1 {
		t.Fatalf("expected a single surviving point, got %d", len(tmpl.Points))
	}
	if tmpl.Points[0].DayTime != 605 {
		t.Errorf("expected the 605 bucket to survive, got %.0f", tmpl.Points[0].DayTime)
	}
	if math.Abs(tmpl.Points[0].Power-3.6) > 1e-9 {
		t.Errorf("expected smoothed power 3.6, got %.4f", tmpl.Points[0].Power)
	}
}

func TestBuildTemplatePostSmoothsInDayTimeOrder(t *testing.T) {
	w := Window{Days: []Day{
		dayOf([]float64{600, 601, 602, 603, 604}, []float64{10, 20, 30, 40, 50}),
	}}
	p := Params{Percentile: 1, PreSmoothWindow: 1, PostSmoothWindow: 3}

	tmpl := BuildTemplate(w, p)

	expected := []TemplatePoint{
		{DayTime: 601, Power: 20},
		{DayTime: 602, Power: 30},
		{DayTime: 603, Power: 40},
	}
	if len(tmpl.Points) != len(expected) {
		t.Fatalf("expected %d points, got %d", len(expected), len(tmpl.Points))
	}
	for i, want := range expected {
		got := tmpl.Points[i]
		if got.DayTime != want.DayTime || math.Abs(got.Power-want.Power) > 1e-9 {
			t.Errorf("point %d: expected (%.0f, %.2f), got (%.0f, %.2f)",
				i, want.DayTime, want.Power, got.DayTime, got.Power)
		}
	}
}

func TestBuildTemplateEmptyWindow(t *testing.T) {
	tmpl := BuildTemplate(Window{}, Params{Percentile: 0.9, PreSmoothWindow: 1, PostSmoothWindow: 1})

	if len(tmpl.Points) != 0 {
		t.Fatalf("expected an empty template, got %d points", len(tmpl.Points))
	}
	if _, ok := tmpl.Lookup(720); ok {
		t.Error("lookup on an empty template should report no value")
	}
}

func TestTemplateLookup(t *testing.T) {
	tmpl := &Template{Points: []TemplatePoint{
		{DayTime: 600, Power: 10},
		{DayTime: 660, Power: 20},
	}}

	tests := []struct {
		name     string
		dayTime  float64
		expected float64
		ok       bool
	}{
		{name: "before first point", dayTime: 599.9, ok: false},
		{name: "exactly on a point", dayTime: 600, expected: 10, ok: true},
		{name: "between points takes the earlier", dayTime: 630, expected: 10, ok: true},
		{name: "on the last point", dayTime: 660, expected: 20, ok: true},
		{name: "after the last point", dayTime: 1400, expected: 20, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tmpl.Lookup(tt.dayTime)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got != tt.expected {
				t.Errorf("expected %.0f, got %.0f", tt.expected, got)
			}
		})
	}
}
