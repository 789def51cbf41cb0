package clearsky

import (
	"math"
	"testing"
	"time"
)

func TestDayTime(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
	}{
		{
			name:     "midnight",
			time:     time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			expected: 0,
		},
		{
			name:     "noon",
			time:     time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
			expected: 720,
		},
		{
			name:     "seconds become fractional minutes",
			time:     time.Date(2024, time.June, 1, 12, 30, 30, 0, time.UTC),
			expected: 750.5,
		},
		{
			name:     "sub-second precision",
			time:     time.Date(2024, time.June, 1, 6, 15, 45, 600e6, time.UTC),
			expected: 375.76,
		},
		{
			name:     "last second of the day",
			time:     time.Date(2024, time.June, 1, 23, 59, 59, 0, time.UTC),
			expected: 1439.9833333333333,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DayTime(tt.time)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %.10f, got %.10f", tt.expected, got)
			}
		})
	}
}

func TestDayTimeIgnoresDate(t *testing.T) {
	a := time.Date(2023, time.January, 2, 9, 41, 30, 0, time.UTC)
	b := time.Date(2025, time.October, 30, 9, 41, 30, 0, time.UTC)

	if DayTime(a) != DayTime(b) {
		t.Errorf("same wall clock on different dates: %f vs %f", DayTime(a), DayTime(b))
	}
}

func TestDayTimeRange(t *testing.T) {
	base := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	for offset := 0; offset < 24*60; offset += 7 {
		dt := DayTime(base.Add(time.Duration(offset) * time.Minute))
		if dt < 0 || dt >= 1440 {
			t.Fatalf("day time %f outside [0, 1440) at offset %d minutes", dt, offset)
		}
	}
}
