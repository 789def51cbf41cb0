package clearsky

import (
	"testing"
	"time"
)

func TestSplitStreams(t *testing.T) {
	base := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	samples := []Sample{
		{Time: base, Power: 1, Stream: "b"},
		{Time: base.Add(time.Minute), Power: 2, Stream: "a"},
		{Time: base.Add(2 * time.Minute), Power: 3, Stream: "b"},
	}

	streams := SplitStreams(samples)

	if len(streams) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(streams))
	}
	if streams[0].ID != "a" || streams[1].ID != "b" {
		t.Errorf("expected streams sorted by id, got %q, %q", streams[0].ID, streams[1].ID)
	}
	if len(streams[0].Samples) != 1 || len(streams[1].Samples) != 2 {
		t.Errorf("unexpected sample counts: %d, %d", len(streams[0].Samples), len(streams[1].Samples))
	}
	if streams[1].Samples[0].Power != 1 || streams[1].Samples[1].Power != 3 {
		t.Errorf("input order not preserved within stream: %+v", streams[1].Samples)
	}
}

func TestSplitStreamsEmpty(t *testing.T) {
	if got := SplitStreams(nil); len(got) != 0 {
		t.Errorf("expected no streams, got %d", len(got))
	}
}

func TestPartitionWindowsBoundaryMembership(t *testing.T) {
	interval := 24 * time.Hour
	boundary := time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC)

	samples := []Sample{
		{Time: boundary.Add(-time.Hour), Power: 1, Stream: "s"},
		{Time: boundary, Power: 2, Stream: "s"}, // exactly on the boundary
		{Time: boundary.Add(time.Second), Power: 3, Stream: "s"},
	}

	windows := PartitionWindows(samples, interval)

	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if !windows[0].End.Equal(boundary) {
		t.Errorf("first window should end at the boundary, got %v", windows[0].End)
	}
	if !windows[1].End.Equal(boundary.Add(interval)) {
		t.Errorf("second window should end one interval later, got %v", windows[1].End)
	}
	if got := countSamples(windows[0]); got != 2 {
		t.Errorf("boundary sample should fall in the earlier window: got %d samples", got)
	}
	if got := countSamples(windows[1]); got != 1 {
		t.Errorf("expected 1 sample in the later window, got %d", got)
	}
	if !windows[0].Start.Equal(boundary.Add(-interval)) {
		t.Errorf("window start should be one interval before its end, got %v", windows[0].Start)
	}
}

func TestPartitionWindowsCoverage(t *testing.T) {
	interval := 7 * 24 * time.Hour
	start := time.Date(2024, time.March, 3, 5, 17, 11, 0, time.UTC)

	var samples []Sample
	for i := 0; i < 73; i++ {
		samples = append(samples, Sample{
			Time:   start.Add(time.Duration(i) * 13 * time.Hour),
			Power:  float64(i % 9),
			Stream: "s",
		})
	}

	windows := PartitionWindows(samples, interval)

	total := 0
	for wi, w := range windows {
		if w.End.UnixNano()%interval.Nanoseconds() != 0 {
			t.Errorf("window %d end %v not aligned to the interval", wi, w.End)
		}
		if !w.Start.Equal(w.End.Add(-interval)) {
			t.Errorf("window %d spans %v, expected %v", wi, w.End.Sub(w.Start), interval)
		}
		if wi > 0 && !windows[wi-1].End.Before(w.End) {
			t.Errorf("window %d not after window %d", wi, wi-1)
		}
		for _, d := range w.Days {
			for _, s := range d.Samples {
				if !s.Time.After(w.Start) || s.Time.After(w.End) {
					t.Errorf("sample at %v outside its window (%v, %v]", s.Time, w.Start, w.End)
				}
				total++
			}
		}
	}
	if total != len(samples) {
		t.Errorf("expected %d samples across all windows, got %d", len(samples), total)
	}
}

func TestPartitionWindowsUnsortedInput(t *testing.T) {
	base := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	ordered := []Sample{
		{Time: base.Add(8 * time.Hour), Power: 1, Stream: "s"},
		{Time: base.Add(10 * time.Hour), Power: 2, Stream: "s"},
		{Time: base.Add(32 * time.Hour), Power: 3, Stream: "s"},
		{Time: base.Add(34 * time.Hour), Power: 4, Stream: "s"},
	}
	scrambled := []Sample{ordered[3], ordered[0], ordered[2], ordered[1]}

	a := PartitionWindows(ordered, 24*time.Hour)
	b := PartitionWindows(scrambled, 24*time.Hour)

	if len(a) != len(b) {
		t.Fatalf("window counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].End.Equal(b[i].End) {
			t.Errorf("window %d ends differ: %v vs %v", i, a[i].End, b[i].End)
		}
		if countSamples(a[i]) != countSamples(b[i]) {
			t.Errorf("window %d sample counts differ", i)
		}
	}
}

func TestPartitionWindowsDayOrdering(t *testing.T) {
	base := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	// Second day first, and within each day the later sample first.
	samples := []Sample{
		{Time: base.AddDate(0, 0, 1).Add(14 * time.Hour), Power: 4, Stream: "s"},
		{Time: base.AddDate(0, 0, 1).Add(9 * time.Hour), Power: 3, Stream: "s"},
		{Time: base.Add(15 * time.Hour), Power: 2, Stream: "s"},
		{Time: base.Add(7 * time.Hour), Power: 1, Stream: "s"},
	}

	windows := PartitionWindows(samples, 30*24*time.Hour)
	if len(windows) != 1 {
		t.Fatalf("expected a single window, got %d", len(windows))
	}

	days := windows[0].Days
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if !days[0].Date.Before(days[1].Date) {
		t.Errorf("days not in chronological order: %v, %v", days[0].Date, days[1].Date)
	}
	for _, d := range days {
		for i := 1; i < len(d.Samples); i++ {
			if d.Samples[i].DayTime < d.Samples[i-1].DayTime {
				t.Errorf("day %v samples not sorted by day time", d.Date)
			}
		}
	}
	if days[0].Samples[0].Power != 1 || days[1].Samples[0].Power != 3 {
		t.Errorf("unexpected first samples: %.0f, %.0f", days[0].Samples[0].Power, days[1].Samples[0].Power)
	}
}

func TestPartitionWindowsDegenerate(t *testing.T) {
	base := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	samples := []Sample{{Time: base, Power: 1, Stream: "s"}}

	if got := PartitionWindows(nil, 24*time.Hour); got != nil {
		t.Errorf("expected nil for no samples, got %d windows", len(got))
	}
	if got := PartitionWindows(samples, 0); got != nil {
		t.Errorf("expected nil for zero interval, got %d windows", len(got))
	}
	if got := PartitionWindows(samples, -time.Hour); got != nil {
		t.Errorf("expected nil for negative interval, got %d windows", len(got))
	}
}

func countSamples(w Window) int {
	n := 0
	for _, d := range w.Days {
		n += len(d.Samples)
	}
	return n
}
