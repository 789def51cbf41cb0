package clearsky

import (
	"sort"
	"time"
)

// StreamSeries is the subset of a measurement series sharing one stream id.
type StreamSeries struct {
	ID      string
	Samples []Sample
}

// SplitStreams partitions samples by stream id. Streams come back sorted by
// id so runs are reproducible regardless of input order.
func SplitStreams(samples []Sample) []StreamSeries {
	byID := make(map[string][]Sample)
	for _, s := range samples {
		byID[s.Stream] = append(byID[s.Stream], s)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	streams := make([]StreamSeries, 0, len(ids))
	for _, id := range ids {
		streams = append(streams, StreamSeries{ID: id, Samples: byID[id]})
	}
	return streams
}

// PartitionWindows splits one stream's samples into right-closed tumbling
// windows of the given interval, with boundaries aligned to multiples of the
// interval on the Unix epoch. A sample falling exactly on a boundary belongs
// to the window ending there. Each window's samples are grouped into
// calendar days sorted by day time; spans with no samples produce no window.
func PartitionWindows(samples []Sample, interval time.Duration) []Window {
	if len(samples) == 0 || interval <= 0 {
		return nil
	}

	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	var windows []Window
	var cur []Sample
	curEnd := windowEnd(sorted[0].Time, interval)
	for _, s := range sorted {
		end := windowEnd(s.Time, interval)
		if !end.Equal(curEnd) {
			windows = append(windows, newWindow(cur, curEnd, interval))
			cur = nil
			curEnd = end
		}
		cur = append(cur, s)
	}
	windows = append(windows, newWindow(cur, curEnd, interval))
	return windows
}

// windowEnd returns the end of the right-closed interval containing t.
func windowEnd(t time.Time, interval time.Duration) time.Time {
	ns := t.UnixNano()
	length := interval.Nanoseconds()
	q := ns / length
	if ns%length != 0 && ns > 0 {
		q++
	}
	return time.Unix(0, q*length).In(t.Location())
}

func newWindow(samples []Sample, end time.Time, interval time.Duration) Window {
	return Window{
		Stream: samples[0].Stream,
		Start:  end.Add(-interval),
		End:    end,
		Days:   groupDays(samples),
	}
}

// groupDays groups samples by calendar date in their own location, reducing
// each to (day time, power) pairs sorted by day time. Original timestamps
// are retained so accepted days can be emitted in their input shape.
func groupDays(samples []Sample) []Day {
	byDate := make(map[time.Time][]DaySample)
	for _, s := range samples {
		y, m, d := s.Time.Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, s.Time.Location())
		byDate[date] = append(byDate[date], DaySample{
			Time:    s.Time,
			DayTime: DayTime(s.Time),
			Power:   s.Power,
		})
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	days := make([]Day, 0, len(dates))
	for _, date := range dates {
		ds := byDate[date]
		sort.SliceStable(ds, func(i, j int) bool { return ds[i].DayTime < ds[j].DayTime })
		days = append(days, Day{Stream: samples[0].Stream, Date: date, Samples: ds})
	}
	return days
}
