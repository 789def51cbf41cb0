package clearsky

import "time"

// DayTime maps a timestamp to minutes since midnight in the timestamp's own
// location: hour*60 + minute + second/60. Sub-second precision is carried
// through when present. Values lie in [0, 1440).
func DayTime(t time.Time) float64 {
	return float64(t.Hour()*60+t.Minute()) + (float64(t.Second())+float64(t.Nanosecond())/1e9)/60.0
}
