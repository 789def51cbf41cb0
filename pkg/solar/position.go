// Package solar estimates the sun's position and clear sky irradiance for a
// PV site. The data simulator shapes its power curves with it, and the
// dataset profiler uses it to sanity-check measured power against what the
// sky could deliver.
package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Site is a PV plant location.
type Site struct {
	Latitude  float64 // degrees, north positive
	Longitude float64 // degrees, east positive
	Altitude  float64 // meters above sea level
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }

// sunCoordinates returns the mean longitude L0, mean anomaly M, orbital
// eccentricity e and mean obliquity eps0 for time t. Angles in degrees.
func sunCoordinates(t time.Time) (L0, M, e, eps0 float64) {
	jd := julian.TimeToJD(t.UTC())
	T := (jd - 2451545.0) / 36525.0 // Julian centuries since J2000.0

	L0 = fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M = fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e = 0.016708634 - T*(0.000042037+T*0.0000001267)
	eps0 = 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	return L0, M, e, eps0
}

// EquationOfTime returns the difference between apparent and mean solar time
// in minutes. Positive when the sundial runs ahead of the clock.
func EquationOfTime(t time.Time) float64 {
	L0, M, e, eps0 := sunCoordinates(t)

	y := math.Tan(degToRad(eps0)/2) * math.Tan(degToRad(eps0)/2)
	return radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4 // 4 minutes per degree
}

// declination returns the apparent solar declination at t in radians.
func declination(t time.Time) float64 {
	L0, M, _, eps0 := sunCoordinates(t)
	jd := julian.TimeToJD(t.UTC())
	T := (jd - 2451545.0) / 36525.0

	// Equation of center corrects the mean longitude to the true longitude.
	C := math.Sin(degToRad(M))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*M))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*M))*0.000289
	sunLong := L0 + C
	omega := 125.04 - 1934.136*T
	lambda := sunLong - 0.00569 - 0.00478*math.Sin(degToRad(omega))

	return math.Asin(math.Sin(degToRad(eps0)) * math.Sin(degToRad(lambda)))
}

// ZenithDeg returns the solar zenith angle at t for the site, in degrees.
// Values at or above 90 mean the sun is below the horizon.
func (s Site) ZenithDeg(t time.Time) float64 {
	u := t.UTC()
	utcMin := float64(u.Hour()*60+u.Minute()) + float64(u.Second())/60.0
	tst := utcMin + 4*s.Longitude + EquationOfTime(t) // true solar time in minutes
	haRad := degToRad(tst/4 - 180)                    // hour angle, noon = 0

	latRad := degToRad(s.Latitude)
	deltaRad := declination(t)
	cosZen := math.Sin(latRad)*math.Sin(deltaRad) +
		math.Cos(latRad)*math.Cos(deltaRad)*math.Cos(haRad)
	return radToDeg(math.Acos(cosZen))
}
