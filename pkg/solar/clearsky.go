package solar

import (
	"math"
	"time"
)

const (
	solarConstant = 1361.0 // W/m², average solar energy at the top of the atmosphere
)

// ClearSkyGHI estimates global horizontal irradiance in W/m² at time t under
// clear skies, following the Ineichen-Perez model.
func (s Site) ClearSkyGHI(t time.Time) float64 {
	N := t.UTC().YearDay()

	thetaZ := s.ZenithDeg(t)
	if thetaZ >= 90.0 {
		return 0.0 // Sun below horizon, no irradiance
	}

	// Extraterrestrial radiation, adjusted for Earth-Sun distance variation
	G0 := solarConstant * (1 + 0.033*math.Cos(degToRad(360.0*(float64(N)-3)/365.0)))

	TL := 2.0 // Linke turbidity factor, typical for clear skies (range: 2-6)
	// Air mass via the Kasten-Young formula
	AM := 1.0 / (math.Cos(degToRad(thetaZ)) + 0.50572*math.Pow(96.07995-thetaZ, -1.6364))
	c := 0.7   // Normalization constant for DNI
	a := 0.027 // Atmospheric extinction coefficient
	DNI := G0 * c * math.Exp(-a*AM*TL*math.Exp(-s.Altitude/8000.0))

	// Diffuse component with a seasonal adjustment
	fh := 0.1 + 0.05*math.Sin(math.Pi*float64(N-100)/365.0)
	DHI := fh * G0 * math.Sin(degToRad(thetaZ))

	return DNI*math.Cos(degToRad(thetaZ)) + DHI
}

// Daylight returns sunrise and sunset as minutes from midnight UTC on the
// given date. ok is false during polar day and polar night.
func (s Site) Daylight(date time.Time) (sunrise, sunset float64, ok bool) {
	noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, time.UTC)

	latRad := degToRad(s.Latitude)
	deltaRad := declination(noon)

	// cos(H) = -tan(lat) * tan(declination) at the horizon crossing
	cosH := -math.Tan(latRad) * math.Tan(deltaRad)
	if cosH < -1.0 || cosH > 1.0 {
		return -1, -1, false
	}

	hourAngleMin := radToDeg(math.Acos(cosH)) * 4 // 4 minutes per degree
	solarNoon := 720.0 - 4*s.Longitude - EquationOfTime(noon)

	sunrise = math.Mod(solarNoon-hourAngleMin+1440, 1440)
	sunset = math.Mod(solarNoon+hourAngleMin+1440, 1440)
	return sunrise, sunset, true
}
