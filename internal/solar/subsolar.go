package solar

import (
	"math"
	"time"
)

// SubsolarPoint is the location on Earth where the sun is directly overhead.
// Longitude is not wrapped into [-180, 180]; consumers treat it cyclically.
type SubsolarPoint struct {
	Longitude float64 `json:"longitude"` // degrees, east positive
	Latitude  float64 `json:"latitude"`  // degrees, north positive
}

// EclipticLongitude returns the apparent ecliptic longitude of the sun in degrees
// for n days since J2000.0, along with the obliquity of the ecliptic.
//
//	L = (280.46 + 0.9856474 n) mod 360
//	g = (357.528 + 0.9856003 n) mod 360
//	λ = L + 1.915 sin g + 0.02 sin 2g
//	ε = 23.439 - 0.0000004 n
//
// The remainder keeps the sign of the dividend, so λ may be negative before 2000.
func EclipticLongitude(n float64) (lambda, obliquity float64) {
	L := math.Mod(280.46+0.9856474*n, 360.0)
	g := math.Mod(357.528+0.9856003*n, 360.0)

	lambda = L + 1.915*math.Sin(degToRad(g)) + 0.02*math.Sin(degToRad(2*g))
	obliquity = 23.439 - 0.0000004*n
	return lambda, obliquity
}

// Declination returns the solar declination in degrees for n days since J2000.0.
func Declination(n float64) float64 {
	lambda, eps := EclipticLongitude(n)
	return radToDeg(math.Asin(math.Sin(degToRad(eps)) * math.Sin(degToRad(lambda))))
}

// EquationOfTime returns the apparent minus mean solar time in minutes for the
// UTC day of year of t:
//
//	B   = 360/365.24 · (dayOfYear − 81)   (degrees)
//	EoT = 9.87 sin 2B − 7.53 cos B − 1.5 sin B
func EquationOfTime(t time.Time) float64 {
	b := degToRad((360.0 / 365.24) * float64(DayOfYear(t)-81))
	return 9.87*math.Sin(2*b) - 7.53*math.Cos(b) - 1.5*math.Sin(b)
}

// UTCMinutes returns minutes since UTC midnight. Sub-second precision is dropped.
func UTCMinutes(t time.Time) float64 {
	utc := t.UTC()
	return float64(utc.Hour()*60+utc.Minute()) + float64(utc.Second())/60.0
}

// Subsolar returns the subsolar point for t.
func Subsolar(t time.Time) SubsolarPoint {
	n := DaysSinceJ2000(t)
	lon := (720 - UTCMinutes(t) - EquationOfTime(t)) / 4
	return SubsolarPoint{
		Longitude: lon,
		Latitude:  Declination(n),
	}
}

// NormalizeLongitude wraps lon into [-180, 180). Subsolar never applies it.
func NormalizeLongitude(lon float64) float64 {
	l := math.Mod(lon+180.0, 360.0)
	if l < 0 {
		l += 360.0
	}
	return l - 180.0
}
