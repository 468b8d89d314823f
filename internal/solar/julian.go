// Package solar computes the subsolar point and the day/night terminator for an
// arbitrary instant. Everything here is a pure function of its arguments.
package solar

import (
	"math"
	"time"
)

// j2000 is the Julian Date of the J2000.0 epoch (January 1, 2000, 12:00:00 TT).
const j2000 = 2451545.0

// unixEpochJD is the Julian Date of 1970-01-01T00:00:00Z.
const unixEpochJD = 2440587.5

const secondsPerDay = 86400

// JulianDate converts an instant to Julian Date using Unix-epoch arithmetic:
//
//	JD = unixMillis/86400000 + 2440587.5
//
// Whole days and the day fraction are accumulated separately so adding exactly
// one day to t adds exactly 1 to the result. Any representable time.Time is accepted.
func JulianDate(t time.Time) float64 {
	sec := t.Unix()
	days := sec / secondsPerDay
	rem := sec % secondsPerDay
	if rem < 0 {
		rem += secondsPerDay
		days--
	}
	frac := (float64(rem) + float64(t.Nanosecond())/1e9) / secondsPerDay
	return float64(days) + unixEpochJD + frac
}

// DaysSinceJ2000 returns the fractional number of days between t and J2000.0.
func DaysSinceJ2000(t time.Time) float64 {
	return JulianDate(t) - j2000
}

// DayOfYear returns the UTC calendar day of year, 1 on January 1. The local
// zone of t never shifts the result.
func DayOfYear(t time.Time) int {
	return t.UTC().YearDay()
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180.0
}

func radToDeg(r float64) float64 {
	return r * 180.0 / math.Pi
}
