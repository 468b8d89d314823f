package solar

import "math"

// Observer is a ground location on a spherical Earth, in degrees.
type Observer struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SunPosition holds the sun's apparent direction for an observer.
type SunPosition struct {
	AzimuthDeg   float64 `json:"azimuth"`   // 0 = North, clockwise
	ElevationDeg float64 `json:"elevation"` // 0 = horizon, 90 = zenith
}

// NewObserver creates an Observer from geodetic latitude/longitude in degrees.
// Longitude is normalized into [-180, 180).
func NewObserver(latDeg, lonDeg float64) Observer {
	return Observer{
		Latitude:  clamp(latDeg, -90, 90),
		Longitude: NormalizeLongitude(lonDeg),
	}
}

// SunPositionFrom computes the direction to the sun for obs when the sun is
// overhead at p. Refraction and parallax are ignored, so elevation is exactly
// 90 minus the angular distance to the subsolar point and the horizon
// coincides with the terminator circle.
func SunPositionFrom(obs Observer, p SubsolarPoint) SunPosition {
	dist := AngularDistance(obs.Longitude, obs.Latitude, p.Longitude, p.Latitude)

	phi1 := degToRad(obs.Latitude)
	phi2 := degToRad(p.Latitude)
	dLambda := degToRad(p.Longitude - obs.Longitude)

	// Initial great-circle bearing from observer toward the subsolar point.
	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	az := math.Atan2(y, x)
	if az < 0 {
		az += 2 * math.Pi
	}

	return SunPosition{
		AzimuthDeg:   radToDeg(az),
		ElevationDeg: TerminatorRadius - dist,
	}
}

// IsDay reports whether the sun is above obs's horizon at p.
func IsDay(obs Observer, p SubsolarPoint) bool {
	return Terminator(p).Contains(obs.Longitude, obs.Latitude)
}
