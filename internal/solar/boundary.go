package solar

import "math"

// TerminatorRadius is the angular radius of the day hemisphere around the
// subsolar point.
const TerminatorRadius = 90.0

// Boundary describes the terminator as a geographic circle. The circle
// encloses the illuminated hemisphere.
type Boundary struct {
	CenterLongitude      float64 `json:"center_longitude"`
	CenterLatitude       float64 `json:"center_latitude"`
	AngularRadiusDegrees float64 `json:"angular_radius_degrees"`
}

// Terminator returns the day/night boundary centered on p.
func Terminator(p SubsolarPoint) Boundary {
	return Boundary{
		CenterLongitude:      p.Longitude,
		CenterLatitude:       p.Latitude,
		AngularRadiusDegrees: TerminatorRadius,
	}
}

// Center returns the boundary's center as a subsolar point.
func (b Boundary) Center() SubsolarPoint {
	return SubsolarPoint{Longitude: b.CenterLongitude, Latitude: b.CenterLatitude}
}

// Contains reports whether (lon, lat) lies strictly inside the circle, i.e. on
// the day side. Longitudes are compared cyclically.
func (b Boundary) Contains(lon, lat float64) bool {
	return AngularDistance(b.CenterLongitude, b.CenterLatitude, lon, lat) < b.AngularRadiusDegrees
}

// Ring samples the circle every step degrees of bearing and returns a closed
// ring of [lon, lat] vertices (first vertex repeated last). Vertex longitudes
// are normalized into [-180, 180). A non-positive step defaults to 1 degree.
func (b Boundary) Ring(step float64) [][2]float64 {
	if step <= 0 {
		step = 1
	}
	n := int(math.Ceil(360.0 / step))
	ring := make([][2]float64, 0, n+1)

	lat1 := degToRad(b.CenterLatitude)
	lon1 := degToRad(b.CenterLongitude)
	d := degToRad(b.AngularRadiusDegrees)
	sinLat1, cosLat1 := math.Sin(lat1), math.Cos(lat1)
	sinD, cosD := math.Sin(d), math.Cos(d)

	for i := 0; i < n; i++ {
		theta := degToRad(float64(i) * 360.0 / float64(n))
		sinLat2 := sinLat1*cosD + cosLat1*sinD*math.Cos(theta)
		lat2 := math.Asin(clamp(sinLat2, -1, 1))
		lon2 := lon1 + math.Atan2(math.Sin(theta)*sinD*cosLat1, cosD-sinLat1*sinLat2)
		ring = append(ring, [2]float64{NormalizeLongitude(radToDeg(lon2)), radToDeg(lat2)})
	}
	ring = append(ring, ring[0])
	return ring
}

// TerminatorLatitude returns the latitude where the terminator crosses the
// meridian lon:
//
//	φ = atan(−cos(λ − λs) / tan δ)
//
// This is the circle of Terminator(p) seen one meridian at a time; it is what an
// equirectangular renderer traces. At δ = 0 the curve degenerates to two
// meridians and the result is ±90, or 0 exactly on them.
func TerminatorLatitude(lon float64, p SubsolarPoint) float64 {
	lambda := degToRad(lon)
	lambdaS := degToRad(p.Longitude)
	delta := degToRad(p.Latitude)

	phi := math.Atan(-math.Cos(lambda-lambdaS) / math.Tan(delta))
	if math.IsNaN(phi) {
		return 0
	}
	return radToDeg(phi)
}

// AngularDistance returns the great-circle distance in degrees between two
// points given in degrees (haversine form).
func AngularDistance(lon1, lat1, lon2, lat2 float64) float64 {
	phi1 := degToRad(lat1)
	phi2 := degToRad(lat2)
	dPhi := phi2 - phi1
	dLambda := degToRad(lon2 - lon1)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return radToDeg(2 * math.Asin(math.Sqrt(clamp(h, 0, 1))))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
