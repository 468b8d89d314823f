// Package render draws the day/night map. It consumes the subsolar point and
// terminator boundary and knows nothing about how the instant was chosen.
package render

import (
	"io"
	"time"

	"github.com/star/daynight/internal/solar"
)

// Scene is everything a renderer needs for one instant.
type Scene struct {
	Instant  time.Time
	Subsolar solar.SubsolarPoint
	Boundary solar.Boundary
}

// NewScene computes the scene for t.
func NewScene(t time.Time) Scene {
	p := solar.Subsolar(t)
	return Scene{
		Instant:  t,
		Subsolar: p,
		Boundary: solar.Terminator(p),
	}
}

// Size is a drawing surface size in renderer units (pixels or character cells).
type Size struct {
	Width  int
	Height int
}

// Renderer draws a scene onto w.
type Renderer interface {
	Render(w io.Writer, s Scene, size Size) error
}

// equirect maps geographic coordinates onto a plate carrée surface.
type equirect struct {
	w, h float64
}

func (e equirect) x(lon float64) float64 {
	return (lon + 180) / 360 * e.w
}

func (e equirect) y(lat float64) float64 {
	return (90 - lat) / 180 * e.h
}

// lonLat is the inverse projection of a point.
func (e equirect) lonLat(x, y float64) (lon, lat float64) {
	return x/e.w*360 - 180, 90 - y/e.h*180
}
