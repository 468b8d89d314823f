package render

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/star/daynight/internal/solar"
)

// Cell glyphs used by ASCII.
const (
	GlyphDay        = '#'
	GlyphNight      = '.'
	GlyphTerminator = '+'
	GlyphSun        = '@'
)

// ASCII renders the map as a grid of character cells, one line per row.
// A cell is day when its center lies inside the terminator boundary.
type ASCII struct{}

func (ASCII) Render(w io.Writer, s Scene, size Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("invalid terminal size %dx%d", size.Width, size.Height)
	}
	proj := equirect{w: float64(size.Width), h: float64(size.Height)}
	center := s.Boundary.Center()

	// A cell straddles the terminator when the boundary passes within half
	// a cell of its center.
	halfCell := math.Max(180/proj.h, 360/proj.w) / 2

	sunCol := int(proj.x(solar.NormalizeLongitude(center.Longitude)))
	sunRow := int(proj.y(center.Latitude))

	bw := bufio.NewWriter(w)
	for row := 0; row < size.Height; row++ {
		for col := 0; col < size.Width; col++ {
			lon, lat := proj.lonLat(float64(col)+0.5, float64(row)+0.5)
			d := solar.AngularDistance(lon, lat, center.Longitude, center.Latitude)

			glyph := byte(GlyphNight)
			switch {
			case row == sunRow && col == sunCol:
				glyph = GlyphSun
			case math.Abs(d-s.Boundary.AngularRadiusDegrees) < halfCell:
				glyph = GlyphTerminator
			case s.Boundary.Contains(lon, lat):
				glyph = GlyphDay
			}
			bw.WriteByte(glyph)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
