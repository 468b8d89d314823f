package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/star/daynight/internal/solar"
	"github.com/star/daynight/web"
)

// SVG renders an equirectangular day/night map. The base map's land features
// are not drawn; an optional graticule gives orientation.
type SVG struct {
	// Step is the longitude sampling interval of the terminator in degrees
	// (default 1).
	Step      float64
	Graticule bool
}

var stylesheet = mustReadAsset("styles.css")

// Render writes a standalone <svg> document.
func (r SVG) Render(w io.Writer, s Scene, size Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("invalid svg size %dx%d", size.Width, size.Height)
	}
	step := r.Step
	if step <= 0 {
		step = 1
	}
	proj := equirect{w: float64(size.Width), h: float64(size.Height)}
	curve := terminatorCurve(s.Subsolar, step)

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" preserveAspectRatio="xMidYMid meet">`,
		size.Width, size.Height, size.Width, size.Height)
	b.WriteString("\n<style>")
	b.Write(stylesheet)
	b.WriteString("</style>\n")

	fmt.Fprintf(&b, `<rect class="night" width="%d" height="%d"/>`+"\n", size.Width, size.Height)
	fmt.Fprintf(&b, `<path class="day" d="%s"/>`+"\n", dayPath(proj, curve, s.Subsolar.Latitude >= 0))

	if r.Graticule {
		fmt.Fprintf(&b, `<path class="graticule" d="%s"/>`+"\n", graticulePath(proj, 30))
	}

	fmt.Fprintf(&b, `<path class="terminator" d="%s"/>`+"\n", polyline(proj, curve))

	lon := solar.NormalizeLongitude(s.Subsolar.Longitude)
	radius := math.Max(1.5, float64(size.Width)/180)
	fmt.Fprintf(&b, `<circle class="sun" cx="%s" cy="%s" r="%s"/>`+"\n",
		ff(proj.x(lon)), ff(proj.y(s.Subsolar.Latitude)), ff(radius))
	b.WriteString("</svg>\n")

	_, err := w.Write(b.Bytes())
	return err
}

// terminatorCurve samples the terminator's crossing latitude at every step
// degrees of longitude from -180 to 180 inclusive.
func terminatorCurve(p solar.SubsolarPoint, step float64) [][2]float64 {
	n := int(math.Ceil(360 / step))
	pts := make([][2]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		lon := math.Min(-180+float64(i)*step, 180)
		pts = append(pts, [2]float64{lon, solar.TerminatorLatitude(lon, p)})
	}
	return pts
}

// dayPath closes the terminator curve along the top edge when the north pole
// is lit and along the bottom edge otherwise.
func dayPath(proj equirect, curve [][2]float64, northLit bool) string {
	edge := proj.h
	if northLit {
		edge = 0
	}
	var b bytes.Buffer
	b.WriteString(polyline(proj, curve))
	fmt.Fprintf(&b, " L%s,%s L0,%s Z", ff(proj.w), ff(edge), ff(edge))
	return b.String()
}

func polyline(proj equirect, pts [][2]float64) string {
	var b bytes.Buffer
	for i, p := range pts {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteString(" L")
		}
		b.WriteString(ff(proj.x(p[0])))
		b.WriteByte(',')
		b.WriteString(ff(proj.y(p[1])))
	}
	return b.String()
}

func graticulePath(proj equirect, every int) string {
	var b bytes.Buffer
	for lon := -180 + every; lon < 180; lon += every {
		x := ff(proj.x(float64(lon)))
		fmt.Fprintf(&b, "M%s,0 L%s,%s ", x, x, ff(proj.h))
	}
	for lat := -90 + every; lat < 90; lat += every {
		y := ff(proj.y(float64(lat)))
		fmt.Fprintf(&b, "M0,%s L%s,%s ", y, ff(proj.w), y)
	}
	return string(bytes.TrimSpace(b.Bytes()))
}

// ff formats a coordinate with two decimals and no trailing zeros.
func ff(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func mustReadAsset(name string) []byte {
	data, err := web.Content.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("render: missing embedded asset %s: %v", name, err))
	}
	return data
}
