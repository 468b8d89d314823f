package render

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/star/daynight/internal/gallery"
	"github.com/star/daynight/internal/solar"
)

var (
	juneSolstice = time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC)
	decSolstice  = time.Date(2024, 12, 21, 9, 20, 0, 0, time.UTC)
)

func TestNewScene(t *testing.T) {
	s := NewScene(juneSolstice)
	if s.Subsolar != solar.Subsolar(juneSolstice) {
		t.Errorf("NewScene subsolar = %+v, want %+v", s.Subsolar, solar.Subsolar(juneSolstice))
	}
	if s.Boundary.Center() != s.Subsolar {
		t.Errorf("boundary center = %+v, want subsolar %+v", s.Boundary.Center(), s.Subsolar)
	}
	if !s.Instant.Equal(juneSolstice) {
		t.Errorf("instant = %v, want %v", s.Instant, juneSolstice)
	}
}

func TestEquirect_RoundTrip(t *testing.T) {
	proj := equirect{w: 720, h: 360}
	tests := []struct {
		lon, lat float64
		x, y     float64
	}{
		{-180, 90, 0, 0},
		{0, 0, 360, 180},
		{180, -90, 720, 360},
		{90, 45, 540, 90},
	}
	for _, tt := range tests {
		if x, y := proj.x(tt.lon), proj.y(tt.lat); x != tt.x || y != tt.y {
			t.Errorf("project(%v, %v) = (%v, %v), want (%v, %v)", tt.lon, tt.lat, x, y, tt.x, tt.y)
		}
		if lon, lat := proj.lonLat(tt.x, tt.y); lon != tt.lon || lat != tt.lat {
			t.Errorf("lonLat(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, lon, lat, tt.lon, tt.lat)
		}
	}
}

func TestTerminatorCurve(t *testing.T) {
	p := solar.Subsolar(juneSolstice)
	tests := []struct {
		step float64
		want int
	}{
		{1, 361},
		{2, 181},
		{7, 53},
	}
	for _, tt := range tests {
		curve := terminatorCurve(p, tt.step)
		if len(curve) != tt.want {
			t.Errorf("terminatorCurve(step=%v) has %d points, want %d", tt.step, len(curve), tt.want)
			continue
		}
		if curve[0][0] != -180 || curve[len(curve)-1][0] != 180 {
			t.Errorf("terminatorCurve(step=%v) spans %v..%v, want -180..180", tt.step, curve[0][0], curve[len(curve)-1][0])
		}
	}
}

func TestSVG_Render(t *testing.T) {
	var b bytes.Buffer
	if err := (SVG{Graticule: true}).Render(&b, NewScene(juneSolstice), Size{Width: 720, Height: 360}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="720" height="360"`,
		`class="night"`,
		`class="day"`,
		`class="graticule"`,
		`class="terminator"`,
		`class="sun"`,
		`.terminator {`,
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg output missing %q", want)
		}
	}
}

func TestSVG_NoGraticule(t *testing.T) {
	var b bytes.Buffer
	if err := (SVG{}).Render(&b, NewScene(juneSolstice), Size{Width: 120, Height: 60}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(b.String(), `class="graticule"`) {
		t.Error("graticule drawn when disabled")
	}
}

func TestSVG_DayClosesTowardLitPole(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"june", juneSolstice, " L720,0 L0,0 Z"},
		{"december", decSolstice, " L720,360 L0,360 Z"},
	}
	for _, tt := range tests {
		var b bytes.Buffer
		if err := (SVG{}).Render(&b, NewScene(tt.at), Size{Width: 720, Height: 360}); err != nil {
			t.Fatalf("%s: Render: %v", tt.name, err)
		}
		if !strings.Contains(b.String(), tt.want+`"/>`) {
			t.Errorf("%s: day path does not close with %q", tt.name, tt.want)
		}
	}
}

func TestSVG_InvalidSize(t *testing.T) {
	for _, size := range []Size{{0, 10}, {10, 0}, {-1, -1}} {
		if err := (SVG{}).Render(io.Discard, NewScene(juneSolstice), size); err == nil {
			t.Errorf("Render(size=%+v) returned nil error", size)
		}
	}
}

func TestASCII_Render(t *testing.T) {
	size := Size{Width: 60, Height: 20}
	s := NewScene(juneSolstice)

	var b bytes.Buffer
	if err := (ASCII{}).Render(&b, s, size); err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	if len(lines) != size.Height {
		t.Fatalf("got %d lines, want %d", len(lines), size.Height)
	}
	for i, line := range lines {
		if len(line) != size.Width {
			t.Errorf("line %d has width %d, want %d", i, len(line), size.Width)
		}
	}

	if n := strings.Count(b.String(), string(GlyphSun)); n != 1 {
		t.Errorf("sun glyph appears %d times, want 1", n)
	}
	// June: the north polar row is lit all around, the south polar row is dark.
	if strings.ContainsAny(lines[0], string(GlyphNight)+string(GlyphTerminator)) {
		t.Errorf("top row %q has night cells in June", lines[0])
	}
	if strings.ContainsAny(lines[size.Height-1], string(GlyphDay)+string(GlyphTerminator)) {
		t.Errorf("bottom row %q has day cells in June", lines[size.Height-1])
	}
}

func TestASCII_InvalidSize(t *testing.T) {
	if err := (ASCII{}).Render(io.Discard, NewScene(juneSolstice), Size{}); err == nil {
		t.Error("Render with zero size returned nil error")
	}
}

func TestGalleryPage(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	entries := gallery.GenerateYear(now, now)

	b := gallery.NewBuilder(gallery.BuilderConfig{Workers: 4, Thumbnail: Thumbnail(Size{Width: 180, Height: 90})},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	frames, err := b.Build(context.Background(), gallery.ModeYear, entries)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// One frame without a thumbnail is drawn by the page itself.
	frames[3].Thumbnail = nil

	var out bytes.Buffer
	title := gallery.Title(gallery.ModeYear, now)
	if err := GalleryPage(&out, title, gallery.ModeYear, frames, Size{Width: 180, Height: 90}); err != nil {
		t.Fatalf("GalleryPage: %v", err)
	}
	page := out.String()

	if !strings.Contains(page, "<title>2024 - Monthly Terminators</title>") {
		t.Error("page missing title")
	}
	if !strings.Contains(page, "year-view") {
		t.Error("page missing year-view grid class")
	}
	if n := strings.Count(page, `class="mini-map-item"`); n != 12 {
		t.Errorf("page has %d cells, want 12", n)
	}
	if n := strings.Count(page, "<svg "); n != 12 {
		t.Errorf("page has %d inline svgs, want 12", n)
	}
	if !strings.Contains(page, "<h4>September</h4>") {
		t.Error("page missing September label")
	}
}
