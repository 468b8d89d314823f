package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/star/daynight/internal/gallery"
)

var galleryPage = template.Must(template.New("gallery").Parse(string(mustReadAsset("gallery.html.tmpl"))))

type pageItem struct {
	Label     string
	Instant   string
	Latitude  float64
	Longitude float64
	SVG       template.HTML
}

type pageData struct {
	Title     string
	Mode      gallery.Mode
	CellWidth int
	Items     []pageItem
}

// Thumbnail returns a gallery.ThumbnailFunc that draws each frame as an SVG
// of the given size.
func Thumbnail(size Size) gallery.ThumbnailFunc {
	r := SVG{Step: 2}
	return func(f gallery.Frame) ([]byte, error) {
		var b bytes.Buffer
		s := Scene{Instant: f.Entry.Instant, Subsolar: f.Subsolar, Boundary: f.Boundary}
		if err := r.Render(&b, s, size); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	}
}

// GalleryPage writes a standalone HTML page with one cell per frame. Frames
// without a thumbnail are drawn at size.
func GalleryPage(w io.Writer, title string, mode gallery.Mode, frames []gallery.Frame, size Size) error {
	draw := Thumbnail(size)
	data := pageData{
		Title:     title,
		Mode:      mode,
		CellWidth: size.Width,
		Items:     make([]pageItem, 0, len(frames)),
	}
	for _, f := range frames {
		img := f.Thumbnail
		if img == nil {
			var err error
			if img, err = draw(f); err != nil {
				return fmt.Errorf("render %q: %w", f.Entry.Label, err)
			}
		}
		data.Items = append(data.Items, pageItem{
			Label:     f.Entry.Label,
			Instant:   f.Entry.Instant.UTC().Format(time.RFC3339),
			Latitude:  f.Subsolar.Latitude,
			Longitude: f.Subsolar.Longitude,
			// Rendered by SVG from numeric geometry only.
			SVG: template.HTML(img),
		})
	}
	return galleryPage.Execute(w, data)
}
