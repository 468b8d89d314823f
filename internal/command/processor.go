// Package command implements the line-oriented control language of the watch
// view: pinning dates, returning to live time and browsing galleries.
package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/star/daynight/internal/gallery"
	"github.com/star/daynight/internal/solar"
	"github.com/star/daynight/internal/timesource"
)

// Bye is returned by ProcessCommand when the session should end.
const Bye = "BYE"

// GalleryFunc is notified whenever a new gallery is generated.
type GalleryFunc func(mode gallery.Mode, title string, entries []gallery.Entry)

// Processor parses commands and applies them to a time source. It is not safe
// for concurrent use; callers run it on their event loop.
type Processor struct {
	src       *timesource.Source
	clock     timesource.Clock
	gen       *gallery.Generator
	onGallery GalleryFunc

	mode    gallery.Mode
	entries []gallery.Entry
}

// NewProcessor wraps src. clock supplies the time of day kept when a date is
// pinned; onGallery may be nil.
func NewProcessor(src *timesource.Source, clock timesource.Clock, onGallery GalleryFunc) *Processor {
	if clock == nil {
		clock = timesource.SystemClock{}
	}
	return &Processor{
		src:       src,
		clock:     clock,
		gen:       gallery.NewGenerator(clock),
		onGallery: onGallery,
	}
}

// ProcessCommand runs one command line and returns the reply text.
func (p *Processor) ProcessCommand(cmd string) string {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return ""
	}

	switch strings.ToUpper(parts[0]) {
	case "HELP", "H", "?":
		return helpText
	case "DATE", "D":
		if len(parts) != 2 {
			return "Usage: DATE YYYY-MM-DD\n"
		}
		return p.handleDate(parts[1])
	case "RESET", "LIVE", "NOW":
		c := p.src.ResetToLive()
		return fmt.Sprintf("Live: %s\n", formatInstant(c.State.Instant))
	case "MONTH":
		return p.handleGallery(gallery.ModeMonth)
	case "YEAR":
		return p.handleGallery(gallery.ModeYear)
	case "PICK", "P":
		if len(parts) != 2 {
			return "Usage: PICK <n>\n"
		}
		return p.handlePick(parts[1])
	case "SHOW", "SH":
		return p.handleShow()
	case "BYE", "QUIT", "EXIT", "Q":
		return Bye
	default:
		return fmt.Sprintf("Unknown command: %s\nType HELP for available commands.\n", parts[0])
	}
}

// Gallery returns the most recently generated gallery.
func (p *Processor) Gallery() (gallery.Mode, []gallery.Entry) {
	return p.mode, p.entries
}

const helpText = `Available commands:
DATE YYYY-MM-DD  - Pin the map to a date, keeping the current time of day
RESET            - Return to live time
MONTH            - List one entry per day of the selected month
YEAR             - List one entry per month of the selected year
PICK <n>         - Pin to entry n of the last MONTH/YEAR listing
SHOW             - Show the selected instant and subsolar point
HELP             - Show this help
QUIT             - Exit
`

func (p *Processor) handleDate(arg string) string {
	date, err := timesource.ParseDate(arg)
	if err != nil {
		return fmt.Sprintf("Invalid date %q (want YYYY-MM-DD)\n", arg)
	}
	c := p.src.PinTo(date, p.clock.Now())
	return fmt.Sprintf("Pinned: %s\n", formatInstant(c.State.Instant))
}

func (p *Processor) handleGallery(mode gallery.Mode) string {
	ref := p.src.Current()
	entries, err := p.gen.Generate(mode, ref)
	if err != nil {
		return err.Error() + "\n"
	}
	title := gallery.Title(mode, ref)
	p.mode, p.entries = mode, entries
	if p.onGallery != nil {
		p.onGallery(mode, title, entries)
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	for i, e := range entries {
		sp := solar.Subsolar(e.Instant)
		fmt.Fprintf(&b, "%3d) %-10s %s  lat %6.2f  lon %7.2f\n",
			i+1, e.Label, e.Date(), sp.Latitude, solar.NormalizeLongitude(sp.Longitude))
	}
	return b.String()
}

func (p *Processor) handlePick(arg string) string {
	if len(p.entries) == 0 {
		return "No gallery listed. Use MONTH or YEAR first.\n"
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(p.entries) {
		return fmt.Sprintf("Invalid entry %q (want 1-%d)\n", arg, len(p.entries))
	}
	e := p.entries[n-1]
	c := p.src.PinInstant(e.Instant)
	return fmt.Sprintf("Pinned: %s (%s)\n", formatInstant(c.State.Instant), e.Label)
}

func (p *Processor) handleShow() string {
	st := p.src.State()
	if !st.Pinned {
		st.Instant = p.src.Current()
	}
	sp := solar.Subsolar(st.Instant)
	return fmt.Sprintf("Mode: %s\nInstant: %s\nJulian date: %.5f\nSubsolar: lat %.3f lon %.3f\n",
		st.Mode(), formatInstant(st.Instant), solar.JulianDate(st.Instant),
		sp.Latitude, solar.NormalizeLongitude(sp.Longitude))
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
