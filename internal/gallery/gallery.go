// Package gallery samples instants across a month or a year so terminators can
// be compared side by side.
package gallery

import (
	"fmt"
	"strconv"
	"time"

	"github.com/star/daynight/internal/timesource"
)

// yearSampleDay avoids sampling on the days equinoxes and solstices fall on.
const yearSampleDay = 15

// Mode selects the sampling period.
type Mode string

const (
	ModeMonth Mode = "month"
	ModeYear  Mode = "year"
)

// ParseMode accepts "month" or "year".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMonth, ModeYear:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown gallery mode %q (want month or year)", s)
}

// Entry is one gallery cell. Selecting it pins the time source to Instant.
type Entry struct {
	Label   string    `json:"label"`
	Instant time.Time `json:"instant"`
}

// Date returns the calendar date of the entry's instant.
func (e Entry) Date() timesource.CalendarDate {
	return timesource.DateOf(e.Instant)
}

// GenerateMonth returns one entry per day of ref's month, each stamped with
// now's time of day and labeled with the day number.
func GenerateMonth(ref, now time.Time) []Entry {
	year, month, _ := ref.Date()
	days := timesource.DaysIn(year, month)

	entries := make([]Entry, 0, days)
	for day := 1; day <= days; day++ {
		d := timesource.CalendarDate{Year: year, Month: month, Day: day}
		entries = append(entries, Entry{
			Label:   strconv.Itoa(day),
			Instant: d.At(now),
		})
	}
	return entries
}

// GenerateYear returns twelve entries, one on the 15th of each month of ref's
// year, each stamped with now's time of day and labeled with the month name.
func GenerateYear(ref, now time.Time) []Entry {
	year := ref.Year()

	entries := make([]Entry, 0, 12)
	for m := time.January; m <= time.December; m++ {
		d := timesource.CalendarDate{Year: year, Month: m, Day: yearSampleDay}
		entries = append(entries, Entry{
			Label:   m.String(),
			Instant: d.At(now),
		})
	}
	return entries
}

// Title returns the heading shown above a gallery.
func Title(mode Mode, ref time.Time) string {
	if mode == ModeYear {
		return fmt.Sprintf("%d - Monthly Terminators", ref.Year())
	}
	return fmt.Sprintf("%s %d - Day/Night Terminators", ref.Month(), ref.Year())
}

// Generator produces entries stamped with the time of day of its clock.
type Generator struct {
	clock timesource.Clock
}

func NewGenerator(clock timesource.Clock) *Generator {
	if clock == nil {
		clock = timesource.SystemClock{}
	}
	return &Generator{clock: clock}
}

// Month is GenerateMonth with the generator's clock as now.
func (g *Generator) Month(ref time.Time) []Entry {
	return GenerateMonth(ref, g.clock.Now())
}

// Year is GenerateYear with the generator's clock as now.
func (g *Generator) Year(ref time.Time) []Entry {
	return GenerateYear(ref, g.clock.Now())
}

// Generate dispatches on mode.
func (g *Generator) Generate(mode Mode, ref time.Time) ([]Entry, error) {
	switch mode {
	case ModeMonth:
		return g.Month(ref), nil
	case ModeYear:
		return g.Year(ref), nil
	}
	return nil, fmt.Errorf("unknown gallery mode %q", mode)
}
