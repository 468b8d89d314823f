package timesource

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the accepted text form of a calendar date.
const DateLayout = "2006-01-02"

// CalendarDate is a date without a time of day or zone.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses YYYY-MM-DD. Out-of-range days such as 2023-02-30 are
// rejected rather than normalized.
func ParseDate(s string) (CalendarDate, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date %q (want %s): %w", s, DateLayout, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// At combines the date with the wall-clock time of day (hour through
// nanosecond) and location of tod.
func (d CalendarDate) At(tod time.Time) time.Time {
	return time.Date(d.Year, d.Month, d.Day,
		tod.Hour(), tod.Minute(), tod.Second(), tod.Nanosecond(), tod.Location())
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
