package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/star/daynight/internal/daylight"
	"github.com/star/daynight/internal/solar"
	"github.com/star/daynight/internal/timesource"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	from := flag.String("from", time.Now().UTC().Format(timesource.DateLayout), "first `date`")
	days := flag.Int("days", 14, "number of days")
	lat := flag.Float64("lat", 39.7392, "observer latitude")
	lon := flag.Float64("lon", -104.9903, "observer longitude")
	flag.Parse()

	start, err := timesource.ParseDate(*from)
	if err != nil {
		fmt.Println("ERROR parsing -from:", err)
		os.Exit(1)
	}
	obs := solar.NewObserver(*lat, *lon)
	noon := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

	fmt.Printf("Observer %.4f, %.4f; solar geometry at 12:00 UTC\n\n", obs.Latitude, obs.Longitude)
	fmt.Printf("%-10s  %-13s  %3s  %7s  %8s  %9s  %-8s  %-8s  %-8s  %-8s\n",
		"date", "JD", "doy", "EoT(m)", "lat", "lon", "rise", "set", "ref rise", "ref set")

	for i := 0; i < *days; i++ {
		day := start.At(noon).AddDate(0, 0, i)
		date := timesource.DateOf(day)
		p := solar.Subsolar(day)

		midnight := time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, time.UTC)
		results, err := daylight.Predict(context.Background(), daylight.Request{
			Sites:        []daylight.Site{{Name: "diag", Observer: obs}},
			Start:        midnight,
			HorizonHours: 24,
			Horizon:      daylight.StandardHorizon,
		})
		if err != nil {
			logger.Error("daylight prediction failed", "date", date.String(), "error", err)
			os.Exit(1)
		}
		var rise, set time.Time
		for _, tr := range results[0].Transitions {
			switch {
			case tr.Kind == daylight.Sunrise && rise.IsZero():
				rise = tr.Time
			case tr.Kind == daylight.Sunset && set.IsZero():
				set = tr.Time
			}
		}
		refRise, refSet := daylight.Reference(obs, date)

		fmt.Printf("%-10s  %13.5f  %3d  %7.2f  %8.3f  %9.3f  %-8s  %-8s  %-8s  %-8s\n",
			date, solar.JulianDate(day), solar.DayOfYear(day), solar.EquationOfTime(day),
			p.Latitude, solar.NormalizeLongitude(p.Longitude),
			clock(rise), clock(set), clock(refRise), clock(refSet))
	}
}

func clock(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("15:04:05")
}
