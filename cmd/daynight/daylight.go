package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/star/daynight/internal/daylight"
	"github.com/star/daynight/internal/solar"
	"github.com/star/daynight/internal/timesource"
)

func runDaylight(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("daylight")
	var sel selection
	sel.register(fs)
	lat := fs.Float64("lat", a.cfg.Observer.Latitude, "observer latitude in `degrees`")
	lon := fs.Float64("lon", a.cfg.Observer.Longitude, "observer longitude in `degrees`")
	hours := fs.Float64("hours", a.cfg.Daylight.HorizonHours, "prediction window in `hours`")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, err := sel.source(a.clock)
	if err != nil {
		return err
	}
	start := src.Current()

	horizon := 0.0
	if a.cfg.Daylight.Refraction {
		horizon = daylight.StandardHorizon
	}
	site := daylight.Site{Name: "observer", Observer: solar.NewObserver(*lat, *lon)}

	results, err := daylight.Predict(ctx, daylight.Request{
		Sites:        []daylight.Site{site},
		Start:        start,
		HorizonHours: *hours,
		Horizon:      horizon,
	})
	if err != nil {
		return err
	}
	r := results[0]
	if r.Error != "" {
		return fmt.Errorf("predicting daylight: %s", r.Error)
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Observer %.4f, %.4f from %s\n\n", site.Observer.Latitude, site.Observer.Longitude, start.UTC().Format(time.RFC3339))
	fmt.Fprintln(tw, "EVENT\tTIME (UTC)\tAZIMUTH\tWHEN\tREFERENCE")
	for _, tr := range r.Transitions {
		fmt.Fprintf(tw, "%s\t%s\t%.1f°\t%s\t%s\n",
			tr.Kind,
			tr.Time.UTC().Format("2006-01-02 15:04:05"),
			tr.Azimuth,
			humanize.RelTime(start, tr.Time, "before start", "after start"),
			referenceFor(site.Observer, tr),
		)
	}
	if len(r.Transitions) == 0 {
		fmt.Fprintln(tw, "(none)\t\t\t\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "\nDaylight in window: %s\n", daylight.DayLength(r.Transitions).Round(time.Minute))
	return nil
}

// referenceFor formats go-sunrise's time for the same event and day.
func referenceFor(obs solar.Observer, tr daylight.Transition) string {
	rise, set := daylight.Reference(obs, timesource.DateOf(tr.Time.UTC()))
	ref := set
	if tr.Kind == daylight.Sunrise {
		ref = rise
	}
	if ref.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s (%+.1fm)", ref.UTC().Format("15:04:05"), tr.Time.Sub(ref).Minutes())
}
