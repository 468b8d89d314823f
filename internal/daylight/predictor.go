// Package daylight predicts sunrise and sunset for ground observers from the
// subsolar model, by scanning sun elevation forward in time.
package daylight

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"golang.org/x/sync/errgroup"

	"github.com/star/daynight/internal/metrics"
	"github.com/star/daynight/internal/solar"
	"github.com/star/daynight/internal/timesource"
)

// StandardHorizon is the conventional sunrise elevation in degrees: the
// sun's upper limb on the horizon with mean refraction.
const StandardHorizon = -0.833

const (
	defaultStep = 10 * time.Minute
	refineTo    = time.Second
)

// Kind is the direction of a horizon crossing.
type Kind string

const (
	Sunrise Kind = "sunrise"
	Sunset  Kind = "sunset"
)

// Site is a named observer.
type Site struct {
	Name     string         `json:"name"`
	Observer solar.Observer `json:"observer"`
}

// Transition is one horizon crossing.
type Transition struct {
	Time    time.Time `json:"time"`
	Kind    Kind      `json:"kind"`
	Azimuth float64   `json:"azimuth"`
}

// SiteTransitions holds the predicted crossings for one site.
type SiteTransitions struct {
	Site        Site         `json:"site"`
	Transitions []Transition `json:"transitions"`
	Error       string       `json:"error,omitempty"`
}

// Request holds the parameters for a prediction.
type Request struct {
	Sites        []Site
	Start        time.Time
	HorizonHours float64
	Horizon      float64       // elevation threshold in degrees; StandardHorizon or 0
	Step         time.Duration // coarse scan step (default: 10m)
}

// Predict computes transitions for every site. Sites run concurrently; a
// cancelled context marks the remaining sites with an error instead of
// failing the whole request.
func Predict(ctx context.Context, req Request) ([]SiteTransitions, error) {
	if req.HorizonHours <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %v hours", req.HorizonHours)
	}
	if req.Step <= 0 {
		req.Step = defaultStep
	}

	results := make([]SiteTransitions, len(req.Sites))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i, site := range req.Sites {
		i, site := i, site
		g.Go(func() error {
			transitions, err := predictSite(ctx, req, site.Observer)
			results[i] = SiteTransitions{Site: site, Transitions: transitions}
			if err != nil {
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		for _, tr := range r.Transitions {
			metrics.AddDaylightTransitions(string(tr.Kind), 1)
		}
	}
	return results, nil
}

func predictSite(ctx context.Context, req Request, obs solar.Observer) ([]Transition, error) {
	end := req.Start.Add(time.Duration(req.HorizonHours * float64(time.Hour)))
	var out []Transition

	prev := req.Start
	prevAbove := elevation(obs, prev) >= req.Horizon

	for prev.Before(end) {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		next := prev.Add(req.Step)
		if next.After(end) {
			next = end
		}
		above := elevation(obs, next) >= req.Horizon
		if above != prevAbove {
			at := refine(obs, prev, next, prevAbove, req.Horizon)
			kind := Sunset
			if above {
				kind = Sunrise
			}
			out = append(out, Transition{
				Time:    at,
				Kind:    kind,
				Azimuth: solar.SunPositionFrom(obs, solar.Subsolar(at)).AzimuthDeg,
			})
		}
		prev, prevAbove = next, above
	}
	return out, nil
}

// refine bisects [lo, hi] for the first instant whose side of the horizon
// differs from loAbove. The result is always on the post-crossing side.
func refine(obs solar.Observer, lo, hi time.Time, loAbove bool, horizon float64) time.Time {
	for hi.Sub(lo) > refineTo {
		mid := lo.Add(hi.Sub(lo) / 2)
		if (elevation(obs, mid) >= horizon) == loAbove {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}

func elevation(obs solar.Observer, t time.Time) float64 {
	return solar.SunPositionFrom(obs, solar.Subsolar(t)).ElevationDeg
}

// Reference returns sunrise and sunset for obs on date from the NOAA-based
// go-sunrise model, for cross-checking. Both are zero during polar day or
// night.
func Reference(obs solar.Observer, date timesource.CalendarDate) (rise, set time.Time) {
	return sunrise.SunriseSunset(obs.Latitude, obs.Longitude, date.Year, date.Month, date.Day)
}

// DayLength sums the time between each sunrise and the following sunset.
// A window that opens or closes in daylight is not counted.
func DayLength(transitions []Transition) time.Duration {
	var total time.Duration
	var rise time.Time
	for _, tr := range transitions {
		switch tr.Kind {
		case Sunrise:
			rise = tr.Time
		case Sunset:
			if !rise.IsZero() {
				total += tr.Time.Sub(rise)
				rise = time.Time{}
			}
		}
	}
	return total
}
