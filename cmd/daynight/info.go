package main

import (
	"context"
	"time"

	"github.com/star/daynight/internal/solar"
)

type infoOutput struct {
	Instant        time.Time           `json:"instant"`
	Mode           string              `json:"mode"`
	JulianDate     float64             `json:"julian_date"`
	DayOfYear      int                 `json:"day_of_year"`
	EquationOfTime float64             `json:"equation_of_time_minutes"`
	Subsolar       solar.SubsolarPoint `json:"subsolar"`
	Boundary       solar.Boundary      `json:"boundary"`
	Terminator     *geoJSONFeature     `json:"terminator,omitempty"`
}

type geoJSONFeature struct {
	Type       string            `json:"type"`
	Geometry   geoJSONGeometry   `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

type geoJSONGeometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

func runInfo(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("info")
	var sel selection
	sel.register(fs)
	ring := fs.Float64("ring", 0, "include the terminator as a GeoJSON line sampled every `degrees` (0 omits it)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, err := sel.source(a.clock)
	if err != nil {
		return err
	}
	return writeInfo(a, src.Current(), src.Mode().String(), *ring)
}

func writeInfo(a *app, t time.Time, mode string, ringStep float64) error {
	p := solar.Subsolar(t)
	b := solar.Terminator(p)
	out := infoOutput{
		Instant:        t.UTC(),
		Mode:           mode,
		JulianDate:     solar.JulianDate(t),
		DayOfYear:      solar.DayOfYear(t),
		EquationOfTime: solar.EquationOfTime(t),
		Subsolar:       p,
		Boundary:       b,
	}
	if ringStep > 0 {
		out.Terminator = &geoJSONFeature{
			Type: "Feature",
			Geometry: geoJSONGeometry{
				Type:        "LineString",
				Coordinates: b.Ring(ringStep),
			},
			Properties: map[string]string{"name": "terminator"},
		}
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
