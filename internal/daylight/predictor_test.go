package daylight

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/star/daynight/internal/solar"
	"github.com/star/daynight/internal/timesource"
)

var (
	equator = Site{Name: "equator", Observer: solar.NewObserver(0, 0)}
	london  = Site{Name: "london", Observer: solar.NewObserver(51.5074, -0.1278)}
	arctic  = Site{Name: "arctic", Observer: solar.NewObserver(80, 15)}
)

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func TestPredict_EquatorEquinox(t *testing.T) {
	results, err := Predict(context.Background(), Request{
		Sites:        []Site{equator},
		Start:        time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		HorizonHours: 24,
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	r := results[0]
	if r.Error != "" {
		t.Fatalf("unexpected error: %s", r.Error)
	}
	if len(r.Transitions) != 2 {
		t.Fatalf("got %d transitions, want 2: %+v", len(r.Transitions), r.Transitions)
	}

	rise, set := r.Transitions[0], r.Transitions[1]
	if rise.Kind != Sunrise || set.Kind != Sunset {
		t.Fatalf("kinds = %s, %s; want sunrise, sunset", rise.Kind, set.Kind)
	}
	if d := DayLength(r.Transitions); absDuration(d-12*time.Hour) > 15*time.Minute {
		t.Errorf("day length = %v, want about 12h", d)
	}
	if math.Abs(rise.Azimuth-90) > 2 {
		t.Errorf("sunrise azimuth = %.2f, want about 90", rise.Azimuth)
	}
	if math.Abs(set.Azimuth-270) > 2 {
		t.Errorf("sunset azimuth = %.2f, want about 270", set.Azimuth)
	}
}

func TestPredict_MatchesReference(t *testing.T) {
	date := timesource.CalendarDate{Year: 2024, Month: time.June, Day: 21}
	results, err := Predict(context.Background(), Request{
		Sites:        []Site{london},
		Start:        time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
		HorizonHours: 24,
		Horizon:      StandardHorizon,
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	tr := results[0].Transitions
	if len(tr) != 2 {
		t.Fatalf("got %d transitions, want 2: %+v", len(tr), tr)
	}

	rise, set := Reference(london.Observer, date)
	if d := absDuration(tr[0].Time.Sub(rise)); d > 5*time.Minute {
		t.Errorf("sunrise %v differs from reference %v by %v", tr[0].Time, rise, d)
	}
	if d := absDuration(tr[1].Time.Sub(set)); d > 5*time.Minute {
		t.Errorf("sunset %v differs from reference %v by %v", tr[1].Time, set, d)
	}
}

func TestPredict_PolarDay(t *testing.T) {
	results, err := Predict(context.Background(), Request{
		Sites:        []Site{arctic},
		Start:        time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		HorizonHours: 48,
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if n := len(results[0].Transitions); n != 0 {
		t.Errorf("arctic midsummer has %d transitions, want 0", n)
	}
}

func TestPredict_SitesKeepOrderAndAlternate(t *testing.T) {
	sites := []Site{london, equator, arctic}
	results, err := Predict(context.Background(), Request{
		Sites:        sites,
		Start:        time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		HorizonHours: 72,
		Step:         5 * time.Minute,
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(results) != len(sites) {
		t.Fatalf("got %d results, want %d", len(results), len(sites))
	}
	for i, r := range results {
		if r.Site.Name != sites[i].Name {
			t.Errorf("result %d is %s, want %s", i, r.Site.Name, sites[i].Name)
		}
		for j := 1; j < len(r.Transitions); j++ {
			prev, cur := r.Transitions[j-1], r.Transitions[j]
			if prev.Kind == cur.Kind {
				t.Errorf("%s: consecutive %s at %v and %v", r.Site.Name, cur.Kind, prev.Time, cur.Time)
			}
			if !cur.Time.After(prev.Time) {
				t.Errorf("%s: transitions out of order at %d", r.Site.Name, j)
			}
		}
	}
	// Three days in September: every non-polar site sees three sunrises.
	for _, r := range results[:2] {
		if n := len(r.Transitions); n < 5 || n > 7 {
			t.Errorf("%s: got %d transitions over 72h, want about 6", r.Site.Name, n)
		}
	}
}

func TestPredict_InvalidHorizon(t *testing.T) {
	if _, err := Predict(context.Background(), Request{Sites: []Site{equator}}); err == nil {
		t.Error("Predict with zero horizon returned nil error")
	}
}

func TestPredict_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Predict(ctx, Request{
		Sites:        []Site{equator, london},
		Start:        time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		HorizonHours: 24,
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	for _, r := range results {
		if !strings.Contains(r.Error, "context canceled") {
			t.Errorf("%s: error = %q, want context canceled", r.Site.Name, r.Error)
		}
	}
}

func TestDayLength(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2024, 1, 1, h, 0, 0, 0, time.UTC) }
	tests := []struct {
		name string
		in   []Transition
		want time.Duration
	}{
		{"empty", nil, 0},
		{"one day", []Transition{{Time: at(6), Kind: Sunrise}, {Time: at(18), Kind: Sunset}}, 12 * time.Hour},
		{"starts in daylight", []Transition{{Time: at(2), Kind: Sunset}, {Time: at(6), Kind: Sunrise}, {Time: at(9), Kind: Sunset}}, 3 * time.Hour},
		{"ends in daylight", []Transition{{Time: at(6), Kind: Sunrise}}, 0},
	}
	for _, tt := range tests {
		if got := DayLength(tt.in); got != tt.want {
			t.Errorf("DayLength(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRefine_LandsAfterCrossing(t *testing.T) {
	obs := equator.Observer
	// Bracket edges off whole seconds around the equinox sunrise at 0°E.
	lo := time.Date(2024, 3, 20, 5, 50, 0, 300_000_000, time.UTC)
	hi := time.Date(2024, 3, 20, 6, 20, 0, 700_000_000, time.UTC)
	if elevation(obs, lo) >= 0 || elevation(obs, hi) < 0 {
		t.Fatal("bracket does not straddle sunrise")
	}

	got := refine(obs, lo, hi, false, 0)
	if !got.After(lo) || got.After(hi) {
		t.Fatalf("refine = %v, outside (%v, %v]", got, lo, hi)
	}
	if elevation(obs, got) < 0 {
		t.Errorf("refine = %v is still below the horizon", got)
	}
	if below := got.Add(-refineTo); elevation(obs, below) >= 0 {
		t.Errorf("refine = %v, but %v is already above the horizon", got, below)
	}
}

func TestPredict_TransitionsOnPostCrossingSide(t *testing.T) {
	results, err := Predict(context.Background(), Request{
		Sites:        []Site{london, equator},
		Start:        time.Date(2024, 6, 21, 0, 0, 0, 123_000_000, time.UTC),
		HorizonHours: 48,
		Step:         7 * time.Minute,
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	for _, r := range results {
		for _, tr := range r.Transitions {
			above := elevation(r.Site.Observer, tr.Time) >= 0
			if above != (tr.Kind == Sunrise) {
				t.Errorf("%s: %s at %v has sun above horizon = %v", r.Site.Name, tr.Kind, tr.Time, above)
			}
		}
	}
}
