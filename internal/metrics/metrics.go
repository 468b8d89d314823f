package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ticksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daynight_ticks_total",
			Help: "Total number of timer ticks, by selection mode at tick time.",
		},
		[]string{"mode"},
	)

	recomputesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daynight_recomputes_total",
			Help: "Total number of subsolar/terminator recomputations, by triggering transition.",
		},
		[]string{"reason"},
	)

	redrawsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daynight_redraws_total",
			Help: "Total number of renderer redraws, by trigger.",
		},
		[]string{"trigger"},
	)

	selectionPinned = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "daynight_selection_pinned",
			Help: "1 when the selection is pinned to a user-chosen instant, 0 when live.",
		},
	)

	galleryBuildSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "daynight_gallery_build_seconds",
			Help:    "Time to build a gallery of terminator thumbnails.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	galleryFramesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "daynight_gallery_frames_total",
			Help: "Total number of gallery frames computed.",
		},
	)

	snapshotsWrittenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "daynight_snapshots_written_total",
			Help: "Total number of rendered snapshots written to disk.",
		},
	)

	snapshotsPrunedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "daynight_snapshots_pruned_total",
			Help: "Total number of old snapshots removed by retention.",
		},
	)

	daylightTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daynight_daylight_transitions_total",
			Help: "Total number of predicted sunrise/sunset transitions.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(ticksTotal)
	prometheus.MustRegister(recomputesTotal)
	prometheus.MustRegister(redrawsTotal)
	prometheus.MustRegister(selectionPinned)
	prometheus.MustRegister(galleryBuildSeconds)
	prometheus.MustRegister(galleryFramesTotal)
	prometheus.MustRegister(snapshotsWrittenTotal)
	prometheus.MustRegister(snapshotsPrunedTotal)
	prometheus.MustRegister(daylightTransitionsTotal)
}

// IncTick counts a timer tick. mode is "live" or "pinned".
func IncTick(mode string) {
	ticksTotal.WithLabelValues(mode).Inc()
}

// IncRecompute counts a recomputation triggered by reason (pin, reset, tick).
func IncRecompute(reason string) {
	recomputesTotal.WithLabelValues(reason).Inc()
}

// IncRedraw counts a redraw. trigger is "change" or "resize".
func IncRedraw(trigger string) {
	redrawsTotal.WithLabelValues(trigger).Inc()
}

func SetPinned(pinned bool) {
	if pinned {
		selectionPinned.Set(1)
		return
	}
	selectionPinned.Set(0)
}

// RecordGalleryBuild records a gallery build of frames entries.
func RecordGalleryBuild(mode string, duration time.Duration, frames int) {
	galleryBuildSeconds.WithLabelValues(mode).Observe(duration.Seconds())
	galleryFramesTotal.Add(float64(frames))
}

func IncSnapshotsWritten() {
	snapshotsWrittenTotal.Inc()
}

func AddSnapshotsPruned(n int) {
	snapshotsPrunedTotal.Add(float64(n))
}

// AddDaylightTransitions counts predicted transitions of kind (sunrise, sunset).
func AddDaylightTransitions(kind string, n int) {
	daylightTransitionsTotal.WithLabelValues(kind).Add(float64(n))
}

// WriteTextfile writes every registered metric to path in the text exposition
// format, for node_exporter's textfile collector. There is no HTTP endpoint.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
