// Package schedule drives recomputation from three sources: a periodic timer,
// discrete user actions and a debounced resize signal. All of them are
// serialized onto one goroutine so handlers never interleave.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/star/daynight/internal/metrics"
	"github.com/star/daynight/internal/timesource"
)

// Config holds loop timing loaded from configuration.
type Config struct {
	TickInterval   time.Duration // Timer cadence (default: 1s)
	ResizeDebounce time.Duration // Resize coalescing window (default: 100ms)
	QueueSize      int           // Pending action capacity (default: 16)
}

// Handler is the single recompute/redraw subscriber.
type Handler interface {
	// OnChange runs after every selection change, including live ticks.
	OnChange(c timesource.Change)
	// OnResize runs once per coalesced burst of resize signals.
	OnResize()
}

// Loop is a cooperative event loop. Ticks, actions posted with Do and
// coalesced resizes all run on the goroutine that called Run, one at a time.
type Loop struct {
	src     *timesource.Source
	handler Handler
	config  Config
	logger  *slog.Logger

	actions chan func()
	done    chan struct{}
	resize  *Debouncer
}

// NewLoop wires handler to src. Selection changes made on the loop goroutine
// reach handler.OnChange synchronously.
func NewLoop(src *timesource.Source, handler Handler, config Config, logger *slog.Logger) *Loop {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.ResizeDebounce <= 0 {
		config.ResizeDebounce = 100 * time.Millisecond
	}
	if config.QueueSize < 1 {
		config.QueueSize = 16
	}

	l := &Loop{
		src:     src,
		handler: handler,
		config:  config,
		logger:  logger,
		actions: make(chan func(), config.QueueSize),
		done:    make(chan struct{}),
	}
	l.resize = NewDebouncer(config.ResizeDebounce, func() {
		l.Do(func() {
			metrics.IncRedraw("resize")
			l.handler.OnResize()
		})
	})
	return l
}

// Do queues action to run on the loop. It returns false once the loop has
// stopped.
func (l *Loop) Do(action func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.actions <- action:
		return true
	case <-l.done:
		return false
	}
}

// Resize signals a viewport change. Bursts collapse into one OnResize.
func (l *Loop) Resize() {
	l.resize.Trigger()
}

// Run processes events until ctx is cancelled. Pending actions queued before
// cancellation are dropped.
func (l *Loop) Run(ctx context.Context) {
	cancel := l.src.Subscribe(func(c timesource.Change) {
		metrics.IncRecompute(string(c.Reason))
		metrics.SetPinned(c.State.Pinned)
		if c.Reason != timesource.ReasonTick {
			l.logger.Debug("selection changed",
				"reason", c.Reason,
				"pinned", c.State.Pinned,
				"instant", c.State.Instant.UTC().Format(time.RFC3339),
			)
		}
		metrics.IncRedraw("change")
		l.handler.OnChange(c)
	})
	defer cancel()

	ticker := time.NewTicker(l.config.TickInterval)
	defer ticker.Stop()

	l.logger.Info("event loop started",
		"tick_interval_ms", l.config.TickInterval.Milliseconds(),
		"resize_debounce_ms", l.config.ResizeDebounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			close(l.done)
			l.resize.Stop()
			l.logger.Info("event loop stopped")
			return
		case <-ticker.C:
			l.tick()
		case action := <-l.actions:
			action()
		}
	}
}

// tick advances a live selection; a pinned tick does no redraw.
func (l *Loop) tick() {
	mode := l.src.Mode()
	metrics.IncTick(mode.String())
	l.src.Tick()
}
