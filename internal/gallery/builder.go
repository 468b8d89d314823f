package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/star/daynight/internal/metrics"
	"github.com/star/daynight/internal/solar"
)

// Frame is a gallery entry with its computed geometry and, when the builder
// has a ThumbnailFunc, its rendered thumbnail.
type Frame struct {
	Entry     Entry               `json:"entry"`
	Subsolar  solar.SubsolarPoint `json:"subsolar"`
	Boundary  solar.Boundary      `json:"boundary"`
	Thumbnail []byte              `json:"-"`
}

// ThumbnailFunc renders one frame.
type ThumbnailFunc func(Frame) ([]byte, error)

// BuilderConfig holds gallery build options.
type BuilderConfig struct {
	Workers   int           // Concurrent thumbnail renders (default: runtime.NumCPU())
	Thumbnail ThumbnailFunc // Optional; frames carry no thumbnail when nil
	// Loading is called once, before any frame is computed, so a caller can
	// show a loading state first.
	Loading func(mode Mode, count int)
}

// Builder turns entries into frames.
type Builder struct {
	config BuilderConfig
	logger *slog.Logger
}

func NewBuilder(config BuilderConfig, logger *slog.Logger) *Builder {
	if config.Workers < 1 {
		config.Workers = runtime.NumCPU()
	}
	return &Builder{config: config, logger: logger}
}

// Build computes a frame per entry, in entry order. Thumbnails are rendered on
// up to Workers goroutines; the first render error or ctx cancellation aborts
// the build.
func (b *Builder) Build(ctx context.Context, mode Mode, entries []Entry) ([]Frame, error) {
	if b.config.Loading != nil {
		b.config.Loading(mode, len(entries))
	}

	start := time.Now()
	frames := make([]Frame, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.Workers)

	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f := newFrame(e)
			if b.config.Thumbnail != nil {
				img, err := b.config.Thumbnail(f)
				if err != nil {
					return fmt.Errorf("thumbnail %q: %w", e.Label, err)
				}
				f.Thumbnail = img
			}
			frames[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	duration := time.Since(start)
	metrics.RecordGalleryBuild(string(mode), duration, len(frames))

	b.logger.Debug("gallery built",
		"mode", mode,
		"frames", len(frames),
		"workers", b.config.Workers,
		"duration_ms", duration.Milliseconds(),
	)

	return frames, nil
}

func newFrame(e Entry) Frame {
	p := solar.Subsolar(e.Instant)
	return Frame{
		Entry:    e,
		Subsolar: p,
		Boundary: solar.Terminator(p),
	}
}
