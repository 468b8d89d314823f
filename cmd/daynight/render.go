package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/star/daynight/internal/gallery"
	"github.com/star/daynight/internal/render"
	"github.com/star/daynight/internal/snapshot"
)

func runRender(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("render")
	var sel selection
	sel.register(fs)
	out := fs.String("o", "", "write to `file` instead of stdout")
	ascii := fs.Bool("ascii", false, "draw character cells instead of SVG")
	width := fs.Int("width", a.cfg.Render.Width, "drawing width (pixels, or columns with -ascii)")
	height := fs.Int("height", a.cfg.Render.Height, "drawing height (pixels, or rows with -ascii)")
	save := fs.Bool("snapshot", false, "also store the SVG in the snapshot directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, err := sel.source(a.clock)
	if err != nil {
		return err
	}
	scene := render.NewScene(src.Current())

	var r render.Renderer = render.SVG{Graticule: a.cfg.Render.Graticule}
	if *ascii {
		r = render.ASCII{}
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, scene, render.Size{Width: *width, Height: *height}); err != nil {
		return err
	}

	if *save {
		if *ascii {
			return fmt.Errorf("-snapshot stores SVG only")
		}
		store := snapshot.NewStore(a.cfg.Snapshot.Dir, ".svg", a.cfg.Snapshot.MaxFiles, a.clock)
		snap, err := store.Write(buf.Bytes(), scene.Instant)
		if err != nil {
			return err
		}
		a.logger.Info("snapshot stored", "dir", a.cfg.Snapshot.Dir, "name", snap.Name)
	}

	if err := writeOutput(a, *out, buf.Bytes()); err != nil {
		return err
	}
	a.logger.Debug("map rendered",
		"instant", scene.Instant.UTC().Format(time.RFC3339),
		"mode", src.Mode().String(),
		"size", humanize.Bytes(uint64(buf.Len())),
	)
	return nil
}

func runGallery(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("gallery")
	var sel selection
	sel.register(fs)
	modeFlag := fs.String("mode", "month", "`month` or year")
	out := fs.String("o", "", "write the HTML page to `file` instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mode, err := gallery.ParseMode(*modeFlag)
	if err != nil {
		return err
	}
	src, err := sel.source(a.clock)
	if err != nil {
		return err
	}
	ref := src.Current()

	entries, err := gallery.NewGenerator(a.clock).Generate(mode, ref)
	if err != nil {
		return err
	}

	thumb := render.Size{Width: a.cfg.Render.ThumbWidth, Height: a.cfg.Render.ThumbHeight}
	builder := gallery.NewBuilder(gallery.BuilderConfig{
		Workers:   a.cfg.Gallery.Workers,
		Thumbnail: render.Thumbnail(thumb),
		Loading: func(mode gallery.Mode, count int) {
			a.logger.Info("building gallery", "mode", mode, "frames", count)
		},
	}, a.logger)

	frames, err := builder.Build(ctx, mode, entries)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := render.GalleryPage(&buf, gallery.Title(mode, ref), mode, frames, thumb); err != nil {
		return err
	}
	if err := writeOutput(a, *out, buf.Bytes()); err != nil {
		return err
	}
	a.logger.Info("gallery written",
		"title", gallery.Title(mode, ref),
		"frames", len(frames),
		"size", humanize.Bytes(uint64(buf.Len())),
	)
	return nil
}

func writeOutput(a *app, path string, data []byte) error {
	if path == "" {
		_, err := a.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
