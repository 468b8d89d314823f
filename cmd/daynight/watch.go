package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	cmdproc "github.com/star/daynight/internal/command"
	"github.com/star/daynight/internal/render"
	"github.com/star/daynight/internal/schedule"
	"github.com/star/daynight/internal/solar"
	"github.com/star/daynight/internal/timesource"
)

const (
	clearScreen  = "\x1b[H\x1b[2J"
	statusLines  = 2 // status and prompt
	fallbackCols = 80
	fallbackRows = 24
)

// terminalView redraws the ASCII map. It runs on the loop goroutine only.
type terminalView struct {
	out     io.Writer
	src     *timesource.Source
	size    func() render.Size
	current render.Size
	message string
}

func (v *terminalView) OnChange(c timesource.Change) {
	v.draw(c.State)
}

func (v *terminalView) OnResize() {
	v.current = v.size()
	v.draw(v.selection())
}

// selection returns the source state with a live instant read from the clock
// instead of the one cached by the last tick.
func (v *terminalView) selection() timesource.State {
	st := v.src.State()
	if !st.Pinned {
		st.Instant = v.src.Current()
	}
	return st
}

func (v *terminalView) draw(st timesource.State) {
	scene := render.NewScene(st.Instant)
	mapSize := render.Size{
		Width:  v.current.Width,
		Height: v.current.Height - statusLines - strings.Count(v.message, "\n"),
	}
	if mapSize.Height < 1 {
		mapSize.Height = 1
	}

	var b bytes.Buffer
	b.WriteString(clearScreen)
	if err := (render.ASCII{}).Render(&b, scene, mapSize); err != nil {
		fmt.Fprintf(&b, "render failed: %v\n", err)
	}
	fmt.Fprintf(&b, "%s  %s  subsolar %.2f, %.2f\n",
		strings.ToUpper(st.Mode().String()),
		st.Instant.UTC().Format("2006-01-02 15:04:05 MST"),
		scene.Subsolar.Latitude,
		solar.NormalizeLongitude(scene.Subsolar.Longitude),
	)
	b.WriteString(v.message)
	b.WriteString("> ")
	v.out.Write(b.Bytes())
}

func runWatch(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("watch")
	var sel selection
	sel.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, err := sel.source(a.clock)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	view := &terminalView{out: a.stdout, src: src, size: terminalSize}
	view.current = view.size()

	loop := schedule.NewLoop(src, view, schedule.Config{
		TickInterval:   a.cfg.Loop.TickInterval,
		ResizeDebounce: a.cfg.Loop.ResizeDebounce,
	}, a.logger)

	proc := cmdproc.NewProcessor(src, a.clock, nil)

	stopResize := notifyResize(loop.Resize)
	defer stopResize()

	go readCommands(a.stdin, func(line string) {
		loop.Do(func() {
			reply := proc.ProcessCommand(line)
			if reply == cmdproc.Bye {
				cancel()
				return
			}
			view.message = reply
			view.draw(view.selection())
		})
	}, cancel)

	loop.Do(func() { view.draw(view.selection()) })
	loop.Run(ctx)
	fmt.Fprintln(a.stdout)
	return nil
}

// readCommands forwards stdin lines until EOF, then cancels the session.
func readCommands(r io.Reader, handle func(string), done context.CancelFunc) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		handle(scanner.Text())
	}
	done()
}

func terminalSize() render.Size {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w < 1 || h < 1 {
		return render.Size{Width: fallbackCols, Height: fallbackRows}
	}
	return render.Size{Width: w, Height: h}
}

var _ schedule.Handler = (*terminalView)(nil)
