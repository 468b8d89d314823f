package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/star/daynight/internal/config"
	"github.com/star/daynight/internal/metrics"
	"github.com/star/daynight/internal/timesource"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"info", "print Julian date, subsolar point and terminator as JSON", runInfo},
	{"render", "draw the day/night map as SVG or ASCII", runRender},
	{"gallery", "write an HTML sheet of terminators for a month or year", runGallery},
	{"daylight", "predict sunrise and sunset for an observer", runDaylight},
	{"watch", "live terminal map with interactive commands", runWatch},
}

// app carries what every subcommand needs.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	clock  timesource.Clock
	stdout io.Writer
	stdin  io.Reader
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	name := os.Args[1]
	if name == "help" || name == "-h" || name == "--help" {
		usage(os.Stdout)
		return
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
		usage(os.Stderr)
		os.Exit(2)
	}

	cfgPath := os.Getenv("DAYNIGHT_CONFIG")
	a, err := newApp(cfgPath, os.Stdout, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = cmd.run(ctx, a, os.Args[2:])
	if a.cfg.Metrics.Textfile != "" {
		if werr := metrics.WriteTextfile(a.cfg.Metrics.Textfile); werr != nil {
			a.logger.Warn("failed to write metrics textfile", "path", a.cfg.Metrics.Textfile, "error", werr)
		}
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		a.logger.Error("command failed", "command", name, "error", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: daynight <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Settings come from the YAML file named by DAYNIGHT_CONFIG and DAYNIGHT_* variables.")
}

// newApp loads configuration and builds the logger. Logs go to stderr so
// stdout stays clean for command output.
func newApp(cfgPath string, stdout io.Writer, stdin io.Reader) (*app, error) {
	boot := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(boot)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if cfgPath != "" {
		logger.Debug("loaded config", "path", cfgPath)
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		clock:  timesource.SystemClock{},
		stdout: stdout,
		stdin:  stdin,
	}, nil
}

// selection holds the flags that choose an instant.
type selection struct {
	date string
	at   string
}

func (s *selection) register(fs *flag.FlagSet) {
	fs.StringVar(&s.date, "date", "", "pin to `YYYY-MM-DD`, keeping the current time of day")
	fs.StringVar(&s.at, "at", "", "pin to an exact RFC 3339 `instant`")
}

// source returns a time source in the state the flags ask for.
func (s *selection) source(clock timesource.Clock) (*timesource.Source, error) {
	src := timesource.New(clock)
	switch {
	case s.at != "" && s.date != "":
		return nil, errors.New("-date and -at are mutually exclusive")
	case s.at != "":
		t, err := time.Parse(time.RFC3339, s.at)
		if err != nil {
			return nil, fmt.Errorf("parsing -at: %w", err)
		}
		src.PinInstant(t)
	case s.date != "":
		d, err := timesource.ParseDate(s.date)
		if err != nil {
			return nil, err
		}
		src.PinTo(d, clock.Now())
	}
	return src, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}
