// Package config loads runtime settings: defaults, then an optional YAML
// file, then DAYNIGHT_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string         `yaml:"log_level"`
	Loop     LoopConfig     `yaml:"loop"`
	Render   RenderConfig   `yaml:"render"`
	Gallery  GalleryConfig  `yaml:"gallery"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Observer ObserverConfig `yaml:"observer"`
	Daylight DaylightConfig `yaml:"daylight"`
}

type LoopConfig struct {
	TickInterval   time.Duration `yaml:"tick_interval"`
	ResizeDebounce time.Duration `yaml:"resize_debounce"`
}

type RenderConfig struct {
	Width       int  `yaml:"width"`
	Height      int  `yaml:"height"`
	ThumbWidth  int  `yaml:"thumb_width"`
	ThumbHeight int  `yaml:"thumb_height"`
	Graticule   bool `yaml:"graticule"`
}

type GalleryConfig struct {
	Workers int `yaml:"workers"` // 0 means one per CPU
}

type SnapshotConfig struct {
	Dir      string `yaml:"dir"`
	MaxFiles int    `yaml:"max_files"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // empty disables the exposition file
}

type ObserverConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

type DaylightConfig struct {
	HorizonHours float64 `yaml:"horizon_hours"`
	// Refraction uses the standard -0.833° sunrise elevation instead of the
	// geometric horizon.
	Refraction bool `yaml:"refraction"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel: "info",
		Loop: LoopConfig{
			TickInterval:   time.Second,
			ResizeDebounce: 100 * time.Millisecond,
		},
		Render: RenderConfig{
			Width:       1024,
			Height:      512,
			ThumbWidth:  240,
			ThumbHeight: 120,
			Graticule:   true,
		},
		Snapshot: SnapshotConfig{
			Dir:      "./data/snapshots",
			MaxFiles: 5,
		},
		Daylight: DaylightConfig{
			HorizonHours: 48,
			Refraction:   true,
		},
	}
}

// Load reads the YAML file at path over Default. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays DAYNIGHT_* variables. Invalid values are logged and the
// current setting is kept.
func (c *Config) ApplyEnv(logger *slog.Logger) {
	if v := os.Getenv("DAYNIGHT_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}

	envMillis(logger, "DAYNIGHT_TICK_INTERVAL_MS", &c.Loop.TickInterval)
	envMillis(logger, "DAYNIGHT_RESIZE_DEBOUNCE_MS", &c.Loop.ResizeDebounce)

	envInt(logger, "DAYNIGHT_RENDER_WIDTH", 1, &c.Render.Width)
	envInt(logger, "DAYNIGHT_RENDER_HEIGHT", 1, &c.Render.Height)
	envInt(logger, "DAYNIGHT_THUMB_WIDTH", 1, &c.Render.ThumbWidth)
	envInt(logger, "DAYNIGHT_THUMB_HEIGHT", 1, &c.Render.ThumbHeight)
	envBool(logger, "DAYNIGHT_GRATICULE", &c.Render.Graticule)

	envInt(logger, "DAYNIGHT_GALLERY_WORKERS", 0, &c.Gallery.Workers)

	if v := os.Getenv("DAYNIGHT_SNAPSHOT_DIR"); v != "" {
		c.Snapshot.Dir = v
	}
	envInt(logger, "DAYNIGHT_SNAPSHOT_MAX_FILES", 1, &c.Snapshot.MaxFiles)

	if v := os.Getenv("DAYNIGHT_METRICS_TEXTFILE"); v != "" {
		c.Metrics.Textfile = v
	}

	envFloat(logger, "DAYNIGHT_OBSERVER_LAT", &c.Observer.Latitude)
	envFloat(logger, "DAYNIGHT_OBSERVER_LON", &c.Observer.Longitude)
	envFloat(logger, "DAYNIGHT_DAYLIGHT_HORIZON_HOURS", &c.Daylight.HorizonHours)
	envBool(logger, "DAYNIGHT_DAYLIGHT_REFRACTION", &c.Daylight.Refraction)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if _, err := ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Loop.TickInterval <= 0 {
		result = multierror.Append(result, fmt.Errorf("loop.tick_interval must be positive, got %v", c.Loop.TickInterval))
	}
	if c.Loop.ResizeDebounce < 0 {
		result = multierror.Append(result, fmt.Errorf("loop.resize_debounce must not be negative, got %v", c.Loop.ResizeDebounce))
	}
	if c.Render.Width < 1 || c.Render.Height < 1 {
		result = multierror.Append(result, fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.ThumbWidth < 1 || c.Render.ThumbHeight < 1 {
		result = multierror.Append(result, fmt.Errorf("thumbnail size must be positive, got %dx%d", c.Render.ThumbWidth, c.Render.ThumbHeight))
	}
	if c.Gallery.Workers < 0 {
		result = multierror.Append(result, fmt.Errorf("gallery.workers must not be negative, got %d", c.Gallery.Workers))
	}
	if c.Snapshot.Dir == "" {
		result = multierror.Append(result, fmt.Errorf("snapshot.dir is required"))
	}
	if c.Snapshot.MaxFiles < 1 {
		result = multierror.Append(result, fmt.Errorf("snapshot.max_files must be at least 1, got %d", c.Snapshot.MaxFiles))
	}
	if c.Observer.Latitude < -90 || c.Observer.Latitude > 90 {
		result = multierror.Append(result, fmt.Errorf("observer.latitude out of range: %v", c.Observer.Latitude))
	}
	if c.Observer.Longitude < -180 || c.Observer.Longitude > 180 {
		result = multierror.Append(result, fmt.Errorf("observer.longitude out of range: %v", c.Observer.Longitude))
	}
	if c.Daylight.HorizonHours <= 0 {
		result = multierror.Append(result, fmt.Errorf("daylight.horizon_hours must be positive, got %v", c.Daylight.HorizonHours))
	}

	return result.ErrorOrNil()
}

// ParseLevel maps a level name onto slog.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", s)
	}
	return level, nil
}

func envInt(logger *slog.Logger, key string, min int, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		logger.Warn("invalid "+key+" value, using default", "value", v, "default", *dst)
		return
	}
	*dst = n
}

func envMillis(logger *slog.Logger, key string, dst *time.Duration) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		logger.Warn("invalid "+key+" value, using default", "value", v, "default", dst.Milliseconds())
		return
	}
	*dst = time.Duration(n) * time.Millisecond
}

func envFloat(logger *slog.Logger, key string, dst *float64) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Warn("invalid "+key+" value, using default", "value", v, "default", *dst)
		return
	}
	*dst = f
}

func envBool(logger *slog.Logger, key string, dst *bool) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("invalid "+key+" value, using default", "value", v, "default", *dst)
		return
	}
	*dst = b
}
