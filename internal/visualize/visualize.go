package visualize

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"envitrack/internal/config"
	"envitrack/internal/sensor"
)

var (
	// ErrNoData is returned when a chart is requested for an empty reading set.
	ErrNoData = errors.New("no data to plot")
	// ErrSingleDay is returned when a daily summary would contain a single bar.
	ErrSingleDay = errors.New("data covers a single day")
)

// Options parameterise chart output.
type Options struct {
	OutputDir   string
	Width       int
	PanelHeight int
	Thresholds  config.Thresholds
}

// Visualizer renders reading sets to PNG files.
type Visualizer struct {
	opts   Options
	logger zerolog.Logger
	now    func() time.Time
}

// New constructs a Visualizer.
func New(opts Options, logger zerolog.Logger) *Visualizer {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.PanelHeight <= 0 {
		opts.PanelHeight = 360
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return &Visualizer{
		opts:   opts,
		logger: logger.With().Str("component", "visualizer").Logger(),
		now:    time.Now,
	}
}

// Window keeps the readings of the last hours. When the window is empty the
// full set is returned and fellBack is true. hours <= 0 disables filtering.
func Window(readings []sensor.Reading, hours int, now time.Time) (filtered []sensor.Reading, fellBack bool) {
	if hours <= 0 {
		return readings, false
	}
	filtered = sensor.Since(readings, now.Add(-time.Duration(hours)*time.Hour))
	if len(filtered) == 0 {
		return readings, true
	}
	return filtered, false
}

func (v *Visualizer) filename(prefix string) string {
	return filepath.Join(v.opts.OutputDir, fmt.Sprintf("%s_%s.png", prefix, v.now().Format("20060102_150405")))
}
