package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"envitrack/internal/visualize"
)

// Visualize renders trend, correlation and daily summary charts.
func (a *App) Visualize(ctx context.Context, opts VisualizeOptions) error {
	fmt.Fprint(a.Out, "=== EnviTrack Visualizer ===\n\n")

	readings := a.load(ctx, 0)
	if len(readings) == 0 {
		fmt.Fprintln(a.Out, "✗ No data available for visualization")
		return nil
	}
	fmt.Fprintf(a.Out, "\nGenerating visualizations for %d records...\n\n", len(readings))

	hours := opts.Hours
	if hours < 0 {
		hours = a.Config.Visualize.Hours
	}
	viz := a.newVisualizer(opts.OutputDir)

	windowed, fellBack := visualize.Window(readings, hours, time.Now())
	if fellBack {
		fmt.Fprintf(a.Out, "No data in the last %d hours\n", hours)
	}

	var written []string
	report := func(label string, path string, err error) error {
		switch {
		case err == nil:
			fmt.Fprintf(a.Out, "✓ %s saved as %s\n", label, path)
			written = append(written, path)
		case errors.Is(err, visualize.ErrNoData):
			fmt.Fprintln(a.Out, "No data to plot")
		case errors.Is(err, visualize.ErrSingleDay):
			fmt.Fprintln(a.Out, "Skipping daily summary: data covers a single day")
		default:
			return fmt.Errorf("%s: %w", label, err)
		}
		return nil
	}

	path, err := viz.PlotTrends(windowed, hours)
	if rerr := report("Plot", path, err); rerr != nil {
		return rerr
	}
	path, err = viz.PlotCorrelation(readings)
	if rerr := report("Correlation matrix", path, err); rerr != nil {
		return rerr
	}
	path, err = viz.PlotDailySummary(readings)
	if rerr := report("Daily summary", path, err); rerr != nil {
		return rerr
	}

	if opts.Open {
		for _, p := range written {
			if err := visualize.Open(p); err != nil {
				a.Logger.Warn().Err(err).Str("path", p).Msg("could not open chart")
			}
		}
	}

	fmt.Fprintln(a.Out, "\n✓ All visualizations complete")
	return nil
}
