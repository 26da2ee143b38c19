package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"envitrack/internal/export"
	"envitrack/internal/sensor"
)

// load fetches either every record or the limit most recent ones. Failures
// are reported on the console and treated as an empty result.
func (a *App) load(ctx context.Context, limit int) []sensor.Reading {
	var (
		readings []sensor.Reading
		err      error
	)
	if limit > 0 {
		readings, err = a.sensorFetcher().FetchRecent(ctx, limit)
	} else {
		readings, err = a.sensorFetcher().FetchAll(ctx)
	}
	if err != nil {
		a.Logger.Error().Err(err).Msg("fetch failed")
		fmt.Fprintf(a.Out, "✗ Error fetching data: %v\n", err)
		return nil
	}
	if len(readings) == 0 {
		fmt.Fprintln(a.Out, "No data found in database")
		return nil
	}
	fmt.Fprintf(a.Out, "✓ Fetched %d records\n", len(readings))
	return readings
}

// Fetch downloads readings, prints a summary and saves them as CSV.
func (a *App) Fetch(ctx context.Context, opts FetchOptions) error {
	fmt.Fprint(a.Out, "=== EnviTrack Data Fetcher ===\n\n")

	readings := a.load(ctx, opts.Limit)
	if len(readings) == 0 {
		return nil
	}

	stats, _ := sensor.Summarize(readings)
	fmt.Fprintf(a.Out, "\nData range: %s to %s\n", stats.From.Format(time.DateTime), stats.To.Format(time.DateTime))

	head := opts.Head
	if head <= 0 || head > len(readings) {
		head = min(5, len(readings))
	}
	fmt.Fprint(a.Out, "\nFirst few records:\n")
	a.printTable(readings[:head])

	fmt.Fprint(a.Out, "\n=== Statistics ===\n")
	for _, m := range sensor.Metrics {
		ms := stats.Metrics[m]
		fmt.Fprintf(a.Out, "\n%s:\n", strings.ToUpper(string(m)))
		fmt.Fprintf(a.Out, "  Mean: %s\n", sensor.FormatValue(ms.Mean, 2))
		fmt.Fprintf(a.Out, "  Min:  %s\n", sensor.FormatValue(ms.Min, 2))
		fmt.Fprintf(a.Out, "  Max:  %s\n", sensor.FormatValue(ms.Max, 2))
		fmt.Fprintf(a.Out, "  Std:  %s\n", sensor.FormatValue(ms.Std, 2))
	}

	path := opts.CSVPath
	if path == "" {
		path = a.Config.Export.CSVPath
	}
	if err := export.WriteCSVFile(path, readings); err != nil {
		if errors.Is(err, export.ErrNoData) {
			fmt.Fprintln(a.Out, "✗ No data to save")
			return nil
		}
		return fmt.Errorf("write csv: %w", err)
	}
	fmt.Fprintf(a.Out, "\n✓ Data saved to %s\n", path)
	return nil
}

// Show prints the most recent readings.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	readings := a.load(ctx, opts.Limit)
	if len(readings) == 0 {
		return nil
	}
	if opts.Since > 0 {
		readings = sensor.Since(readings, time.Now().Add(-opts.Since))
		if len(readings) == 0 {
			fmt.Fprintf(a.Out, "No readings in the last %s\n", opts.Since)
			return nil
		}
	}
	a.printTable(readings)
	return nil
}

func (a *App) printTable(readings []sensor.Reading) {
	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time\tTemperature\tHumidity\tAir Quality\tKey")
	for _, r := range readings {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			r.Timestamp.Format(time.DateTime),
			sensor.FormatValue(r.Temperature, 1),
			sensor.FormatValue(r.Humidity, 1),
			sensor.FormatValue(r.AirQuality, 0),
			sanitizeInline(r.SourceKey),
		)
	}
	writer.Flush()
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
