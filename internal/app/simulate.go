package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"envitrack/internal/alerting"
	"envitrack/internal/sensor"
)

// SimulateAlert evaluates a hand-supplied reading against the configured
// thresholds and prints the alerts it would raise.
func (a *App) SimulateAlert(ctx context.Context, opts SimulateOptions) error {
	values := make([]float64, 3)
	for i, raw := range []string{opts.Temperature, opts.Humidity, opts.AirQuality} {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", raw, sensor.Metrics[i], err)
		}
		values[i] = d.InexactFloat64()
	}

	reading := sensor.Reading{
		Timestamp:   time.Now(),
		Temperature: values[0],
		Humidity:    values[1],
		AirQuality:  values[2],
		SourceKey:   "simulated",
	}

	alerts := alerting.Evaluate(reading, a.Config.Thresholds)
	if len(alerts) == 0 {
		fmt.Fprintln(a.Out, "✓ Reading is within all thresholds")
		return nil
	}

	notifier := alerting.NewConsoleNotifier(a.Out, a.Logger)
	for _, alert := range alerts {
		if err := notifier.Notify(ctx, alert); err != nil {
			return err
		}
	}
	return nil
}
