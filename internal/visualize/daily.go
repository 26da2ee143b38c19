package visualize

import (
	"fmt"
	"image"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"envitrack/internal/sensor"
)

// PlotDailySummary renders per-day mean bars for every metric. It is only
// meaningful across several days and returns ErrSingleDay otherwise.
func (v *Visualizer) PlotDailySummary(readings []sensor.Reading) (string, error) {
	if len(readings) == 0 {
		return "", ErrNoData
	}
	days := sensor.DailyMeans(readings)
	if len(days) < 2 {
		return "", ErrSingleDay
	}

	banner, err := renderBanner(v.opts.Width, "EnviTrack - Daily Averages")
	if err != nil {
		return "", fmt.Errorf("render banner: %w", err)
	}

	colors := map[sensor.Metric]drawing.Color{
		sensor.Temperature: colorTemperature,
		sensor.Humidity:    colorHumidity,
		sensor.AirQuality:  colorAirQuality,
	}

	parts := []image.Image{banner}
	for _, metric := range sensor.Metrics {
		img, err := renderImage(v.dailyChart(metric, colors[metric], days))
		if err != nil {
			return "", fmt.Errorf("render %s bars: %w", metric, err)
		}
		parts = append(parts, img)
	}

	path := v.filename("daily_summary")
	if err := writePNG(path, stack(v.opts.Width, parts...)); err != nil {
		return "", err
	}
	v.logger.Info().Str("path", path).Int("days", len(days)).Msg("daily summary written")
	return path, nil
}

func (v *Visualizer) dailyChart(metric sensor.Metric, color drawing.Color, days []sensor.DailyMean) chart.BarChart {
	bars := make([]chart.Value, len(days))
	lo, hi := 0.0, 0.0
	for i, d := range days {
		mean := d.Means[metric]
		if math.IsNaN(mean) {
			mean = 0
		}
		lo = math.Min(lo, mean)
		hi = math.Max(hi, mean)
		bars[i] = chart.Value{
			Label: d.Day.Format("2006-01-02"),
			Value: mean,
			Style: chart.Style{
				FillColor:   color.WithAlpha(180),
				StrokeColor: color,
				StrokeWidth: 1,
			},
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	barWidth := (v.opts.Width - 160) / (2 * len(days))
	if barWidth > 80 {
		barWidth = 80
	}
	if barWidth < 4 {
		barWidth = 4
	}

	return chart.BarChart{
		Title:  fmt.Sprintf("Avg %s (%s)", metric.Label(), metric.Unit()),
		Width:  v.opts.Width,
		Height: v.opts.PanelHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 10},
		},
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.1f")
			},
			Range: &chart.ContinuousRange{Min: lo, Max: hi * 1.1},
		},
		Bars: bars,
	}
}
