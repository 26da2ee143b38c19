package visualize

import (
	"fmt"
	"image"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"envitrack/internal/sensor"
)

type referenceLine struct {
	label string
	value float64
	color drawing.Color
}

type trendPanel struct {
	metric sensor.Metric
	color  drawing.Color
	refs   []referenceLine
}

func (v *Visualizer) trendPanels() []trendPanel {
	t := v.opts.Thresholds
	return []trendPanel{
		{
			metric: sensor.Temperature,
			color:  colorTemperature,
			refs: []referenceLine{
				{label: "Max threshold", value: t.TempMax, color: colorMaxBound},
				{label: "Min threshold", value: t.TempMin, color: colorMinBound},
			},
		},
		{
			metric: sensor.Humidity,
			color:  colorHumidity,
			refs: []referenceLine{
				{label: "Max threshold", value: t.HumidityMax, color: colorMaxBound},
				{label: "Min threshold", value: t.HumidityMin, color: colorAltMinBound},
			},
		},
		{
			metric: sensor.AirQuality,
			color:  colorAirQuality,
			refs: []referenceLine{
				{label: "Alert threshold", value: t.AirQualityMax, color: colorMaxBound},
			},
		},
	}
}

// PlotTrends renders one time-series panel per metric with dashed threshold
// reference lines and returns the written file path.
func (v *Visualizer) PlotTrends(readings []sensor.Reading, hours int) (string, error) {
	if len(readings) == 0 {
		return "", ErrNoData
	}

	title := "EnviTrack - Sensor Data"
	if hours > 0 {
		title = fmt.Sprintf("EnviTrack - Sensor Data (Last %dh)", hours)
	}
	banner, err := renderBanner(v.opts.Width, title)
	if err != nil {
		return "", fmt.Errorf("render banner: %w", err)
	}

	parts := []image.Image{banner}
	for _, panel := range v.trendPanels() {
		img, err := renderImage(v.trendChart(panel, readings))
		if err != nil {
			return "", fmt.Errorf("render %s panel: %w", panel.metric, err)
		}
		parts = append(parts, img)
	}

	path := v.filename("envitrack_plot")
	if err := writePNG(path, stack(v.opts.Width, parts...)); err != nil {
		return "", err
	}
	v.logger.Info().Str("path", path).Int("readings", len(readings)).Msg("trend chart written")
	return path, nil
}

func (v *Visualizer) trendChart(panel trendPanel, readings []sensor.Reading) chart.Chart {
	all := sensor.Times(readings)
	first, last := all[0], all[len(all)-1]

	var (
		xs []time.Time
		ys []float64
	)
	for _, r := range readings {
		if r.Has(panel.metric) {
			xs = append(xs, r.Timestamp)
			ys = append(ys, r.Value(panel.metric))
		}
	}

	if !last.After(first) {
		first = first.Add(-30 * time.Minute)
		last = last.Add(30 * time.Minute)
	}

	bounds := append([]float64(nil), ys...)
	for _, ref := range panel.refs {
		bounds = append(bounds, ref.value)
	}
	lo, hi := paddedRange(bounds)

	// Reference lines alone still make a valid chart when the metric is absent.
	var series []chart.Series
	if len(xs) > 0 {
		series = append(series, chart.TimeSeries{
			Name: panel.metric.Label(),
			Style: chart.Style{
				StrokeColor: panel.color,
				StrokeWidth: 2,
				DotColor:    panel.color,
				DotWidth:    3,
			},
			XValues: xs,
			YValues: ys,
		})
	}
	for _, ref := range panel.refs {
		series = append(series, chart.TimeSeries{
			Name: ref.label,
			Style: chart.Style{
				StrokeColor:     ref.color.WithAlpha(160),
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{6, 4},
			},
			XValues: []time.Time{first, last},
			YValues: []float64{ref.value, ref.value},
		})
	}

	graph := chart.Chart{
		Title:  panel.metric.Label(),
		Width:  v.opts.Width,
		Height: v.opts.PanelHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("01-02 15:04"),
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(first),
				Max: chart.TimeToFloat64(last),
			},
		},
		YAxis: chart.YAxis{
			Name: fmt.Sprintf("%s (%s)", panel.metric.Label(), panel.metric.Unit()),
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.1f")
			},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			GridMajorStyle: chart.Style{
				StrokeColor: drawing.ColorFromHex("DDDDDD"),
				StrokeWidth: 1,
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}
	return graph
}

// paddedRange returns a non-degenerate axis range enclosing the non-NaN values.
func paddedRange(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.05, 1)
	}
	return lo - pad, hi + pad
}
