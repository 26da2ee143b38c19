package visualize

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"envitrack/internal/sensor"
)

const (
	heatmapWidth  = 800
	heatmapHeight = 640
)

var (
	coolEnd    = drawing.Color{R: 59, G: 76, B: 192, A: 255}
	neutralMid = drawing.Color{R: 221, G: 221, B: 221, A: 255}
	warmEnd    = drawing.Color{R: 180, G: 4, B: 38, A: 255}
	undefined  = drawing.Color{R: 160, G: 160, B: 160, A: 255}
)

// PlotCorrelation renders the pairwise Pearson matrix of the three metrics
// as an annotated heatmap with a colour scale.
func (v *Visualizer) PlotCorrelation(readings []sensor.Reading) (string, error) {
	if len(readings) == 0 {
		return "", ErrNoData
	}

	matrix := sensor.Correlation(readings)
	r, err := newCanvas(heatmapWidth, heatmapHeight)
	if err != nil {
		return "", err
	}

	if err := drawHeatmap(r, matrix); err != nil {
		return "", fmt.Errorf("draw heatmap: %w", err)
	}

	img, err := saveToImage(r)
	if err != nil {
		return "", err
	}

	path := v.filename("correlation_matrix")
	if err := writePNG(path, img); err != nil {
		return "", err
	}
	v.logger.Info().Str("path", path).Msg("correlation matrix written")
	return path, nil
}

func drawHeatmap(r chart.Renderer, matrix [][]float64) error {
	const (
		top       = 90
		left      = 170
		cell      = 150
		barLeft   = left + 3*cell + 40
		barWidth  = 24
		barHeight = 3 * cell
	)

	if err := drawCentredText(r, "Sensor Correlation Matrix", 18, colorText, heatmapWidth/2, 40); err != nil {
		return err
	}

	for i := range sensor.Metrics {
		for j := range sensor.Metrics {
			x0 := left + j*cell
			y0 := top + i*cell
			value := matrix[i][j]

			fill := undefined
			label := "n/a"
			if !math.IsNaN(value) {
				fill = coolwarm(value)
				label = fmt.Sprintf("%.2f", value)
			}
			fillRect(r, x0, y0, x0+cell, y0+cell, fill)
			if err := drawCentredText(r, label, 16, drawing.ColorBlack, x0+cell/2, y0+cell/2); err != nil {
				return err
			}
		}
	}

	for i, m := range sensor.Metrics {
		// Row labels right-aligned against the grid, column labels below it.
		if err := drawRightAlignedText(r, m.Label(), 12, colorText, left-10, top+i*cell+cell/2); err != nil {
			return err
		}
		if err := drawCentredText(r, m.Label(), 12, colorText, left+i*cell+cell/2, top+3*cell+20); err != nil {
			return err
		}
	}

	steps := 100
	for s := 0; s < steps; s++ {
		y0 := top + s*barHeight/steps
		y1 := top + (s+1)*barHeight/steps
		value := 1 - 2*float64(s)/float64(steps-1)
		fillRect(r, barLeft, y0, barLeft+barWidth, y1, coolwarm(value))
	}
	for _, tick := range []float64{1, 0.5, 0, -0.5, -1} {
		y := top + int((1-tick)/2*float64(barHeight))
		if err := drawLeftAlignedText(r, fmt.Sprintf("%.1f", tick), 10, colorText, barLeft+barWidth+6, y); err != nil {
			return err
		}
	}
	return nil
}

// coolwarm maps [-1, 1] onto a diverging blue-white-red scale.
func coolwarm(v float64) drawing.Color {
	v = math.Max(-1, math.Min(1, v))
	if v < 0 {
		return lerp(neutralMid, coolEnd, -v)
	}
	return lerp(neutralMid, warmEnd, v)
}

func lerp(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func drawRightAlignedText(r chart.Renderer, text string, size float64, c drawing.Color, right, cy int) error {
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetFont(font)
	r.SetFontSize(size)
	r.SetFontColor(c)
	box := r.MeasureText(text)
	r.Text(text, right-box.Width(), cy+box.Height()/2)
	return nil
}

func drawLeftAlignedText(r chart.Renderer, text string, size float64, c drawing.Color, x, cy int) error {
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetFont(font)
	r.SetFontSize(size)
	r.SetFontColor(c)
	box := r.MeasureText(text)
	r.Text(text, x, cy+box.Height()/2)
	return nil
}
