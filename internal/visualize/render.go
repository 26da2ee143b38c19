package visualize

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"envitrack/internal/export"
)

const bannerHeight = 60

var (
	colorTemperature = drawing.ColorFromHex("FF6B6B")
	colorHumidity    = drawing.ColorFromHex("4ECDC4")
	colorAirQuality  = drawing.ColorFromHex("95E1D3")
	colorMaxBound    = drawing.ColorFromHex("D62728")
	colorMinBound    = drawing.ColorFromHex("1F77B4")
	colorAltMinBound = drawing.ColorFromHex("FF7F0E")
	colorText        = drawing.ColorFromHex("222222")
	colorBackground  = drawing.ColorWhite
)

// renderable is satisfied by chart.Chart and chart.BarChart.
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func renderImage(c renderable) (image.Image, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// renderBanner draws a centred title strip.
func renderBanner(width int, title string) (image.Image, error) {
	r, err := newCanvas(width, bannerHeight)
	if err != nil {
		return nil, err
	}
	if err := drawCentredText(r, title, 20, colorText, width/2, bannerHeight/2); err != nil {
		return nil, err
	}
	return saveToImage(r)
}

// stack composes images vertically on a white background.
func stack(width int, parts ...image.Image) *image.RGBA {
	height := 0
	for _, p := range parts {
		height += p.Bounds().Dy()
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	y := 0
	for _, p := range parts {
		b := p.Bounds()
		draw.Draw(canvas, image.Rect(0, y, b.Dx(), y+b.Dy()), p, b.Min, draw.Over)
		y += b.Dy()
	}
	return canvas
}

func writePNG(path string, img image.Image) error {
	if err := export.EnsureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return file.Close()
}

func newCanvas(width, height int) (chart.Renderer, error) {
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	r.SetDPI(chart.DefaultDPI)
	fillRect(r, 0, 0, width, height, colorBackground)
	return r, nil
}

func saveToImage(r chart.Renderer) (image.Image, error) {
	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

func fillRect(r chart.Renderer, x0, y0, x1, y1 int, c drawing.Color) {
	r.SetFillColor(c)
	r.SetStrokeColor(c)
	r.SetStrokeWidth(0)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.LineTo(x0, y0)
	r.Close()
	r.Fill()
}

func drawCentredText(r chart.Renderer, text string, size float64, c drawing.Color, cx, cy int) error {
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetFont(font)
	r.SetFontSize(size)
	r.SetFontColor(c)
	box := r.MeasureText(text)
	r.Text(text, cx-box.Width()/2, cy+box.Height()/2)
	return nil
}
