// Package render turns chart response payloads into finished raster charts:
// a time-series line chart and a scatter plot built on go-chart, and a risk
// heatmap drawn directly onto a gg canvas. Every renderer yields both a
// decoded image and its PNG encoding so callers can serve, embed, or export
// the same pixels without re-rendering.
package render

import (
	"bytes"
	"image"
	"image/png"
	"math"

	"github.com/fogleman/gg"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Result is one finished chart render.
type Result struct {
	Image image.Image
	PNG   []byte
}

// Options sizes a render. Zero values fall back to the defaults used by the
// dashboard panels.
type Options struct {
	Width  int
	Height int
}

func (o Options) withDefaults(w, h int) Options {
	if o.Width <= 0 {
		o.Width = w
	}
	if o.Height <= 0 {
		o.Height = h
	}
	return o
}

// Threshold line hues: upper bounds draw warm, lower bounds draw cool.
var (
	upperThresholdColor = drawing.Color{R: 192, G: 57, B: 43, A: 255}
	lowerThresholdColor = drawing.Color{R: 41, G: 128, B: 185, A: 255}
)

// pointStyle renders markers only, with no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

func dashedLineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth:     1.5,
		StrokeColor:     col,
		StrokeDashArray: []float64{6, 4},
	}
}

// renderChart rasterizes a go-chart definition and decodes it back so the
// caller gets both representations.
func renderChart(ch chart.Chart) (*Result, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}
	return &Result{Image: img, PNG: buf.Bytes()}, nil
}

// placeholder draws the "no data" stand-in used when a response carries no
// rows to plot. It is a successful render, not an error: the panel shows it
// and the report simply has nothing to capture.
func placeholder(opt Options, title, msg string) (*Result, error) {
	dc := gg.NewContext(opt.Width, opt.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(fontFace(16))
	dc.SetRGB255(60, 60, 60)
	dc.DrawStringAnchored(title, float64(opt.Width)/2, 24, 0.5, 0.5)
	dc.SetFontFace(fontFace(14))
	dc.SetRGB255(130, 130, 130)
	dc.DrawStringAnchored(msg, float64(opt.Width)/2, float64(opt.Height)/2, 0.5, 0.5)
	return encodeContext(dc)
}

func encodeContext(dc *gg.Context) (*Result, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return &Result{Image: dc.Image(), PNG: buf.Bytes()}, nil
}

// EvenTickIndices picks at most maxTicks label indices from n columns,
// always including the first and last, otherwise evenly spaced by index.
func EvenTickIndices(n, maxTicks int) []int {
	if n <= 0 {
		return nil
	}
	if maxTicks < 2 || n <= maxTicks {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, maxTicks)
	last := -1
	for i := 0; i < maxTicks; i++ {
		idx := int(math.Round(float64(i) * float64(n-1) / float64(maxTicks-1)))
		if idx != last {
			out = append(out, idx)
			last = idx
		}
	}
	return out
}

// StrideTickIndices thins n columns to roughly maxTicks by striding
// ceil(n/maxTicks), forcing the final column in even when it falls off the
// stride so the most recent bucket is never omitted.
func StrideTickIndices(n, maxTicks int) []int {
	if n <= 0 {
		return nil
	}
	if maxTicks < 1 {
		maxTicks = 1
	}
	stride := (n + maxTicks - 1) / maxTicks
	out := make([]int, 0, maxTicks+1)
	for i := 0; i < n; i += stride {
		out = append(out, i)
	}
	if out[len(out)-1] != n-1 {
		out = append(out, n-1)
	}
	return out
}

func minMax(vals []float64) (float64, float64, bool) {
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	found := false
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		found = true
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, found
}
