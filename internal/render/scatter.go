package render

import (
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/homesense/dashboard/internal/plot"
	"github.com/homesense/dashboard/internal/timefmt"
	"github.com/homesense/dashboard/internal/types"
)

const (
	defaultScatterWidth  = 900
	defaultScatterHeight = 560
	scatterNoDataMessage = "No paired observations for the selected window"
)

// ScatterDomains computes the padded X and Y ranges: every point coordinate
// plus every threshold for that axis, then independent range padding.
func ScatterDomains(resp types.ScatterResponse) (xLo, xHi, yLo, yHi float64) {
	xVals := make([]float64, 0, len(resp.Points)+len(resp.XThresholds))
	yVals := make([]float64, 0, len(resp.Points)+len(resp.YThresholds))
	for _, p := range resp.Points {
		xVals = append(xVals, p.X)
		yVals = append(yVals, p.Y)
	}
	for _, th := range resp.XThresholds {
		xVals = append(xVals, th.Value)
	}
	for _, th := range resp.YThresholds {
		yVals = append(yVals, th.Value)
	}
	xMin, xMax, _ := minMax(xVals)
	yMin, yMax, _ := minMax(yVals)
	xLo, xHi = plot.PadRange(xMin, xMax)
	yLo, yHi = plot.PadRange(yMin, yMax)
	return
}

// BestFitSegment evaluates the upstream regression at the two extremes of the
// visible X domain. The segment deliberately spans the full padded range, not
// just the observed point cloud.
func BestFitSegment(fit types.BestFit, xLo, xHi float64) (x1, y1, x2, y2 float64) {
	return xLo, fit.Intercept + fit.Slope*xLo, xHi, fit.Intercept + fit.Slope*xHi
}

// TooltipText formats the hover text for one observation: normalized source
// timestamp plus both coordinates to three decimal places.
func TooltipText(p types.ScatterPoint) string {
	return fmt.Sprintf("%s: (%.3f, %.3f)", timefmt.Reformat(p.TS), p.X, p.Y)
}

// Scatter renders a two-metric scatter plot with an optional best-fit line
// and independent per-axis thresholds.
func Scatter(resp types.ScatterResponse, opt Options) (*Result, error) {
	opt = opt.withDefaults(defaultScatterWidth, defaultScatterHeight)
	if len(resp.Points) == 0 {
		return placeholder(opt, resp.Title, scatterNoDataMessage)
	}

	xLo, xHi, yLo, yHi := ScatterDomains(resp)

	xs := make([]float64, len(resp.Points))
	ys := make([]float64, len(resp.Points))
	for i, p := range resp.Points {
		xs[i] = p.X
		ys[i] = p.Y
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Observations",
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(chart.ColorBlue),
		},
	}

	if resp.BestFit != nil {
		x1, y1, x2, y2 := BestFitSegment(*resp.BestFit, xLo, xHi)
		series = append(series, chart.ContinuousSeries{
			Name:    "Trend",
			XValues: []float64{x1, x2},
			YValues: []float64{y1, y2},
			Style: chart.Style{
				StrokeWidth: 1.5,
				StrokeColor: chart.ColorAlternateGray,
			},
		})
	}

	for _, th := range resp.XThresholds {
		col := upperThresholdColor
		if th.Kind == types.ThresholdLower {
			col = lowerThresholdColor
		}
		series = append(series,
			chart.ContinuousSeries{
				XValues: []float64{th.Value, th.Value},
				YValues: []float64{yLo, yHi},
				Style:   dashedLineStyle(col),
			},
			chart.AnnotationSeries{
				Annotations: []chart.Value2{{
					XValue: th.Value,
					YValue: yHi,
					Label:  fmt.Sprintf("%s (%.1f)", th.Label, th.Value),
				}},
				Style: chart.Style{StrokeColor: col, FontSize: 9},
			},
		)
	}
	for _, th := range resp.YThresholds {
		col := upperThresholdColor
		if th.Kind == types.ThresholdLower {
			col = lowerThresholdColor
		}
		series = append(series,
			chart.ContinuousSeries{
				XValues: []float64{xLo, xHi},
				YValues: []float64{th.Value, th.Value},
				Style:   dashedLineStyle(col),
			},
			chart.AnnotationSeries{
				Annotations: []chart.Value2{{
					XValue: xHi,
					YValue: th.Value,
					Label:  fmt.Sprintf("%s (%.1f)", th.Label, th.Value),
				}},
				Style: chart.Style{StrokeColor: col, FontSize: 9},
			},
		)
	}

	ch := chart.Chart{
		Title:  resp.Title,
		Width:  opt.Width,
		Height: opt.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 14, Left: 16, Right: 24, Bottom: 36},
		},
		XAxis: chart.XAxis{
			Name:  resp.UnitX,
			Range: &chart.ContinuousRange{Min: xLo, Max: xHi},
		},
		YAxis: chart.YAxis{
			Name:  resp.UnitY,
			Range: &chart.ContinuousRange{Min: yLo, Max: yHi},
		},
		Series: series,
	}
	// Legend in a fixed position regardless of data.
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return renderChart(ch)
}
