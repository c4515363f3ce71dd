package render

import (
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/homesense/dashboard/internal/plot"
	"github.com/homesense/dashboard/internal/timefmt"
	"github.com/homesense/dashboard/internal/types"
)

const (
	timeseriesMaxTimeTicks   = 6
	timeseriesValueTicks     = 6 // 5 intervals
	defaultTimeseriesWidth   = 1100
	defaultTimeseriesHeight  = 360
	timeseriesNoDataMessage  = "No data for the selected window"
)

// Timeseries renders a single-metric line chart. Only the first series of the
// response is drawn; X positions are index-based since the labels come from a
// fixed-interval query. Threshold values are folded into the Y domain so the
// reference lines are always in view.
func Timeseries(resp types.TimeseriesResponse, opt Options) (*Result, error) {
	opt = opt.withDefaults(defaultTimeseriesWidth, defaultTimeseriesHeight)
	if len(resp.Labels) == 0 || len(resp.Series) == 0 {
		return placeholder(opt, resp.Title, timeseriesNoDataMessage)
	}

	data := resp.Series[0].Data
	n := len(resp.Labels)

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i + 1)
	}

	// Y domain: union of data and every threshold value.
	dataLo, dataHi, haveData := minMax(data)
	lo, hi := dataLo, dataHi
	for _, th := range resp.Thresholds {
		if !haveData {
			lo, hi, haveData = th.Value, th.Value, true
			continue
		}
		if th.Value < lo {
			lo = th.Value
		}
		if th.Value > hi {
			hi = th.Value
		}
	}
	if !haveData {
		return placeholder(opt, resp.Title, timeseriesNoDataMessage)
	}
	yLo, yHi := plot.PadRange(lo, hi)

	yTicks := make([]chart.Tick, 0, timeseriesValueTicks)
	for _, v := range plot.TickValues(yLo, yHi, timeseriesValueTicks) {
		yTicks = append(yTicks, chart.Tick{Value: v, Label: fmt.Sprintf("%.1f", v)})
	}

	xTicks := make([]chart.Tick, 0, timeseriesMaxTimeTicks)
	for _, idx := range EvenTickIndices(n, timeseriesMaxTimeTicks) {
		xTicks = append(xTicks, chart.Tick{
			Value: float64(idx + 1),
			Label: timefmt.Reformat(resp.Labels[idx]),
		})
	}

	// Pad the X range so a single-point query still has non-zero width.
	xMin, xMax := 0.5, float64(n)+0.5
	ys := data
	if n == 1 {
		xMax = 2.0
		xs = []float64{1, 2}
		ys = []float64{data[0], data[0]}
		xTicks = append(xTicks, chart.Tick{Value: 2, Label: ""})
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    resp.Series[0].Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: 2,
				StrokeColor: chart.ColorBlue,
			},
		},
	}

	for _, th := range resp.Thresholds {
		col := upperThresholdColor
		if th.Kind == types.ThresholdLower {
			col = lowerThresholdColor
		}
		series = append(series,
			chart.ContinuousSeries{
				XValues: []float64{xMin, xMax},
				YValues: []float64{th.Value, th.Value},
				Style:   dashedLineStyle(col),
			},
			chart.AnnotationSeries{
				Annotations: []chart.Value2{{
					XValue: xMax,
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
			Padding: chart.Box{Top: 14, Left: 16, Right: 24, Bottom: 48},
		},
		XAxis: chart.XAxis{
			Ticks: xTicks,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  resp.Unit,
			Ticks: yTicks,
			Range: &chart.ContinuousRange{Min: yLo, Max: yHi},
		},
		Series: series,
	}
	return renderChart(ch)
}
