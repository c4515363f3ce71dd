package main

import (
	"fmt"
	"math"
	"time"

	"github.com/homesense/dashboard/internal/catalog"
	"github.com/homesense/dashboard/internal/types"
)

// Demo data for the headless snapshots mode: plausible hourly readings per
// metric, shaped so some buckets breach their thresholds and the heatmap
// shows the full color ramp.

func demoLabels(hours int, end time.Time) []string {
	labels := make([]string, hours)
	start := end.Add(-time.Duration(hours-1) * time.Hour)
	for i := range labels {
		labels[i] = start.Add(time.Duration(i) * time.Hour).UTC().Format("2006-01-02T15:04:05Z")
	}
	return labels
}

// demoValues oscillates around the metric's threshold band so that peaks
// cross the reference lines.
func demoValues(info types.MetricInfo, n int) []float64 {
	base, amp := 50.0, 20.0
	for _, th := range info.Thresholds {
		if th.Kind == types.ThresholdUpper {
			base = th.Value * 0.85
			amp = th.Value * 0.35
			break
		}
		base = th.Value * 1.15
		amp = th.Value * 0.35
	}
	vals := make([]float64, n)
	for i := range vals {
		phase := float64(i) * 2 * math.Pi / 12
		vals[i] = base + amp*math.Sin(phase) + amp*0.15*math.Sin(phase*3.7)
	}
	return vals
}

func demoTimeseries(info types.MetricInfo, labels []string) types.TimeseriesResponse {
	return types.TimeseriesResponse{
		Title:      fmt.Sprintf("%s (%s)", info.Metric, info.Unit),
		Unit:       info.Unit,
		Labels:     labels,
		Series:     []types.Series{{Name: info.Metric, Data: demoValues(info, len(labels))}},
		Thresholds: info.Thresholds,
	}
}

func demoScatter(x, y types.MetricInfo, labels []string) types.ScatterResponse {
	xs := demoValues(x, len(labels))
	ys := demoValues(y, len(labels))
	points := make([]types.ScatterPoint, len(labels))
	for i := range labels {
		points[i] = types.ScatterPoint{TS: labels[i], X: xs[i], Y: ys[i]}
	}
	return types.ScatterResponse{
		Title:       fmt.Sprintf("%s vs %s", x.Metric, y.Metric),
		UnitX:       x.Unit,
		UnitY:       y.Unit,
		Points:      points,
		BestFit:     leastSquares(xs, ys),
		XThresholds: x.Thresholds,
		YThresholds: y.Thresholds,
	}
}

// leastSquares fits y = slope*x + intercept; nil when the x spread is
// degenerate.
func leastSquares(xs, ys []float64) *types.BestFit {
	n := float64(len(xs))
	if n < 2 {
		return nil
	}
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return nil
	}
	slope := (n*sumXY - sumX*sumY) / den
	return &types.BestFit{Slope: slope, Intercept: (sumY - slope*sumX) / n}
}

func demoHeatmap(metrics []types.MetricInfo, labels []string) types.RiskHeatmapResponse {
	rows := make([]types.RiskHeatmapRow, 0, len(metrics))
	for _, info := range metrics {
		row := types.RiskHeatmapRow{
			Metric:     info.Metric,
			Unit:       info.Unit,
			Thresholds: info.Thresholds,
			Enabled:    info.Metric != "noise_night",
			HasSensor:  info.Metric != "light_night",
		}
		vals := demoValues(info, len(labels))
		for i, v := range vals {
			v := v
			if i%11 == 7 {
				// simulate a dropped bucket
				row.Values = append(row.Values, nil)
				row.Risk = append(row.Risk, nil)
				continue
			}
			r := catalog.Risk(info.Thresholds, v)
			row.Values = append(row.Values, &v)
			row.Risk = append(row.Risk, &r)
		}
		rows = append(rows, row)
	}
	start, end := "", ""
	if len(labels) > 0 {
		start, end = labels[0], labels[len(labels)-1]
	}
	return types.RiskHeatmapResponse{
		Title:    "Risk heatmap",
		Start:    start,
		End:      end,
		Interval: "1h",
		Labels:   labels,
		Rows:     rows,
	}
}
