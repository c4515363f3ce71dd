package main

import (
	"math"
	"testing"
	"time"

	"github.com/homesense/dashboard/internal/catalog"
	"github.com/homesense/dashboard/internal/types"
)

func TestLeastSquaresKnownLine(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1, 3, 5, 7} // y = 2x + 1
	fit := leastSquares(xs, ys)
	if fit == nil {
		t.Fatal("expected a fit")
	}
	if math.Abs(fit.Slope-2) > 1e-9 || math.Abs(fit.Intercept-1) > 1e-9 {
		t.Fatalf("fit = %+v, want slope 2 intercept 1", fit)
	}
}

func TestLeastSquaresDegenerate(t *testing.T) {
	if fit := leastSquares([]float64{5, 5, 5}, []float64{1, 2, 3}); fit != nil {
		t.Fatalf("constant x must yield no fit, got %+v", fit)
	}
	if fit := leastSquares([]float64{1}, []float64{2}); fit != nil {
		t.Fatalf("single point must yield no fit, got %+v", fit)
	}
}

func TestDemoLabelsHourly(t *testing.T) {
	end := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	labels := demoLabels(3, end)
	want := []string{
		"2024-03-05T10:00:00Z",
		"2024-03-05T11:00:00Z",
		"2024-03-05T12:00:00Z",
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("labels[%d] = %s, want %s", i, labels[i], want[i])
		}
	}
}

func TestDemoValuesBreachUpperThreshold(t *testing.T) {
	var co2 types.MetricInfo
	for _, m := range catalog.DefaultMetrics() {
		if m.Metric == "co2" {
			co2 = m
		}
	}
	vals := demoValues(co2, 48)
	breached := false
	for _, v := range vals {
		if v > co2.Thresholds[0].Value {
			breached = true
			break
		}
	}
	if !breached {
		t.Fatal("demo values should cross the threshold at least once")
	}
}

func TestDemoHeatmapShape(t *testing.T) {
	labels := demoLabels(24, time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC))
	resp := demoHeatmap(catalog.DefaultMetrics(), labels)

	if len(resp.Rows) != len(catalog.DefaultMetrics()) {
		t.Fatalf("rows = %d", len(resp.Rows))
	}
	if resp.Start != labels[0] || resp.End != labels[len(labels)-1] {
		t.Fatalf("window %s – %s", resp.Start, resp.End)
	}
	for _, row := range resp.Rows {
		if len(row.Values) != len(labels) || len(row.Risk) != len(labels) {
			t.Fatalf("row %s not label-aligned", row.Metric)
		}
		// bucket 7 is simulated as dropped
		if row.Values[7] != nil || row.Risk[7] != nil {
			t.Fatalf("row %s bucket 7 should be empty", row.Metric)
		}
		switch row.Metric {
		case "noise_night":
			if row.Enabled {
				t.Fatal("noise_night should demo the disabled state")
			}
		case "light_night":
			if row.HasSensor {
				t.Fatal("light_night should demo the missing-sensor state")
			}
		}
		for i, r := range row.Risk {
			if r == nil {
				continue
			}
			if *r < 0 || *r > 1 {
				t.Fatalf("row %s risk[%d] = %v out of [0,1]", row.Metric, i, *r)
			}
		}
	}
}
