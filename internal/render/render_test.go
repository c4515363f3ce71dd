package render

import (
	"math"
	"testing"

	"github.com/homesense/dashboard/internal/types"
)

func fp(v float64) *float64 { return &v }

func TestRiskHueMonotonic(t *testing.T) {
	prev := RiskHue(0)
	if prev != 120 {
		t.Fatalf("hue at risk 0 = %v, want 120", prev)
	}
	for r := 0.05; r <= 1.0001; r += 0.05 {
		h := RiskHue(r)
		if h > prev {
			t.Fatalf("hue not monotonically decreasing: risk %.2f hue %v after %v", r, h, prev)
		}
		prev = h
	}
	if h := RiskHue(1); h != 0 {
		t.Fatalf("hue at risk 1 = %v, want 0", h)
	}
}

func TestRiskColorClamps(t *testing.T) {
	if RiskColor(-3) != RiskColor(0) {
		t.Fatal("risk below 0 should clamp to 0")
	}
	if RiskColor(7) != RiskColor(1) {
		t.Fatal("risk above 1 should clamp to 1")
	}
}

func TestCellStatePrecedence(t *testing.T) {
	row := types.RiskHeatmapRow{
		Metric:    "co2",
		HasSensor: false,
		Enabled:   false,
		Values:    []*float64{fp(900)},
		Risk:      []*float64{fp(0.4)},
	}
	if st, _, _ := CellState(row, 0); st != CellNoSensor {
		t.Fatalf("missing sensor must win over everything, got %v", st)
	}

	row.HasSensor = true
	if st, _, _ := CellState(row, 0); st != CellDisabled {
		t.Fatalf("disabled must win over data, got %v", st)
	}

	row.Enabled = true
	st, v, r := CellState(row, 0)
	if st != CellRisk || v != 900 || r != 0.4 {
		t.Fatalf("got %v value %v risk %v", st, v, r)
	}

	row.Values = []*float64{nil}
	if st, _, _ := CellState(row, 0); st != CellNoData {
		t.Fatalf("nil value must yield no-data, got %v", st)
	}
	if st, _, _ := CellState(row, 5); st != CellNoData {
		t.Fatalf("out-of-range bucket must yield no-data, got %v", st)
	}
}

func TestCellTextGating(t *testing.T) {
	if !ShowCellText(80, 32) {
		t.Fatal("80x32 cell should show its label")
	}
	if ShowCellText(79, 32) || ShowCellText(80, 31) {
		t.Fatal("cells below either floor must hide their label")
	}
	if got := CellFontSize(40, 40); got != 14 {
		t.Fatalf("font for 40px cell = %v, want 14", got)
	}
	if got := CellFontSize(10, 10); got != 12 {
		t.Fatalf("tiny cell font = %v, want clamp to 12", got)
	}
	if got := CellFontSize(500, 500); got != 24 {
		t.Fatalf("huge cell font = %v, want clamp to 24", got)
	}
}

func TestStrideTickIndicesForcesLast(t *testing.T) {
	got := StrideTickIndices(30, 12)
	if got[0] != 0 {
		t.Fatalf("first index = %d, want 0", got[0])
	}
	if got[len(got)-1] != 29 {
		t.Fatalf("last index = %d, want 29", got[len(got)-1])
	}
	for i := 1; i < len(got)-1; i++ {
		if got[i]-got[i-1] != 3 {
			t.Fatalf("stride for 30/12 should be 3, got %v", got)
		}
	}
}

func TestEvenTickIndices(t *testing.T) {
	got := EvenTickIndices(4, 6)
	if len(got) != 4 || got[0] != 0 || got[3] != 3 {
		t.Fatalf("small n should keep every index, got %v", got)
	}
	got = EvenTickIndices(100, 6)
	if len(got) != 6 || got[0] != 0 || got[5] != 99 {
		t.Fatalf("thinned ticks = %v, want 6 endpoints-inclusive", got)
	}
	if EvenTickIndices(0, 6) != nil {
		t.Fatal("no columns means no ticks")
	}
}

func TestTimeseriesRendersSinglePoint(t *testing.T) {
	resp := types.TimeseriesResponse{
		Title:  "CO2 (ppm)",
		Unit:   "ppm",
		Labels: []string{"2024-03-05T10:00:00Z"},
		Series: []types.Series{{Name: "co2", Data: []float64{812.5}}},
		Thresholds: []types.Threshold{
			{Label: "ASHRAE", Kind: "upper", Value: 1000},
		},
	}
	res, err := Timeseries(resp, Options{Width: 640, Height: 240})
	if err != nil {
		t.Fatalf("single point render failed: %v", err)
	}
	if len(res.PNG) == 0 || res.Image == nil {
		t.Fatal("render produced no image")
	}
	if b := res.Image.Bounds(); b.Dx() != 640 || b.Dy() != 240 {
		t.Fatalf("unexpected bounds %v", b)
	}
}

func TestTimeseriesEmptyPlaceholder(t *testing.T) {
	res, err := Timeseries(types.TimeseriesResponse{Title: "Temp"}, Options{})
	if err != nil {
		t.Fatalf("empty response should fall back to a placeholder: %v", err)
	}
	if len(res.PNG) == 0 {
		t.Fatal("placeholder produced no bytes")
	}
}

func TestScatterDomainsIncludeThresholds(t *testing.T) {
	resp := types.ScatterResponse{
		Points: []types.ScatterPoint{
			{TS: "2024-03-05T10:00:00Z", X: 20, Y: 800},
			{TS: "2024-03-05T11:00:00Z", X: 22, Y: 900},
		},
		XThresholds: []types.Threshold{{Label: "WHO", Kind: "upper", Value: 24}},
		YThresholds: []types.Threshold{{Label: "ASHRAE", Kind: "upper", Value: 1000}},
	}
	xLo, xHi, yLo, yHi := ScatterDomains(resp)
	if xLo >= 20 || xHi <= 24 {
		t.Fatalf("x domain [%v, %v] must pad past data and threshold", xLo, xHi)
	}
	if yLo >= 800 || yHi <= 1000 {
		t.Fatalf("y domain [%v, %v] must pad past data and threshold", yLo, yHi)
	}
}

func TestBestFitSegment(t *testing.T) {
	x1, y1, x2, y2 := BestFitSegment(types.BestFit{Slope: 2, Intercept: 1}, -1, 3)
	if x1 != -1 || y1 != -1 || x2 != 3 || y2 != 7 {
		t.Fatalf("segment (%v,%v)-(%v,%v)", x1, y1, x2, y2)
	}
}

func TestTooltipText(t *testing.T) {
	got := TooltipText(types.ScatterPoint{TS: "2024-03-05 10:00:00", X: 21.5, Y: 812.3456})
	want := "2024-03-05 10:00:00: (21.500, 812.346)"
	if got != want {
		t.Fatalf("tooltip = %q, want %q", got, want)
	}
}

func TestScatterRenders(t *testing.T) {
	resp := types.ScatterResponse{
		Title: "temp vs co2",
		UnitX: "C",
		UnitY: "ppm",
		Points: []types.ScatterPoint{
			{TS: "2024-03-05T10:00:00Z", X: 18, Y: 700},
			{TS: "2024-03-05T11:00:00Z", X: 21, Y: 820},
			{TS: "2024-03-05T12:00:00Z", X: 24, Y: 990},
		},
		BestFit: &types.BestFit{Slope: 48.3, Intercept: -170},
	}
	res, err := Scatter(resp, Options{})
	if err != nil {
		t.Fatalf("scatter render failed: %v", err)
	}
	if len(res.PNG) == 0 {
		t.Fatal("scatter produced no bytes")
	}
}

func TestHeatmapEmptyGrid(t *testing.T) {
	_, err := Heatmap(types.RiskHeatmapResponse{Title: "Risk"}, HeatmapContext{}, Options{})
	if err != ErrEmptyGrid {
		t.Fatalf("err = %v, want ErrEmptyGrid", err)
	}
	_, err = Heatmap(types.RiskHeatmapResponse{
		Title:  "Risk",
		Labels: []string{"2024-03-05T10:00:00Z"},
	}, HeatmapContext{}, Options{})
	if err != ErrEmptyGrid {
		t.Fatalf("rows missing: err = %v, want ErrEmptyGrid", err)
	}
}

func TestHeatmapRenders(t *testing.T) {
	resp := types.RiskHeatmapResponse{
		Title:    "Risk heatmap",
		Start:    "2024-03-05T00:00:00Z",
		End:      "2024-03-05T12:00:00Z",
		Interval: "1h",
		Labels: []string{
			"2024-03-05T00:00:00Z", "2024-03-05T04:00:00Z", "2024-03-05T08:00:00Z",
		},
		Rows: []types.RiskHeatmapRow{
			{
				Metric: "co2", Unit: "ppm", Enabled: true, HasSensor: true,
				Values: []*float64{fp(800), nil, fp(1200)},
				Risk:   []*float64{fp(0), nil, fp(0.2)},
			},
			{Metric: "pm25", Unit: "ug/m3", Enabled: false, HasSensor: true},
			{Metric: "no2", Unit: "ppb", Enabled: true, HasSensor: false},
		},
	}
	hctx := HeatmapContext{
		Serial:          "SB-001",
		Interval:        "1h",
		Agg:             "avg",
		RangeLabel:      "12h",
		SelectedMetrics: []string{"co2", "pm25"},
	}
	res, err := Heatmap(resp, hctx, Options{Width: 800, Height: 480})
	if err != nil {
		t.Fatalf("heatmap render failed: %v", err)
	}
	if b := res.Image.Bounds(); b.Dx() != 800 || b.Dy() != 480 {
		t.Fatalf("unexpected bounds %v", b)
	}
}

func TestHeatmapContextLines(t *testing.T) {
	c := HeatmapContext{Serial: "SB-1", Interval: "1h", Agg: "avg", RangeLabel: "24h"}
	want := "Sensor: SB-1 | Disease: N/A | Interval: 1h | Aggregate: avg | Range: 24h"
	if got := c.filterLine(); got != want {
		t.Fatalf("filter line = %q, want %q", got, want)
	}
	if got := c.metricsLine(); got != "Metrics: All metrics" {
		t.Fatalf("metrics line = %q", got)
	}
	c.DiseaseKey = "asthma"
	c.DiseaseName = "D2"
	c.SelectedMetrics = []string{"co2", "rh"}
	if got := c.filterLine(); got != "Sensor: SB-1 | Disease: D2 | Interval: 1h | Aggregate: avg | Range: 24h" {
		t.Fatalf("filter line with disease = %q", got)
	}
	if got := c.metricsLine(); got != "Metrics: co2, rh" {
		t.Fatalf("metrics line = %q", got)
	}
}

func TestMinMaxSkipsNaN(t *testing.T) {
	lo, hi, ok := minMax([]float64{math.NaN(), 3, -1, math.NaN(), 7})
	if !ok || lo != -1 || hi != 7 {
		t.Fatalf("minMax = %v %v %v", lo, hi, ok)
	}
	if _, _, ok := minMax([]float64{math.NaN()}); ok {
		t.Fatal("all-NaN input must report not found")
	}
}
