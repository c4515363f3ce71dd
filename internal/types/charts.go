// Package types defines the chart data model shared by the renderers, the
// report composer, and the HTTP surface. The response shapes mirror the
// backend charts API verbatim so payloads can be decoded without adaptation.
package types

// ThresholdKind discriminates reference lines that mark an upper bound from
// those that mark a lower bound. The kind only affects presentation (color);
// it plays no role in any domain/range math.
type ThresholdKind string

const (
	ThresholdUpper ThresholdKind = "upper"
	ThresholdLower ThresholdKind = "lower"
)

// Threshold is a horizontal or vertical reference line for a metric.
type Threshold struct {
	Label string        `json:"label"`
	Kind  ThresholdKind `json:"kind"`
	Value float64       `json:"value"`
}

// MetricInfo is a static catalog entry for one metric. The catalog is fetched
// once per session and treated as immutable afterwards.
type MetricInfo struct {
	Metric     string      `json:"metric"`
	Unit       string      `json:"unit"`
	Thresholds []Threshold `json:"thresholds"`
}

// MetricCatalog is the response envelope of the catalog endpoint.
type MetricCatalog struct {
	Metrics []MetricInfo `json:"metrics"`
}

// Series is one named value sequence inside a timeseries response.
// Data is index-aligned with the parent response's Labels.
type Series struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// TimeseriesResponse is the backend payload for a single-metric time series.
// Invariant: every series' Data has the same length as Labels.
type TimeseriesResponse struct {
	Title      string      `json:"title"`
	Unit       string      `json:"unit"`
	Labels     []string    `json:"labels"`
	Series     []Series    `json:"series"`
	Thresholds []Threshold `json:"thresholds"`
}

// ScatterPoint is one observation pairing two metrics in the same bucket.
type ScatterPoint struct {
	TS string  `json:"ts"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// BestFit carries the upstream least-squares line. Absent (nil in the parent)
// when too few points exist for a fit.
type BestFit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// ScatterResponse is the backend payload for a two-metric scatter query.
type ScatterResponse struct {
	Title       string         `json:"title"`
	UnitX       string         `json:"unit_x"`
	UnitY       string         `json:"unit_y"`
	Points      []ScatterPoint `json:"points"`
	BestFit     *BestFit       `json:"best_fit"`
	XThresholds []Threshold    `json:"x_thresholds"`
	YThresholds []Threshold    `json:"y_thresholds"`
}

// RiskHeatmapRow is one metric row of the heatmap grid. Values and Risk are
// index-aligned with the parent response's Labels; Risk[i] is only meaningful
// when HasSensor && Enabled && Values[i] != nil.
type RiskHeatmapRow struct {
	Metric     string      `json:"metric"`
	Unit       string      `json:"unit"`
	Thresholds []Threshold `json:"thresholds"`
	Values     []*float64  `json:"values"`
	Risk       []*float64  `json:"risk"`
	Enabled    bool        `json:"enabled"`
	HasSensor  bool        `json:"has_sensor"`
}

// RiskHeatmapResponse is the backend payload for a risk heatmap query.
type RiskHeatmapResponse struct {
	Title    string           `json:"title"`
	Start    string           `json:"start"`
	End      string           `json:"end"`
	Interval string           `json:"interval"`
	Labels   []string         `json:"labels"`
	Rows     []RiskHeatmapRow `json:"rows"`
}

// Disease identifies a health condition and the metric subset relevant to it.
type Disease struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Metrics []string `json:"metrics"`
}
