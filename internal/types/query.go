package types

// TimeseriesQuery captures the user-issued filters behind one timeseries load.
// It doubles as the backend request payload and as the denormalized filter
// record embedded into a report section.
type TimeseriesQuery struct {
	Serial   string `json:"serial_number" validate:"required"`
	Metric   string `json:"metric" validate:"required"`
	StartTS  string `json:"start_ts,omitempty"`
	EndTS    string `json:"end_ts,omitempty"`
	Range    string `json:"range,omitempty"`
	Interval string `json:"interval" validate:"required"`
	Agg      string `json:"agg" validate:"required,oneof=avg min max last sum"`
}

// ScatterQuery captures the filters behind one scatter load.
type ScatterQuery struct {
	Serial   string `json:"serial_number" validate:"required"`
	XMetric  string `json:"x_metric" validate:"required"`
	YMetric  string `json:"y_metric" validate:"required,nefield=XMetric"`
	StartTS  string `json:"start_ts,omitempty"`
	EndTS    string `json:"end_ts,omitempty"`
	Range    string `json:"range,omitempty"`
	Interval string `json:"interval" validate:"required"`
}

// HeatmapQuery captures the filters behind one heatmap load. Metrics is the
// subset the user explicitly selected; empty means "all metrics" (or, when a
// disease key is set, that disease's subset, resolved upstream).
type HeatmapQuery struct {
	Serial     string   `json:"serial_number" validate:"required"`
	StartTS    string   `json:"start_ts,omitempty"`
	EndTS      string   `json:"end_ts,omitempty"`
	Range      string   `json:"range,omitempty"`
	Interval   string   `json:"interval" validate:"required"`
	Agg        string   `json:"agg" validate:"required,oneof=avg min max last sum"`
	Metrics    []string `json:"metrics,omitempty"`
	DiseaseKey string   `json:"disease_key,omitempty"`
}

// RangeLabel returns the display form of the queried window: the explicit
// start/end pair when both were given, otherwise the relative range string.
func rangeLabel(startTS, endTS, rng string) string {
	if startTS != "" && endTS != "" {
		return startTS + " → " + endTS
	}
	if rng != "" {
		return rng
	}
	return "24h"
}

func (q TimeseriesQuery) RangeLabel() string { return rangeLabel(q.StartTS, q.EndTS, q.Range) }
func (q ScatterQuery) RangeLabel() string    { return rangeLabel(q.StartTS, q.EndTS, q.Range) }
func (q HeatmapQuery) RangeLabel() string    { return rangeLabel(q.StartTS, q.EndTS, q.Range) }
