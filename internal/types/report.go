package types

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// SectionKind tags the chart variant a report section was captured from.
type SectionKind string

const (
	SectionTimeseries SectionKind = "timeseries"
	SectionScatter    SectionKind = "scatter"
	SectionHeatmap    SectionKind = "heatmap"
)

// TimeseriesSection pairs a timeseries query with the response it produced.
type TimeseriesSection struct {
	Query TimeseriesQuery    `json:"filters"`
	Data  TimeseriesResponse `json:"data"`
}

// ScatterSection pairs a scatter query with the response it produced.
type ScatterSection struct {
	Query ScatterQuery    `json:"filters"`
	Data  ScatterResponse `json:"data"`
}

// HeatmapSection pairs a heatmap query with the response it produced, plus
// the resolved disease display name (the query only carries the key).
type HeatmapSection struct {
	Query       HeatmapQuery        `json:"filters"`
	DiseaseName string              `json:"disease_name,omitempty"`
	Data        RiskHeatmapResponse `json:"data"`
}

// ReportSection is one captured chart ready for embedding: the rendered PNG,
// the section title, and exactly one of the kind-specific payloads carrying
// the originating query and raw response. The query is a denormalized copy
// taken at render time; the user may have changed controls since.
type ReportSection struct {
	ID       string
	Kind     SectionKind
	Title    string
	ImagePNG []byte

	Timeseries *TimeseriesSection
	Scatter    *ScatterSection
	Heatmap    *HeatmapSection
}

// ImageDataURL returns the section image as an embeddable data: URL.
func (s *ReportSection) ImageDataURL() string {
	if len(s.ImagePNG) == 0 {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(s.ImagePNG)
}

// FilterSummary renders the pipe-separated, kind-specific filter line that is
// embedded verbatim into the exported report. The switch is exhaustive over
// SectionKind; adding a chart kind means extending it here and in the
// document assembly.
func (s *ReportSection) FilterSummary() string {
	switch s.Kind {
	case SectionTimeseries:
		q := s.Timeseries.Query
		return fmt.Sprintf("Sensor: %s | Metric: %s | Interval: %s | Aggregate: %s | Range: %s",
			q.Serial, q.Metric, q.Interval, q.Agg, q.RangeLabel())
	case SectionScatter:
		q := s.Scatter.Query
		return fmt.Sprintf("Sensor: %s | X: %s | Y: %s | Interval: %s | Range: %s",
			q.Serial, q.XMetric, q.YMetric, q.Interval, q.RangeLabel())
	case SectionHeatmap:
		q := s.Heatmap.Query
		disease := s.Heatmap.DiseaseName
		if disease == "" {
			disease = q.DiseaseKey
		}
		if disease == "" {
			disease = "N/A"
		}
		metrics := "All metrics"
		if len(q.Metrics) > 0 {
			metrics = strings.Join(q.Metrics, ", ")
		}
		return fmt.Sprintf("Sensor: %s | Disease: %s | Interval: %s | Aggregate: %s | Range: %s | Metrics: %s",
			q.Serial, disease, q.Interval, q.Agg, q.RangeLabel(), metrics)
	default:
		return ""
	}
}

// ChartsReport is the root aggregate handed to the exporter. It is built
// transiently for a single export action and never persisted.
type ChartsReport struct {
	GeneratedAt time.Time
	HouseID     string
	Disease     *Disease
	Sections    []ReportSection
}
