// Package catalog carries the built-in metric catalog and disease registry
// used when the backend catalog fetch is unavailable, plus the shared
// interval/aggregate vocabulary of the charts API.
package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/homesense/dashboard/internal/types"
)

// DefaultMetrics mirrors the platform's threshold configuration: one entry
// per supported metric with its display unit and guideline reference lines.
func DefaultMetrics() []types.MetricInfo {
	return []types.MetricInfo{
		{Metric: "co", Unit: "ppm", Thresholds: []types.Threshold{
			{Label: "WHO 1-h", Kind: types.ThresholdUpper, Value: 30.0},
		}},
		{Metric: "co2", Unit: "ppm", Thresholds: []types.Threshold{
			{Label: "ASHRAE", Kind: types.ThresholdUpper, Value: 1000.0},
		}},
		{Metric: "light_night", Unit: "lux", Thresholds: []types.Threshold{
			{Label: "IES", Kind: types.ThresholdLower, Value: 100.0},
			{Label: "IES", Kind: types.ThresholdUpper, Value: 200.0},
		}},
		{Metric: "no2", Unit: "ppb", Thresholds: []types.Threshold{
			{Label: "WHO 24-h", Kind: types.ThresholdUpper, Value: 13.0},
		}},
		{Metric: "noise_night", Unit: "dB(A)", Thresholds: []types.Threshold{
			{Label: "WHO night 8h", Kind: types.ThresholdUpper, Value: 30.0},
		}},
		{Metric: "o2", Unit: "% vol", Thresholds: []types.Threshold{
			{Label: "OSHA", Kind: types.ThresholdLower, Value: 19.5},
		}},
		{Metric: "pm25", Unit: "µg/m³", Thresholds: []types.Threshold{
			{Label: "WHO 24-h", Kind: types.ThresholdUpper, Value: 15.0},
		}},
		{Metric: "rh", Unit: "%", Thresholds: []types.Threshold{
			{Label: "WHO/ASHRAE", Kind: types.ThresholdLower, Value: 30.0},
			{Label: "WHO/ASHRAE", Kind: types.ThresholdUpper, Value: 60.0},
		}},
		{Metric: "temp", Unit: "°C", Thresholds: []types.Threshold{
			{Label: "WHO", Kind: types.ThresholdLower, Value: 18.0},
			{Label: "WHO", Kind: types.ThresholdUpper, Value: 24.0},
		}},
	}
}

// DefaultDiseases mirrors the platform's seeded disease registry.
func DefaultDiseases() []types.Disease {
	return []types.Disease{
		{Key: "disease1", Name: "D1", Metrics: []string{"temp", "co2"}},
		{Key: "asthma", Name: "D2", Metrics: []string{"pm25", "no2", "co2", "rh"}},
		{Key: "sleep", Name: "Sleep disorder", Metrics: []string{"noise_night", "light_night", "temp", "rh"}},
	}
}

// FindDisease resolves a disease key against the registry. Returns nil when
// the key is empty or unknown.
func FindDisease(diseases []types.Disease, key string) *types.Disease {
	if key == "" {
		return nil
	}
	for i := range diseases {
		if diseases[i].Key == key {
			return &diseases[i]
		}
	}
	return nil
}

// ParseInterval parses the bucket-interval strings accepted by the charts API
// ("30s", "5m", "1h", "1d").
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, fmt.Errorf("bad interval %q", s)
	}
	v, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("bad interval %q", s)
	}
	switch s[len(s)-1] {
	case 's', 'S':
		return time.Duration(v) * time.Second, nil
	case 'm', 'M':
		return time.Duration(v) * time.Minute, nil
	case 'h', 'H':
		return time.Duration(v) * time.Hour, nil
	case 'd', 'D':
		return time.Duration(v) * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("bad interval %q", s)
}

// Aggregate reduces a bucket of values with the named function. Unknown names
// fall through to avg, matching the backend. Empty input yields NaN.
func Aggregate(values []float64, agg string) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	switch agg {
	case "min":
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case "max":
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case "last":
		return values[len(values)-1]
	case "sum":
		s := 0.0
		for _, v := range values {
			s += v
		}
		return s
	default:
		s := 0.0
		for _, v := range values {
			s += v
		}
		return s / float64(len(values))
	}
}

// Risk scores a reading against the metric's threshold lines: for each
// breached line the severity is the breach distance normalized by the
// threshold magnitude, clamped to [0,1]; the worst line wins.
func Risk(thresholds []types.Threshold, value float64) float64 {
	risk := 0.0
	for _, line := range thresholds {
		scale := line.Value
		if scale == 0 {
			scale = 1.0
		}
		var diff float64
		switch line.Kind {
		case types.ThresholdUpper:
			if value <= line.Value {
				continue
			}
			diff = value - line.Value
		case types.ThresholdLower:
			if value >= line.Value {
				continue
			}
			diff = line.Value - value
		default:
			continue
		}
		r := math.Min(1.0, diff/math.Abs(scale))
		if r > risk {
			risk = r
		}
	}
	return risk
}
