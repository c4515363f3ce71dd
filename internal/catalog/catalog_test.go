package catalog

import (
	"math"
	"testing"
	"time"

	"github.com/homesense/dashboard/internal/types"
)

func TestParseInterval(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"5m", 5 * time.Minute},
		{"1h", time.Hour},
		{"1d", 24 * time.Hour},
	}
	for _, tc := range cases {
		got, err := ParseInterval(tc.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %v want %v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "h", "0m", "-5m", "5x"} {
		if _, err := ParseInterval(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestAggregate(t *testing.T) {
	vals := []float64{4, 1, 3, 2}
	if got := Aggregate(vals, "min"); got != 1 {
		t.Fatalf("min: got %v", got)
	}
	if got := Aggregate(vals, "max"); got != 4 {
		t.Fatalf("max: got %v", got)
	}
	if got := Aggregate(vals, "last"); got != 2 {
		t.Fatalf("last: got %v", got)
	}
	if got := Aggregate(vals, "sum"); got != 10 {
		t.Fatalf("sum: got %v", got)
	}
	if got := Aggregate(vals, "avg"); got != 2.5 {
		t.Fatalf("avg: got %v", got)
	}
	// unknown aggregate falls through to avg
	if got := Aggregate(vals, "median"); got != 2.5 {
		t.Fatalf("fallthrough: got %v", got)
	}
	if got := Aggregate(nil, "avg"); !math.IsNaN(got) {
		t.Fatalf("empty: expected NaN, got %v", got)
	}
}

func TestRisk(t *testing.T) {
	upper := []types.Threshold{{Label: "ASHRAE", Kind: types.ThresholdUpper, Value: 1000}}
	if got := Risk(upper, 900); got != 0 {
		t.Fatalf("below threshold: got %v", got)
	}
	if got := Risk(upper, 1500); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("half breach: got %v", got)
	}
	if got := Risk(upper, 5000); got != 1 {
		t.Fatalf("clamp: got %v", got)
	}
	lower := []types.Threshold{{Label: "OSHA", Kind: types.ThresholdLower, Value: 19.5}}
	if got := Risk(lower, 19.5); got != 0 {
		t.Fatalf("at threshold: got %v", got)
	}
	if got := Risk(lower, 9.75); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("lower breach: got %v", got)
	}
	// worst of several lines wins
	both := []types.Threshold{
		{Kind: types.ThresholdLower, Value: 30},
		{Kind: types.ThresholdUpper, Value: 60},
	}
	if got := Risk(both, 90); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("multi-line: got %v", got)
	}
}

func TestFindDisease(t *testing.T) {
	ds := DefaultDiseases()
	if d := FindDisease(ds, "asthma"); d == nil || d.Name != "D2" {
		t.Fatalf("expected asthma entry, got %+v", d)
	}
	if d := FindDisease(ds, ""); d != nil {
		t.Fatalf("expected nil for empty key")
	}
	if d := FindDisease(ds, "nope"); d != nil {
		t.Fatalf("expected nil for unknown key")
	}
}

func TestDefaultMetricsHaveUnits(t *testing.T) {
	for _, m := range DefaultMetrics() {
		if m.Metric == "" || m.Unit == "" {
			t.Fatalf("incomplete catalog entry: %+v", m)
		}
		if len(m.Thresholds) == 0 {
			t.Fatalf("metric %s has no threshold lines", m.Metric)
		}
	}
}
