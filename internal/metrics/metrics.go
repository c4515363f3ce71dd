// Package metrics registers the dashboard's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homesense_dashboard",
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, partitioned by method, route, and status.",
		},
		[]string{"method", "route", "status"},
	)

	renderSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "homesense_dashboard",
			Name:      "render_seconds",
			Help:      "Chart render latency in seconds, partitioned by chart kind.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"chart"},
	)

	panelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homesense_dashboard",
			Name:      "panel_loads_total",
			Help:      "Panel load attempts, partitioned by chart kind and outcome.",
		},
		[]string{"chart", "outcome"},
	)
)

// Register attaches the dashboard collectors to the supplied registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		requestsTotal,
		renderSeconds,
		panelLoadsTotal,
	}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method, route, status string) {
	requestsTotal.WithLabelValues(method, route, status).Inc()
}

// ObservePanelLoad records a panel load attempt and its end-to-end duration.
func ObservePanelLoad(chart string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	panelLoadsTotal.WithLabelValues(chart, outcome).Inc()
	if err == nil {
		renderSeconds.WithLabelValues(chart).Observe(duration.Seconds())
	}
}
