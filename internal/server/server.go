// Package server exposes the dashboard over HTTP: panel load and image
// endpoints, report export downloads, the metric catalog proxy, health, and
// Prometheus metrics.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homesense/dashboard/internal/metrics"
	"github.com/homesense/dashboard/internal/report"
	"github.com/homesense/dashboard/internal/types"
)

// Panels is the slice of the panel coordinator the handlers consume.
type Panels interface {
	LoadTimeseries(ctx context.Context, q types.TimeseriesQuery) (*types.ReportSection, error)
	LoadScatter(ctx context.Context, q types.ScatterQuery) (*types.ReportSection, error)
	LoadHeatmap(ctx context.Context, q types.HeatmapQuery) (*types.ReportSection, error)
	Snapshot(kind types.SectionKind) (*types.ReportSection, error)
}

// CatalogSource fetches the metric catalog from the sensor API.
type CatalogSource interface {
	Metrics(ctx context.Context) (types.MetricCatalog, error)
}

// Server wires the handler dependencies and the chi router.
type Server struct {
	panels   Panels
	catalog  CatalogSource
	composer *report.Composer
	log      *slog.Logger
	router   *chi.Mux
}

// New builds the Server and mounts all routes.
func New(panels Panels, catalog CatalogSource, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		panels:   panels,
		catalog:  catalog,
		composer: report.NewComposer(panels, log),
		log:      log,
		router:   chi.NewRouter(),
	}
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Warn("metrics registration failed", "error", err)
	}
	s.mountRoutes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) mountRoutes() {
	s.router.Use(s.recoverer)
	s.router.Use(requestID)
	s.router.Use(s.requestLogger)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)

		r.Route("/panels", func(r chi.Router) {
			r.Post("/timeseries", s.handleLoadTimeseries)
			r.Post("/scatter", s.handleLoadScatter)
			r.Post("/heatmap", s.handleLoadHeatmap)
			r.Get("/{kind}/image", s.handlePanelImage)
		})

		r.Get("/heatmap/download", s.handleHeatmapDownload)

		r.Route("/report", func(r chi.Router) {
			r.Post("/export", s.handleReportExport)
			r.Get("/workbook", s.handleReportWorkbook)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
