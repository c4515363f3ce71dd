package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/homesense/dashboard/internal/catalog"
	"github.com/homesense/dashboard/internal/metrics"
	"github.com/homesense/dashboard/internal/render"
	"github.com/homesense/dashboard/internal/report"
	"github.com/homesense/dashboard/internal/types"
)

// panelResponse is the JSON shape returned by the load endpoints: section
// metadata plus the rendered chart as an inline data URL. Scatter loads also
// carry per-point hover text, in point order.
type panelResponse struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	Title    string   `json:"title"`
	Filters  string   `json:"filters"`
	Image    string   `json:"image"`
	Tooltips []string `json:"tooltips,omitempty"`
}

func toPanelResponse(s *types.ReportSection) panelResponse {
	resp := panelResponse{
		ID:      s.ID,
		Kind:    string(s.Kind),
		Title:   s.Title,
		Filters: s.FilterSummary(),
		Image:   s.ImageDataURL(),
	}
	if s.Scatter != nil && len(s.Scatter.Data.Points) > 0 {
		resp.Tooltips = make([]string, len(s.Scatter.Data.Points))
		for i, p := range s.Scatter.Data.Points {
			resp.Tooltips[i] = render.TooltipText(p)
		}
	}
	return resp
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := s.catalog.Metrics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (s *Server) handleLoadTimeseries(w http.ResponseWriter, r *http.Request) {
	var q types.TimeseriesQuery
	if err := decodeBody(w, r, &q); err != nil {
		writeError(w, r, err)
		return
	}
	start := time.Now()
	section, err := s.panels.LoadTimeseries(r.Context(), q)
	metrics.ObservePanelLoad(string(types.SectionTimeseries), time.Since(start), err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPanelResponse(section))
}

func (s *Server) handleLoadScatter(w http.ResponseWriter, r *http.Request) {
	var q types.ScatterQuery
	if err := decodeBody(w, r, &q); err != nil {
		writeError(w, r, err)
		return
	}
	start := time.Now()
	section, err := s.panels.LoadScatter(r.Context(), q)
	metrics.ObservePanelLoad(string(types.SectionScatter), time.Since(start), err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPanelResponse(section))
}

func (s *Server) handleLoadHeatmap(w http.ResponseWriter, r *http.Request) {
	var q types.HeatmapQuery
	if err := decodeBody(w, r, &q); err != nil {
		writeError(w, r, err)
		return
	}
	start := time.Now()
	section, err := s.panels.LoadHeatmap(r.Context(), q)
	metrics.ObservePanelLoad(string(types.SectionHeatmap), time.Since(start), err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPanelResponse(section))
}

// handlePanelImage serves the last rendered PNG for a panel.
func (s *Server) handlePanelImage(w http.ResponseWriter, r *http.Request) {
	kind := types.SectionKind(chi.URLParam(r, "kind"))
	section, err := s.panels.Snapshot(kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(section.ImagePNG)
}

// handleHeatmapDownload serves the heatmap PNG as an attachment with a
// deterministic filename derived from the captured query.
func (s *Server) handleHeatmapDownload(w http.ResponseWriter, r *http.Request) {
	section, err := s.panels.Snapshot(types.SectionHeatmap)
	if err != nil {
		writeError(w, r, err)
		return
	}
	start := ""
	serial := ""
	if section.Heatmap != nil {
		serial = section.Heatmap.Query.Serial
		start = section.Heatmap.Query.StartTS
		if start == "" {
			start = section.Heatmap.Query.RangeLabel()
		}
	}
	name := report.HeatmapFilename(serial, start)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(section.ImagePNG)
}

// exportRequest selects what a report export covers.
type exportRequest struct {
	HouseID    string `json:"house_id"`
	DiseaseKey string `json:"disease_key,omitempty"`
}

func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	disease := catalog.FindDisease(catalog.DefaultDiseases(), req.DiseaseKey)
	rep := s.composer.Collect(req.HouseID, disease)

	name := report.ReportFilename(rep.HouseID, rep.GeneratedAt)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := report.ExportHTML(rep, w); err != nil {
		// Nothing was written yet on the empty-report path; the headers can
		// still be replaced by the JSON error.
		w.Header().Del("Content-Disposition")
		writeError(w, r, err)
		return
	}
}

func (s *Server) handleReportWorkbook(w http.ResponseWriter, r *http.Request) {
	houseID := r.URL.Query().Get("house_id")
	disease := catalog.FindDisease(catalog.DefaultDiseases(), r.URL.Query().Get("disease_key"))
	rep := s.composer.Collect(houseID, disease)

	f, err := report.ExportWorkbook(rep)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer f.Close()

	name := report.SanitizeToken(rep.HouseID) + "_" + rep.GeneratedAt.Format("20060102_150405") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="report_`+name+`"`)
	if err := f.Write(w); err != nil {
		s.log.Error("workbook write failed", "error", err)
	}
}
