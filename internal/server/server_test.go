package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homesense/dashboard/internal/render"
	"github.com/homesense/dashboard/internal/types"
)

type fakePanels struct {
	sections map[types.SectionKind]*types.ReportSection
	loadErr  error
}

func (f *fakePanels) LoadTimeseries(ctx context.Context, q types.TimeseriesQuery) (*types.ReportSection, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.sections[types.SectionTimeseries], nil
}

func (f *fakePanels) LoadScatter(ctx context.Context, q types.ScatterQuery) (*types.ReportSection, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.sections[types.SectionScatter], nil
}

func (f *fakePanels) LoadHeatmap(ctx context.Context, q types.HeatmapQuery) (*types.ReportSection, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.sections[types.SectionHeatmap], nil
}

func (f *fakePanels) Snapshot(kind types.SectionKind) (*types.ReportSection, error) {
	if s, ok := f.sections[kind]; ok {
		return s, nil
	}
	return nil, types.NewAppError(types.ErrCodeNotFoundPanel, "panel "+string(kind)+" has no loaded chart", nil)
}

type fakeCatalog struct {
	cat types.MetricCatalog
	err error
}

func (f *fakeCatalog) Metrics(ctx context.Context) (types.MetricCatalog, error) {
	return f.cat, f.err
}

func tsSection() *types.ReportSection {
	return &types.ReportSection{
		ID:       "sec-1",
		Kind:     types.SectionTimeseries,
		Title:    "CO2 (ppm)",
		ImagePNG: []byte{0x89, 'P', 'N', 'G'},
		Timeseries: &types.TimeseriesSection{
			Query: types.TimeseriesQuery{
				Serial: "SB-001", Metric: "co2", Range: "24h", Interval: "1h", Agg: "avg",
			},
			Data: types.TimeseriesResponse{Title: "CO2 (ppm)", Unit: "ppm"},
		},
	}
}

func scSection() *types.ReportSection {
	return &types.ReportSection{
		ID:       "sec-3",
		Kind:     types.SectionScatter,
		Title:    "temp vs co2",
		ImagePNG: []byte{0x89, 'P', 'N', 'G', '3'},
		Scatter: &types.ScatterSection{
			Query: types.ScatterQuery{
				Serial: "SB-001", XMetric: "temp", YMetric: "co2", Range: "24h", Interval: "1h",
			},
			Data: types.ScatterResponse{
				Title: "temp vs co2",
				Points: []types.ScatterPoint{
					{TS: "2024-03-05T10:00:00Z", X: 20.5, Y: 812},
					{TS: "2024-03-05T11:00:00Z", X: 21.25, Y: 845.5},
				},
			},
		},
	}
}

func hmSection() *types.ReportSection {
	return &types.ReportSection{
		ID:       "sec-2",
		Kind:     types.SectionHeatmap,
		Title:    "Risk heatmap",
		ImagePNG: []byte{0x89, 'P', 'N', 'G', '2'},
		Heatmap: &types.HeatmapSection{
			Query: types.HeatmapQuery{
				Serial: "SB-001", StartTS: "2024-03-05T00:00:00Z", EndTS: "2024-03-05T12:00:00Z",
				Interval: "1h", Agg: "avg",
			},
			Data: types.RiskHeatmapResponse{Title: "Risk heatmap"},
		},
	}
}

func newTestServer(panels *fakePanels, cat *fakeCatalog) *httptest.Server {
	if cat == nil {
		cat = &fakeCatalog{}
	}
	return httptest.NewServer(New(panels, cat, nil).Handler())
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakePanels{}, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&fakePanels{}, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCatalogProxy(t *testing.T) {
	cat := &fakeCatalog{cat: types.MetricCatalog{Metrics: []types.MetricInfo{
		{Metric: "co2", Unit: "ppm"},
	}}}
	srv := newTestServer(&fakePanels{}, cat)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/catalog")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got types.MetricCatalog
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Metrics, 1)
	assert.Equal(t, "co2", got.Metrics[0].Metric)
}

func TestCatalogUpstreamErrorMapsTo502(t *testing.T) {
	cat := &fakeCatalog{err: types.NewAppError(types.ErrCodeUpstreamUnavailable, "backend down", nil)}
	srv := newTestServer(&fakePanels{}, cat)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/catalog")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(types.ErrCodeUpstreamUnavailable), body.Error.Code)
	assert.NotEmpty(t, body.Error.RequestID)
}

func TestLoadTimeseriesEndpoint(t *testing.T) {
	panels := &fakePanels{sections: map[types.SectionKind]*types.ReportSection{
		types.SectionTimeseries: tsSection(),
	}}
	srv := newTestServer(panels, nil)
	defer srv.Close()

	payload, _ := json.Marshal(types.TimeseriesQuery{
		Serial: "SB-001", Metric: "co2", Range: "24h", Interval: "1h", Agg: "avg",
	})
	resp, err := http.Post(srv.URL+"/api/panels/timeseries", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got panelResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "sec-1", got.ID)
	assert.Equal(t, "timeseries", got.Kind)
	assert.True(t, strings.HasPrefix(got.Image, "data:image/png;base64,"))
	assert.Contains(t, got.Filters, "Sensor: SB-001")
}

func TestLoadScatterEndpointCarriesTooltips(t *testing.T) {
	panels := &fakePanels{sections: map[types.SectionKind]*types.ReportSection{
		types.SectionScatter: scSection(),
	}}
	srv := newTestServer(panels, nil)
	defer srv.Close()

	payload, _ := json.Marshal(types.ScatterQuery{
		Serial: "SB-001", XMetric: "temp", YMetric: "co2", Range: "24h", Interval: "1h",
	})
	resp, err := http.Post(srv.URL+"/api/panels/scatter", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got panelResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "scatter", got.Kind)
	points := scSection().Scatter.Data.Points
	require.Len(t, got.Tooltips, len(points))
	for i, p := range points {
		assert.Equal(t, render.TooltipText(p), got.Tooltips[i])
	}
	assert.Contains(t, got.Tooltips[0], "(20.500, 812.000)")
}

func TestLoadValidationErrorMapsTo400(t *testing.T) {
	panels := &fakePanels{loadErr: types.NewAppError(
		types.ErrCodeValidationMissingField, "missing required field Serial", nil,
	)}
	srv := newTestServer(panels, nil)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/panels/timeseries", "application/json",
		strings.NewReader(`{"metric":"co2"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoadMalformedBodyRejected(t *testing.T) {
	srv := newTestServer(&fakePanels{}, nil)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/panels/heatmap", "application/json",
		strings.NewReader(`{"serial_number": `))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPanelImage(t *testing.T) {
	panels := &fakePanels{sections: map[types.SectionKind]*types.ReportSection{
		types.SectionTimeseries: tsSection(),
	}}
	srv := newTestServer(panels, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/panels/timeseries/image")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, tsSection().ImagePNG, body)

	// Unloaded panel maps to 404.
	resp2, err := http.Get(srv.URL + "/api/panels/scatter/image")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestHeatmapDownloadFilename(t *testing.T) {
	panels := &fakePanels{sections: map[types.SectionKind]*types.ReportSection{
		types.SectionHeatmap: hmSection(),
	}}
	srv := newTestServer(panels, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/heatmap/download")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cd := resp.Header.Get("Content-Disposition")
	assert.Contains(t, cd, "heatmap_SB-001_2024-03-05T00_00_00Z.png")
}

func TestReportExport(t *testing.T) {
	panels := &fakePanels{sections: map[types.SectionKind]*types.ReportSection{
		types.SectionTimeseries: tsSection(),
	}}
	srv := newTestServer(panels, nil)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/report/export", "application/json",
		strings.NewReader(`{"house_id":"house-9"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "report_house-9_")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Household report house-9")
}

func TestReportExportEmptyIs400(t *testing.T) {
	srv := newTestServer(&fakePanels{}, nil)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/report/export", "application/json",
		strings.NewReader(`{"house_id":"house-9"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(types.ErrCodeValidationEmptyReport), body.Error.Code)
}

func TestReportWorkbook(t *testing.T) {
	panels := &fakePanels{sections: map[types.SectionKind]*types.ReportSection{
		types.SectionTimeseries: tsSection(),
	}}
	srv := newTestServer(panels, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/report/workbook?house_id=house-9")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	body, _ := io.ReadAll(resp.Body)
	assert.NotEmpty(t, body)
}
