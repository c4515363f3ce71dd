package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/homesense/dashboard/internal/types"
)

const (
	pathMetrics    = "/api/charts/metrics"
	pathTimeseries = "/api/charts/metric_timeseries"
	pathScatter    = "/api/charts/metric_scatter"
	pathHeatmap    = "/api/charts/risk_heatmap"

	userAgent = "homesense-dashboard/1.0"
)

// Client is the typed sensor-API client. All chart queries are POSTs whose
// bodies carry the original filter keys (serial_number, metric, start_ts,
// interval, agg, ...).
type Client struct {
	base    *BaseClient
	baseURL string
}

// NewClient builds a Client for the API at baseURL. A nil httpClient gets a
// 30 second timeout default.
func NewClient(baseURL string, httpClient *http.Client, opts ...BaseClientOption) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		base:    NewBaseClient(httpClient, "sensor-api", DefaultRetryPolicy(), userAgent, opts...),
		baseURL: baseURL,
	}
}

// Metrics fetches the metric catalog: display names, units, and threshold
// reference lines per metric key.
func (c *Client) Metrics(ctx context.Context) (types.MetricCatalog, error) {
	var out types.MetricCatalog
	if err := c.getJSON(ctx, pathMetrics, &out); err != nil {
		return types.MetricCatalog{}, err
	}
	return out, nil
}

// Timeseries fetches one aggregated metric series for a sensor.
func (c *Client) Timeseries(ctx context.Context, q types.TimeseriesQuery) (*types.TimeseriesResponse, error) {
	var out types.TimeseriesResponse
	if err := c.postJSON(ctx, pathTimeseries, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Scatter fetches time-aligned pairs of two metrics plus the upstream
// least-squares fit.
func (c *Client) Scatter(ctx context.Context, q types.ScatterQuery) (*types.ScatterResponse, error) {
	var out types.ScatterResponse
	if err := c.postJSON(ctx, pathScatter, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Heatmap fetches the metric x time risk grid.
func (c *Client) Heatmap(ctx context.Context, q types.HeatmapQuery) (*types.RiskHeatmapResponse, error) {
	var out types.RiskHeatmapResponse
	if err := c.postJSON(ctx, pathHeatmap, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "build request", err)
	}
	return c.roundTrip(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "encode request payload", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.roundTrip(req, out)
}

func (c *Client) roundTrip(req *http.Request, out any) error {
	resp, err := c.base.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("sensor API %s returned %d: %s", req.URL.Path, resp.StatusCode, bytes.TrimSpace(snippet)),
			nil,
		)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return types.NewAppError(types.ErrCodeUpstreamUnavailable, "decode sensor API response", err)
	}
	return nil
}
