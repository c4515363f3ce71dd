package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/homesense/dashboard/internal/backend"
	"github.com/homesense/dashboard/internal/catalog"
	"github.com/homesense/dashboard/internal/config"
	"github.com/homesense/dashboard/internal/panel"
	"github.com/homesense/dashboard/internal/report"
	"github.com/homesense/dashboard/internal/types"
)

func newReportCmd() *cobra.Command {
	var (
		houseID    string
		serial     string
		metric     string
		xMetric    string
		yMetric    string
		diseaseKey string
		window     string
		interval   string
		agg        string
		withXLSX   bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch, render, and export a full report in one shot",
		Long: `report loads all three chart panels from the sensor API, composes them
into a single HTML document with embedded images, and writes it (plus a gzip
archive copy) to the export directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), reportParams{
				houseID: houseID, serial: serial, metric: metric,
				xMetric: xMetric, yMetric: yMetric, diseaseKey: diseaseKey,
				window: window, interval: interval, agg: agg, withXLSX: withXLSX,
			})
		},
	}
	cmd.Flags().StringVar(&houseID, "house", "home", "household identifier for the report")
	cmd.Flags().StringVar(&serial, "serial", "", "sensor serial (required)")
	cmd.Flags().StringVar(&metric, "metric", "co2", "metric for the time series panel")
	cmd.Flags().StringVar(&xMetric, "x", "temp", "x metric for the scatter panel")
	cmd.Flags().StringVar(&yMetric, "y", "co2", "y metric for the scatter panel")
	cmd.Flags().StringVar(&diseaseKey, "disease", "", "disease key focusing the heatmap")
	cmd.Flags().StringVar(&window, "range", "24h", "relative time window")
	cmd.Flags().StringVar(&interval, "interval", "1h", "aggregation bucket size")
	cmd.Flags().StringVar(&agg, "agg", "avg", "aggregation operator")
	cmd.Flags().BoolVar(&withXLSX, "xlsx", false, "also export the raw data workbook")
	cmd.MarkFlagRequired("serial")
	return cmd
}

type reportParams struct {
	houseID    string
	serial     string
	metric     string
	xMetric    string
	yMetric    string
	diseaseKey string
	window     string
	interval   string
	agg        string
	withXLSX   bool
}

func runReport(ctx context.Context, p reportParams) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg.SlogLevel())

	client := backend.NewClient(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.Timeout})
	panels := panel.NewService(client, nil, log)
	panels.SetHousehold(p.houseID)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	// Panels load sequentially; a failing panel is skipped, not fatal.
	if _, err := panels.LoadTimeseries(ctx, types.TimeseriesQuery{
		Serial: p.serial, Metric: p.metric, Range: p.window, Interval: p.interval, Agg: p.agg,
	}); err != nil {
		log.Warn("timeseries panel skipped", "error", err)
	}
	if _, err := panels.LoadScatter(ctx, types.ScatterQuery{
		Serial: p.serial, XMetric: p.xMetric, YMetric: p.yMetric, Range: p.window, Interval: p.interval,
	}); err != nil {
		log.Warn("scatter panel skipped", "error", err)
	}
	if _, err := panels.LoadHeatmap(ctx, types.HeatmapQuery{
		Serial: p.serial, Range: p.window, Interval: p.interval, Agg: p.agg, DiseaseKey: p.diseaseKey,
	}); err != nil {
		log.Warn("heatmap panel skipped", "error", err)
	}

	disease := catalog.FindDisease(catalog.DefaultDiseases(), p.diseaseKey)
	rep := report.NewComposer(panels, log).Collect(p.houseID, disease)

	path, err := report.WriteHTMLFile(rep, cfg.Export.Dir)
	if err != nil {
		return err
	}
	fmt.Println("wrote", path)

	if p.withXLSX {
		f, err := report.ExportWorkbook(rep)
		if err != nil {
			return err
		}
		defer f.Close()
		xlsxPath := filepath.Join(cfg.Export.Dir,
			fmt.Sprintf("report_%s_%s.xlsx", report.SanitizeToken(rep.HouseID), rep.GeneratedAt.Format("20060102_150405")))
		if err := f.SaveAs(xlsxPath); err != nil {
			return fmt.Errorf("save workbook: %w", err)
		}
		fmt.Println("wrote", xlsxPath)
	}
	return nil
}
