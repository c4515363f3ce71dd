package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/homesense/dashboard/internal/catalog"
	"github.com/homesense/dashboard/internal/render"
	"github.com/homesense/dashboard/internal/types"
)

func newSnapshotsCmd() *cobra.Command {
	var (
		outDir string
		serial string
		hours  int
	)
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Render a representative set of charts to PNG files",
		Long: `snapshots renders every chart kind headlessly from generated demo data
and writes the PNGs under the output directory. Useful for documentation
and for eyeballing rendering changes without a running sensor API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshots(outDir, serial, hours)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "snapshots", "output directory")
	cmd.Flags().StringVar(&serial, "serial", "SB-DEMO", "sensor serial shown in chart headers")
	cmd.Flags().IntVar(&hours, "hours", 48, "hours of demo data to generate")
	return cmd
}

func runSnapshots(outDir, serial string, hours int) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}

	metrics := catalog.DefaultMetrics()
	byKey := make(map[string]types.MetricInfo, len(metrics))
	for _, m := range metrics {
		byKey[m.Metric] = m
	}
	labels := demoLabels(hours, time.Now())

	hctx := render.HeatmapContext{
		Serial:     serial,
		Interval:   "1h",
		Agg:        "avg",
		RangeLabel: fmt.Sprintf("%dh", hours),
	}
	asthma := catalog.FindDisease(catalog.DefaultDiseases(), "asthma")
	asthmaMetrics := make([]types.MetricInfo, 0, len(asthma.Metrics))
	for _, key := range asthma.Metrics {
		if info, ok := byKey[key]; ok {
			asthmaMetrics = append(asthmaMetrics, info)
		}
	}
	asthmaCtx := hctx
	asthmaCtx.DiseaseKey = asthma.Key
	asthmaCtx.DiseaseName = asthma.Name
	asthmaCtx.SelectedMetrics = asthma.Metrics

	jobs := []struct {
		name   string
		render func() (*render.Result, error)
	}{
		{"timeseries_co2.png", func() (*render.Result, error) {
			return render.Timeseries(demoTimeseries(byKey["co2"], labels), render.Options{})
		}},
		{"timeseries_temp.png", func() (*render.Result, error) {
			return render.Timeseries(demoTimeseries(byKey["temp"], labels), render.Options{})
		}},
		{"timeseries_pm25.png", func() (*render.Result, error) {
			return render.Timeseries(demoTimeseries(byKey["pm25"], labels), render.Options{})
		}},
		{"scatter_temp_co2.png", func() (*render.Result, error) {
			return render.Scatter(demoScatter(byKey["temp"], byKey["co2"], labels), render.Options{})
		}},
		{"heatmap_all.png", func() (*render.Result, error) {
			return render.Heatmap(demoHeatmap(metrics, labels), hctx, render.Options{})
		}},
		{"heatmap_asthma.png", func() (*render.Result, error) {
			return render.Heatmap(demoHeatmap(asthmaMetrics, labels), asthmaCtx, render.Options{})
		}},
	}

	var g errgroup.Group
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			res, err := job.render()
			if err != nil {
				return fmt.Errorf("render %s: %w", job.name, err)
			}
			path := filepath.Join(outDir, job.name)
			if err := os.WriteFile(path, res.PNG, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Println("wrote", path)
			return nil
		})
	}
	return g.Wait()
}
