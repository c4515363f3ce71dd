// Command dashboard runs the household chart dashboard: an HTTP service
// rendering sensor charts server-side, plus headless snapshot and report
// export modes.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "dashboard",
		Short: "Household sensor chart dashboard",
		Long: `dashboard renders environmental sensor charts (time series, scatter with
trend line, risk heatmap) and composes them into exportable reports.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newSnapshotsCmd(), newReportCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
