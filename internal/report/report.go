// Package report assembles captured chart sections into a single exportable
// document: a self-contained HTML file with embedded images, an optional
// gzip-compressed copy, and a spreadsheet of the raw section data.
package report

import (
	"log/slog"
	"time"

	"github.com/homesense/dashboard/internal/types"
)

// SectionSource yields the current captured state of one chart panel.
type SectionSource interface {
	Snapshot(kind types.SectionKind) (*types.ReportSection, error)
}

// Composer builds ChartsReport aggregates from panel state.
type Composer struct {
	source SectionSource
	log    *slog.Logger
	now    func() time.Time
}

// NewComposer wires a Composer over the given panel source.
func NewComposer(source SectionSource, log *slog.Logger) *Composer {
	if log == nil {
		log = slog.Default()
	}
	return &Composer{source: source, log: log, now: time.Now}
}

// collectOrder fixes section order in every exported document: the line
// chart first, then the scatter, then the heatmap.
var collectOrder = []types.SectionKind{
	types.SectionTimeseries,
	types.SectionScatter,
	types.SectionHeatmap,
}

// Collect gathers the loaded sections in fixed order. Panels that are not
// loaded (or last failed) are skipped, never aborting the whole report.
func (c *Composer) Collect(houseID string, disease *types.Disease) types.ChartsReport {
	report := types.ChartsReport{
		GeneratedAt: c.now(),
		HouseID:     houseID,
		Disease:     disease,
	}
	for _, kind := range collectOrder {
		section, err := c.source.Snapshot(kind)
		if err != nil {
			c.log.Debug("panel skipped in report", "panel", string(kind), "reason", err)
			continue
		}
		if section == nil || len(section.ImagePNG) == 0 {
			continue
		}
		report.Sections = append(report.Sections, *section)
	}
	return report
}
