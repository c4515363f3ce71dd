package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/homesense/dashboard/internal/types"
)

// ExportWorkbook builds a spreadsheet with one summary sheet plus one sheet
// of raw data per captured section. The caller owns closing/saving the file.
func ExportWorkbook(report types.ChartsReport) (*excelize.File, error) {
	if len(report.Sections) == 0 {
		return nil, types.NewAppError(
			types.ErrCodeValidationEmptyReport,
			"report has no captured sections to export",
			nil,
		)
	}

	f := excelize.NewFile()
	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, fmt.Errorf("workbook: rename summary sheet: %w", err)
	}

	setRow(f, summary, 1, "Generated", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	setRow(f, summary, 2, "Household", report.HouseID)
	if report.Disease != nil {
		setRow(f, summary, 3, "Disease focus", report.Disease.Name)
	}
	setRow(f, summary, 5, "Section", "Filters")
	for i := range report.Sections {
		s := &report.Sections[i]
		setRow(f, summary, 6+i, s.Title, s.FilterSummary())
	}

	for i := range report.Sections {
		s := &report.Sections[i]
		sheet := fmt.Sprintf("%d %s", i+1, s.Kind)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("workbook: sheet %s: %w", sheet, err)
		}
		var err error
		switch s.Kind {
		case types.SectionTimeseries:
			err = writeTimeseriesSheet(f, sheet, s.Timeseries)
		case types.SectionScatter:
			err = writeScatterSheet(f, sheet, s.Scatter)
		case types.SectionHeatmap:
			err = writeHeatmapSheet(f, sheet, s.Heatmap)
		}
		if err != nil {
			return nil, fmt.Errorf("workbook: fill %s: %w", sheet, err)
		}
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		f.SetCellValue(sheet, cell, v)
	}
}

func writeTimeseriesSheet(f *excelize.File, sheet string, s *types.TimeseriesSection) error {
	if s == nil {
		return nil
	}
	header := []any{"Timestamp"}
	for _, series := range s.Data.Series {
		header = append(header, fmt.Sprintf("%s (%s)", series.Name, s.Data.Unit))
	}
	setRow(f, sheet, 1, header...)
	for i, label := range s.Data.Labels {
		row := []any{label}
		for _, series := range s.Data.Series {
			if i < len(series.Data) {
				row = append(row, series.Data[i])
			} else {
				row = append(row, "")
			}
		}
		setRow(f, sheet, i+2, row...)
	}
	return nil
}

func writeScatterSheet(f *excelize.File, sheet string, s *types.ScatterSection) error {
	if s == nil {
		return nil
	}
	setRow(f, sheet, 1, "Timestamp",
		fmt.Sprintf("%s (%s)", s.Query.XMetric, s.Data.UnitX),
		fmt.Sprintf("%s (%s)", s.Query.YMetric, s.Data.UnitY),
	)
	for i, p := range s.Data.Points {
		setRow(f, sheet, i+2, p.TS, p.X, p.Y)
	}
	if s.Data.BestFit != nil {
		row := len(s.Data.Points) + 3
		setRow(f, sheet, row, "Best fit slope", s.Data.BestFit.Slope)
		setRow(f, sheet, row+1, "Best fit intercept", s.Data.BestFit.Intercept)
	}
	return nil
}

func writeHeatmapSheet(f *excelize.File, sheet string, s *types.HeatmapSection) error {
	if s == nil {
		return nil
	}
	header := []any{"Metric", "Unit"}
	for _, label := range s.Data.Labels {
		header = append(header, label)
	}
	setRow(f, sheet, 1, header...)
	for r, row := range s.Data.Rows {
		cells := []any{row.Metric, row.Unit}
		for i := range s.Data.Labels {
			if i < len(row.Values) && row.Values[i] != nil {
				cells = append(cells, *row.Values[i])
			} else {
				cells = append(cells, "")
			}
		}
		setRow(f, sheet, r+2, cells...)
	}
	return nil
}
