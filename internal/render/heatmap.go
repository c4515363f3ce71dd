package render

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/fogleman/gg"

	"github.com/homesense/dashboard/internal/plot"
	"github.com/homesense/dashboard/internal/timefmt"
	"github.com/homesense/dashboard/internal/types"
)

const (
	defaultHeatmapWidth  = 1100
	defaultHeatmapHeight = 640

	heatmapMarginLeft   = 150.0
	heatmapMarginRight  = 180.0
	heatmapMarginBottom = 56.0

	heatmapMaxTimeTicks = 12

	// In-cell labels are suppressed below this rendered cell size.
	cellTextMinHeight = 32.0
	cellTextMinWidth  = 80.0
)

// ErrEmptyGrid is returned when a heatmap response has no rows or no time
// buckets; callers surface the failure instead of drawing an empty grid.
var ErrEmptyGrid = errors.New("heatmap: no rows or time buckets to draw")

// HeatmapContext is the caller-supplied display context rendered into the
// header block: the selected sensor, query parameters, and the metric subset
// the user explicitly picked for this render (distinct from all metrics the
// response carries).
type HeatmapContext struct {
	Serial          string
	Interval        string
	Agg             string
	RangeLabel      string
	DiseaseKey      string
	DiseaseName     string
	SelectedMetrics []string
}

func (c HeatmapContext) diseaseLabel() string {
	if c.DiseaseName != "" {
		return c.DiseaseName
	}
	if c.DiseaseKey != "" {
		return c.DiseaseKey
	}
	return "N/A"
}

func (c HeatmapContext) filterLine() string {
	return fmt.Sprintf("Sensor: %s | Disease: %s | Interval: %s | Aggregate: %s | Range: %s",
		c.Serial, c.diseaseLabel(), c.Interval, c.Agg, c.RangeLabel)
}

func (c HeatmapContext) metricsLine() string {
	if len(c.SelectedMetrics) == 0 {
		return "Metrics: All metrics"
	}
	return "Metrics: " + strings.Join(c.SelectedMetrics, ", ")
}

// CellStatus is the resolved display state of one heatmap cell.
type CellStatus int

const (
	CellRisk CellStatus = iota
	CellNoSensor
	CellDisabled
	CellNoData
)

// CellState resolves the four-way precedence for a cell: missing sensor wins
// over disabled, which wins over a missing bucket value, and only a fully
// populated cell gets the continuous risk mapping.
func CellState(row types.RiskHeatmapRow, i int) (CellStatus, float64, float64) {
	if !row.HasSensor {
		return CellNoSensor, 0, 0
	}
	if !row.Enabled {
		return CellDisabled, 0, 0
	}
	if i >= len(row.Values) || i >= len(row.Risk) || row.Values[i] == nil || row.Risk[i] == nil {
		return CellNoData, 0, 0
	}
	return CellRisk, *row.Values[i], *row.Risk[i]
}

// ShowCellText reports whether a cell is large enough for its numeric label.
func ShowCellText(cellWidth, cellHeight float64) bool {
	return cellHeight >= cellTextMinHeight && cellWidth >= cellTextMinWidth
}

// CellFontSize scales the in-cell font with the smaller cell dimension,
// clamped to a readable band.
func CellFontSize(cellWidth, cellHeight float64) float64 {
	d := cellWidth
	if cellHeight < d {
		d = cellHeight
	}
	size := d * 0.35
	if size < 12 {
		return 12
	}
	if size > 24 {
		return 24
	}
	return size
}

// Heatmap renders the metric x time risk grid with its header block, axis
// labels, and legend. The response must carry at least one row and one time
// bucket; otherwise ErrEmptyGrid is returned.
func Heatmap(resp types.RiskHeatmapResponse, hctx HeatmapContext, opt Options) (*Result, error) {
	if len(resp.Labels) == 0 || len(resp.Rows) == 0 {
		return nil, ErrEmptyGrid
	}
	opt = opt.withDefaults(defaultHeatmapWidth, defaultHeatmapHeight)

	w := float64(opt.Width)
	h := float64(opt.Height)
	dc := gg.NewContext(opt.Width, opt.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Header block. Each wrapped line pushes the grid's top margin down.
	y := 10.0
	dc.SetFontFace(fontFace(17))
	dc.SetRGB255(30, 30, 30)
	dc.DrawStringAnchored(resp.Title, w/2, y+10, 0.5, 0.5)
	y += 28

	headerFace := fontFace(12)
	dc.SetFontFace(headerFace)
	measure := func(s string) float64 {
		mw, _ := dc.MeasureString(s)
		return mw
	}
	maxHeaderWidth := w - 48

	if resp.Start != "" && resp.End != "" {
		dc.SetRGB255(90, 90, 90)
		window := timefmt.Reformat(resp.Start) + " – " + timefmt.Reformat(resp.End)
		dc.DrawStringAnchored(window, w/2, y+7, 0.5, 0.5)
		y += 17
	}

	dc.SetRGB255(70, 70, 70)
	for _, line := range plot.WrapText(measure, hctx.filterLine(), maxHeaderWidth) {
		dc.DrawStringAnchored(line, w/2, y+7, 0.5, 0.5)
		y += 16
	}
	for _, line := range plot.WrapText(measure, hctx.metricsLine(), maxHeaderWidth) {
		dc.DrawStringAnchored(line, w/2, y+7, 0.5, 0.5)
		y += 16
	}

	gridTop := y + 12
	gridLeft := heatmapMarginLeft
	gridRight := w - heatmapMarginRight
	gridBottom := h - heatmapMarginBottom
	cols := len(resp.Labels)
	rows := len(resp.Rows)
	colScale := plot.NewLinearScale(0, float64(cols), gridLeft, gridRight)
	rowScale := plot.NewLinearScale(0, float64(rows), gridTop, gridBottom)
	cellW := colScale.Apply(1) - colScale.Apply(0)
	cellH := rowScale.Apply(1) - rowScale.Apply(0)

	// Cells.
	showText := ShowCellText(cellW, cellH)
	cellFace := fontFace(CellFontSize(cellW, cellH))
	for r, row := range resp.Rows {
		cy := rowScale.Apply(float64(r))
		for c := 0; c < cols; c++ {
			cx := colScale.Apply(float64(c))
			status, value, risk := CellState(row, c)
			switch status {
			case CellNoSensor:
				dc.SetColor(colorNoSensor)
			case CellDisabled:
				dc.SetColor(colorDisabled)
			case CellNoData:
				dc.SetColor(colorNoData)
			case CellRisk:
				dc.SetColor(RiskColor(risk))
			}
			dc.DrawRectangle(cx, cy, cellW, cellH)
			dc.Fill()
			// thin separator so dense grids stay readable
			dc.SetRGBA(1, 1, 1, 0.9)
			dc.SetLineWidth(0.5)
			dc.DrawRectangle(cx, cy, cellW, cellH)
			dc.Stroke()

			if status == CellRisk && showText {
				dc.SetFontFace(cellFace)
				if risk > 0.55 {
					dc.SetRGB(1, 1, 1)
				} else {
					dc.SetRGB255(20, 20, 20)
				}
				dc.DrawStringAnchored(fmt.Sprintf("%.1f", value), cx+cellW/2, cy+cellH/2, 0.5, 0.5)
			}
		}
	}

	// Row labels: metric display name plus unit, outside the grid.
	dc.SetFontFace(fontFace(11))
	dc.SetRGB255(40, 40, 40)
	for r, row := range resp.Rows {
		label := row.Metric
		if row.Unit != "" {
			label += " (" + row.Unit + ")"
		}
		cy := rowScale.Apply(float64(r) + 0.5)
		dc.DrawStringAnchored(label, gridLeft-8, cy, 1, 0.5)
	}

	// Column ticks, thinned with the last bucket always present.
	dc.SetFontFace(fontFace(10))
	for _, idx := range StrideTickIndices(cols, heatmapMaxTimeTicks) {
		cx := colScale.Apply(float64(idx) + 0.5)
		dc.SetRGB255(120, 120, 120)
		dc.SetLineWidth(1)
		dc.DrawLine(cx, gridBottom, cx, gridBottom+4)
		dc.Stroke()
		dc.SetRGB255(60, 60, 60)
		if comp := timefmt.Parse(resp.Labels[idx]); comp != nil {
			date, tod := comp.DateAndTime()
			dc.DrawStringAnchored(date, cx, gridBottom+14, 0.5, 0.5)
			dc.DrawStringAnchored(tod, cx, gridBottom+27, 0.5, 0.5)
		} else {
			dc.DrawStringAnchored(strings.TrimSpace(resp.Labels[idx]), cx, gridBottom+14, 0.5, 0.5)
		}
	}

	drawHeatmapLegend(dc, gridRight+24, gridTop, gridBottom)

	return encodeContext(dc)
}

// drawHeatmapLegend draws the vertical risk gradient (high at top) and the
// three categorical status swatches.
func drawHeatmapLegend(dc *gg.Context, x, top, bottom float64) {
	dc.SetFontFace(fontFace(11))
	dc.SetRGB255(40, 40, 40)
	dc.DrawStringAnchored("Risk Level", x+30, top-8, 0.5, 0.5)

	barW := 16.0
	barH := bottom - top - 110
	if barH < 60 {
		barH = 60
	}
	// Risk 1 maps to the top of the bar, 0 to the bottom.
	riskScale := plot.NewLinearScale(0, 1, top+barH, top)
	for i := 0.0; i < barH; i++ {
		risk := 1 - i/barH
		dc.SetColor(RiskColor(risk))
		dc.DrawRectangle(x, riskScale.Apply(risk), barW, 1.5)
		dc.Fill()
	}
	dc.SetFontFace(fontFace(10))
	dc.SetRGB255(70, 70, 70)
	dc.DrawStringAnchored("High", x+barW+6, top+5, 0, 0.5)
	dc.DrawStringAnchored("Low", x+barW+6, top+barH-5, 0, 0.5)

	swatches := []struct {
		label string
		col   color.RGBA
	}{
		{"Sensor disabled", colorDisabled},
		{"No sensor", colorNoSensor},
		{"No data", colorNoData},
	}
	sy := top + barH + 16
	for _, s := range swatches {
		dc.SetColor(s.col)
		dc.DrawRectangle(x, sy, 12, 12)
		dc.Fill()
		dc.SetRGB255(70, 70, 70)
		dc.DrawStringAnchored(s.label, x+18, sy+6, 0, 0.5)
		sy += 18
	}
}
