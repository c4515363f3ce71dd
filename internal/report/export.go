package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/homesense/dashboard/internal/types"
)

const reportTemplateText = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 1180px; color: #1f2937; }
header { border-bottom: 2px solid #e5e7eb; padding-bottom: 1rem; margin-bottom: 2rem; }
h1 { margin: 0 0 0.25rem 0; }
.meta { color: #6b7280; font-size: 0.9rem; }
section { margin-bottom: 3rem; }
section h2 { margin-bottom: 0.25rem; }
.filters { color: #4b5563; font-size: 0.85rem; margin-bottom: 0.75rem; }
img { max-width: 100%; border: 1px solid #e5e7eb; }
details { margin-top: 0.5rem; }
details pre { background: #f9fafb; padding: 0.75rem; overflow-x: auto; font-size: 0.75rem; }
</style>
</head>
<body>
<header>
<h1>{{.Title}}</h1>
<p class="meta">Generated {{.Generated}}{{if .Disease}} &middot; Disease focus: {{.Disease}}{{end}}</p>
</header>
{{range .Sections}}<section>
<h2>{{.Title}}</h2>
<p class="filters">{{.Filters}}</p>
<img src="{{.ImageURL}}" alt="{{.Title}}">
<details>
<summary>Raw data</summary>
<pre>{{.RawJSON}}</pre>
</details>
</section>
{{end}}</body>
</html>
`

var reportTemplate = template.Must(template.New("report").Parse(reportTemplateText))

type sectionView struct {
	Title    string
	Filters  string
	ImageURL template.URL
	RawJSON  string
}

type reportView struct {
	Title     string
	Generated string
	Disease   string
	Sections  []sectionView
}

// ExportHTML writes the report as one self-contained HTML document. Every
// image travels inline as a base64 data URL, so the file has no external
// references. A report with zero sections is refused.
func ExportHTML(report types.ChartsReport, w io.Writer) error {
	if len(report.Sections) == 0 {
		return types.NewAppError(
			types.ErrCodeValidationEmptyReport,
			"report has no captured sections to export",
			nil,
		)
	}

	view := reportView{
		Title:     reportTitle(report),
		Generated: report.GeneratedAt.Format("2006-01-02 15:04:05"),
	}
	if report.Disease != nil {
		view.Disease = report.Disease.Name
	}
	for i := range report.Sections {
		s := &report.Sections[i]
		raw, err := rawSectionJSON(s)
		if err != nil {
			return fmt.Errorf("report: encode section %s: %w", s.ID, err)
		}
		view.Sections = append(view.Sections, sectionView{
			Title:    s.Title,
			Filters:  s.FilterSummary(),
			ImageURL: template.URL(s.ImageDataURL()),
			RawJSON:  raw,
		})
	}
	return reportTemplate.Execute(w, view)
}

func reportTitle(report types.ChartsReport) string {
	if report.HouseID != "" {
		return "Household report " + report.HouseID
	}
	return "Household report"
}

// rawSectionJSON serializes the section's query+response payload for the
// collapsible appendix. The PNG bytes are deliberately excluded.
func rawSectionJSON(s *types.ReportSection) (string, error) {
	var payload any
	switch s.Kind {
	case types.SectionTimeseries:
		payload = s.Timeseries
	case types.SectionScatter:
		payload = s.Scatter
	case types.SectionHeatmap:
		payload = s.Heatmap
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SanitizeToken reduces an identifier to filesystem-safe characters. Anything
// outside [A-Za-z0-9_-] becomes an underscore; an empty result is "unknown".
func SanitizeToken(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "unknown"
	}
	return out
}

// ReportFilename builds the deterministic export name for a report run.
func ReportFilename(houseID string, t time.Time) string {
	return fmt.Sprintf("report_%s_%s.html", SanitizeToken(houseID), t.Format("20060102_150405"))
}

// HeatmapFilename builds the download name for a standalone heatmap PNG.
func HeatmapFilename(serial, start string) string {
	return fmt.Sprintf("heatmap_%s_%s.png", SanitizeToken(serial), SanitizeToken(start))
}

// WriteHTMLFile exports the report into dir and writes a gzip-compressed
// sibling alongside it for archival. Returns the plain HTML path.
func WriteHTMLFile(report types.ChartsReport, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, ReportFilename(report.HouseID, report.GeneratedAt))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("report: create %s: %w", path, err)
	}
	if err := ExportHTML(report, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("report: close %s: %w", path, err)
	}

	if err := writeGzipCopy(path); err != nil {
		return "", err
	}
	return path, nil
}

// writeGzipCopy compresses path into path+".gz".
func writeGzipCopy(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("report: open %s: %w", path, err)
	}
	defer src.Close()

	dst, err := os.Create(path + ".gz")
	if err != nil {
		return fmt.Errorf("report: create %s.gz: %w", path, err)
	}
	zw := gzip.NewWriter(dst)
	if _, err := io.Copy(zw, src); err != nil {
		zw.Close()
		dst.Close()
		return fmt.Errorf("report: compress %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		dst.Close()
		return fmt.Errorf("report: finish gzip: %w", err)
	}
	return dst.Close()
}
